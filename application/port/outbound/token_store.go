package outbound

import (
	"context"

	"github.com/halfmoon/halfmoon/domain/entity"
)

// TokenStore is the durable repository of issued token pairs. Lookups that
// match nothing return (nil, nil); absence is a service-layer decision, not a
// store error. Storage failures wrap autherr.ErrStoreUnavailable.
type TokenStore interface {
	// Save always inserts a new record; it never upserts by subject.
	Save(ctx context.Context, record *entity.IssuedToken) (*entity.IssuedToken, error)

	FindByAccessToken(ctx context.Context, accessToken string) (*entity.IssuedToken, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*entity.IssuedToken, error)
	FindBySubject(ctx context.Context, subject string) (*entity.IssuedToken, error)
	FindAll(ctx context.Context) ([]*entity.IssuedToken, error)

	Delete(ctx context.Context, id string) error
	DeleteBySubject(ctx context.Context, subject string) error
}
