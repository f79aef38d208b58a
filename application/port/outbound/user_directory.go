package outbound

import (
	"context"

	"github.com/halfmoon/halfmoon/domain/entity"
)

// UserDirectory is the external user store this subsystem reads subjects and
// roles from. It does not own user records beyond signup. A miss returns
// (nil, nil).
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *entity.User) error
}
