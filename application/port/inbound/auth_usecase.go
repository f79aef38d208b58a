package inbound

import (
	"context"

	"github.com/halfmoon/halfmoon/domain/valueobject"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// AuthUseCase is the authentication service surface consumed by the HTTP
// layer. ValidateAccess and Authenticate are split on purpose: the request
// filter validates first and only then resolves a principal, and Authenticate
// must never be called with a token that did not pass ValidateAccess.
type AuthUseCase interface {
	Login(ctx context.Context, req LoginRequest) (*valueobject.TokenPair, error)
	SignUp(ctx context.Context, req SignUpRequest) error

	Issue(ctx context.Context, subject, role string) (*valueobject.TokenPair, error)
	ValidateAccess(ctx context.Context, accessToken string) error
	Authenticate(ctx context.Context, validAccessToken string) (valueobject.Principal, error)
	ReissueFromRefresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error)
	RevokeBySubject(ctx context.Context, subject string) error
}
