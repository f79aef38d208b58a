package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/halfmoon/halfmoon/application/port/inbound"
	"github.com/halfmoon/halfmoon/application/port/outbound"
	"github.com/halfmoon/halfmoon/domain/autherr"
	"github.com/halfmoon/halfmoon/domain/entity"
	"github.com/halfmoon/halfmoon/domain/valueobject"
)

var ErrEmailInUse = errors.New("email already in use")

// AuthService orchestrates token issuance, two-phase validation, refresh
// rotation and principal resolution. All shared state lives in the token
// store; the service itself is stateless and safe for concurrent use.
type AuthService struct {
	codec     outbound.TokenCodec
	store     outbound.TokenStore
	users     outbound.UserDirectory
	passwords outbound.PasswordVerifier
	log       logrus.FieldLogger
}

var _ inbound.AuthUseCase = (*AuthService)(nil)

func NewAuthService(
	codec outbound.TokenCodec,
	store outbound.TokenStore,
	users outbound.UserDirectory,
	passwords outbound.PasswordVerifier,
	log logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		codec:     codec,
		store:     store,
		users:     users,
		passwords: passwords,
		log:       log,
	}
}

// Login verifies credentials against the user directory and issues a fresh
// pair. Any verification miss collapses into ErrBadCredentials so the
// response never reveals which half was wrong.
func (s *AuthService) Login(ctx context.Context, req inbound.LoginRequest) (*valueobject.TokenPair, error) {
	credentials, err := valueobject.NewCredentials(req.Username, req.Password)
	if err != nil {
		return nil, autherr.ErrBadCredentials
	}

	user, err := s.users.FindByEmail(ctx, credentials.Username())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherr.ErrBadCredentials
	}

	if err := s.passwords.Verify(user.Password, credentials.Password()); err != nil {
		s.log.WithField("subject", user.Email).Warn("login rejected: password mismatch")
		return nil, autherr.ErrBadCredentials
	}

	return s.Issue(ctx, user.Email, user.Role)
}

// SignUp hashes the password and creates the directory entry with the USER
// role.
func (s *AuthService) SignUp(ctx context.Context, req inbound.SignUpRequest) error {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailInUse
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return err
	}

	user := entity.NewUser(uuid.NewString(), req.Email, hash, req.Nickname, string(valueobject.RoleUser))
	return s.users.Create(ctx, user)
}

// Issue mints an access/refresh pair and persists the record. The expiries
// stored alongside the pair are read back out of the minted tokens so the
// record can never disagree with the claims.
func (s *AuthService) Issue(ctx context.Context, subject, role string) (*valueobject.TokenPair, error) {
	accessToken, err := s.codec.CreateAccessToken(subject, role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.CreateRefreshToken(subject, role)
	if err != nil {
		return nil, err
	}

	accessExpiresAt, err := s.codec.DecodeExpiry(accessToken)
	if err != nil {
		return nil, err
	}
	refreshExpiresAt, err := s.codec.DecodeExpiry(refreshToken)
	if err != nil {
		return nil, err
	}

	record := entity.NewIssuedToken(
		uuid.NewString(),
		accessToken,
		refreshToken,
		subject,
		accessExpiresAt,
		refreshExpiresAt,
	)

	saved, err := s.store.Save(ctx, record)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"subject": subject,
		"record":  saved.ID,
	}).Info("issued token pair")

	return valueobject.NewTokenPair(saved.AccessToken, saved.RefreshToken), nil
}

// ValidateAccess runs the two-phase check: the local expiry test first, so a
// trivially expired token never costs a store round trip, then the store
// lookup plus a string-equality check against the stored token.
func (s *AuthService) ValidateAccess(ctx context.Context, accessToken string) error {
	if err := s.checkExpiry(accessToken); err != nil {
		return err
	}

	record, err := s.store.FindByAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if record == nil {
		return autherr.ErrTokenNotFound
	}
	if record.AccessToken != accessToken {
		return autherr.ErrTokenMismatch
	}
	return nil
}

// Authenticate resolves a principal from the token claims alone. It re-decodes
// the token instead of re-reading the store, so it must only be called after
// ValidateAccess has succeeded for the same token.
func (s *AuthService) Authenticate(_ context.Context, validAccessToken string) (valueobject.Principal, error) {
	subject, err := s.codec.DecodeSubject(validAccessToken)
	if err != nil {
		return valueobject.Principal{}, err
	}
	role, err := s.codec.DecodeRole(validAccessToken)
	if err != nil {
		return valueobject.Principal{}, err
	}
	return valueobject.NewPrincipal(subject, role), nil
}

// ReissueFromRefresh validates the refresh token like an access token, looks
// up the subject's current role in the directory and mints a brand-new pair.
// The prior record is intentionally left live: a subject may hold several
// pairs at once (multi-device) until the sweep or a logout retires them, and
// two concurrent reissues of the same refresh token may both succeed. The
// store's row-level guarantees are the only serialization.
func (s *AuthService) ReissueFromRefresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error) {
	if err := s.checkExpiry(refreshToken); err != nil {
		return nil, err
	}

	record, err := s.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, autherr.ErrTokenNotFound
	}
	if record.RefreshToken != refreshToken {
		return nil, autherr.ErrTokenMismatch
	}

	subject, err := s.codec.DecodeSubject(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherr.ErrSubjectNotFound
	}

	return s.Issue(ctx, user.Email, user.Role)
}

// RevokeBySubject is the logout path: it deletes every live record for the
// subject, so all devices are signed out at once.
func (s *AuthService) RevokeBySubject(ctx context.Context, subject string) error {
	if err := s.store.DeleteBySubject(ctx, subject); err != nil {
		return err
	}
	s.log.WithField("subject", subject).Info("revoked all tokens for subject")
	return nil
}

func (s *AuthService) checkExpiry(token string) error {
	expiresAt, err := s.codec.DecodeExpiry(token)
	if err != nil {
		return err
	}
	if expiresAt.IsZero() || !expiresAt.After(time.Now()) {
		return autherr.ErrTokenExpired
	}
	return nil
}
