package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/halfmoon/halfmoon/application/port/outbound"
	"github.com/halfmoon/halfmoon/domain/autherr"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Service is the token codec: HS256-signed JWTs carrying subject, role and
// token type. It is pure and performs no I/O; decoding verifies the signature
// but not claim validity, so an expired token still yields its claims.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

var _ outbound.TokenCodec = (*Service)(nil)

func NewService(secret string, accessTTL, refreshTTL time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt: signing secret is required")
	}
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (s *Service) CreateAccessToken(subject, role string) (string, error) {
	return s.create(subject, role, typeAccess, s.accessTTL)
}

func (s *Service) CreateRefreshToken(subject, role string) (string, error) {
	return s.create(subject, role, typeRefresh, s.refreshTTL)
}

func (s *Service) create(subject, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	// The jti keeps every minted token unique even when two pairs for the
	// same subject are created within the same second; the store indexes
	// records by the token string.
	claims := jwt.MapClaims{
		"jti":  uuid.NewString(),
		"sub":  subject,
		"role": role,
		"typ":  tokenType,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// DecodeExpiry returns the expiry claim, or the zero time when the claim is
// absent; callers treat zero as already expired.
func (s *Service) DecodeExpiry(token string) (time.Time, error) {
	claims, err := s.decode(token)
	if err != nil {
		return time.Time{}, err
	}
	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return time.Time{}, nil
	}
	return expiresAt.Time, nil
}

func (s *Service) DecodeSubject(token string) (string, error) {
	claims, err := s.decode(token)
	if err != nil {
		return "", err
	}
	subject, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("%w: missing subject", autherr.ErrTokenMalformed)
	}
	return subject, nil
}

func (s *Service) DecodeRole(token string) (string, error) {
	claims, err := s.decode(token)
	if err != nil {
		return "", err
	}
	role, ok := claims["role"].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing role", autherr.ErrTokenMalformed)
	}
	return role, nil
}

// decode verifies the signature only. Expiry enforcement belongs to the
// service layer, which needs the claims of expired tokens too.
func (s *Service) decode(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", autherr.ErrTokenMalformed, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherr.ErrTokenMalformed
	}
	return claims, nil
}
