package entity

import (
	"time"
)

// IssuedToken is the persisted record of one access/refresh pair. The store is
// the authority on liveness: a token string that matches no live record is
// invalid regardless of what its claims say.
type IssuedToken struct {
	ID               string    `json:"id"`
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	Subject          string    `json:"subject"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func NewIssuedToken(id, accessToken, refreshToken, subject string, accessExpiresAt, refreshExpiresAt time.Time) *IssuedToken {
	return &IssuedToken{
		ID:               id,
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		Subject:          subject,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}
}

// Expired reports whether the record should be retired. The pair is issued
// together and dies together: either side past (or unset) kills the record.
func (t *IssuedToken) Expired(now time.Time) bool {
	return sideExpired(t.AccessExpiresAt, now) || sideExpired(t.RefreshExpiresAt, now)
}

func sideExpired(expiresAt, now time.Time) bool {
	return expiresAt.IsZero() || !expiresAt.After(now)
}
