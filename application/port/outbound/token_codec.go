package outbound

import "time"

// TokenCodec encodes and decodes signed tokens. It performs no I/O and makes
// no liveness decision; the store is the authority on whether a decoded token
// is still current.
type TokenCodec interface {
	CreateAccessToken(subject, role string) (string, error)
	CreateRefreshToken(subject, role string) (string, error)

	// DecodeExpiry verifies the signature and returns the expiry claim. A
	// signed token with no expiry claim decodes to the zero time, which
	// callers treat as already expired. Unparseable or badly signed input
	// fails with autherr.ErrTokenMalformed.
	DecodeExpiry(token string) (time.Time, error)
	DecodeSubject(token string) (string, error)
	DecodeRole(token string) (string, error)
}
