package autherr

import "errors"

// Sentinel errors for every authentication failure mode. Infrastructure wraps
// driver errors into ErrStoreUnavailable with %w so callers can match with
// errors.Is while keeping the cause in the message.
var (
	// ErrTokenMalformed means the token string could not be parsed or its
	// signature did not verify.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenExpired is the local claims-level failure; it is raised before
	// any store access.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenNotFound means the store holds no record for the token string.
	ErrTokenNotFound = errors.New("token not found")

	// ErrTokenMismatch means a record was found but its stored token string
	// differs from the presented one.
	ErrTokenMismatch = errors.New("token mismatch")

	// ErrSubjectNotFound means the user directory has no entry for the
	// token's subject.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrBadCredentials is login-only.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrStoreUnavailable is an infrastructure fault, not an authentication
	// fault; handlers surface it as 5xx.
	ErrStoreUnavailable = errors.New("token store unavailable")
)

// IsAuthFailure reports whether err belongs to the authentication taxonomy,
// as opposed to an infrastructure fault.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenNotFound) ||
		errors.Is(err, ErrTokenMismatch) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrBadCredentials)
}
