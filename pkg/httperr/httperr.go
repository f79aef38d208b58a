package httperr

import (
	"errors"
	"net/http"

	"github.com/halfmoon/halfmoon/domain/autherr"
)

// StatusFor maps an authentication error to the HTTP status the login and
// reissue endpoints surface. Authentication failures are 401; infrastructure
// faults are 503; anything else is a 500.
func StatusFor(err error) int {
	switch {
	case autherr.IsAuthFailure(err):
		return http.StatusUnauthorized
	case errors.Is(err, autherr.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor returns the user-facing message: the sentinel's own text for
// authentication failures, never the wrapped cause. Infrastructure and
// unknown faults do not leak theirs at all.
func MessageFor(err error) string {
	for _, sentinel := range []error{
		autherr.ErrTokenMalformed,
		autherr.ErrTokenExpired,
		autherr.ErrTokenNotFound,
		autherr.ErrTokenMismatch,
		autherr.ErrSubjectNotFound,
		autherr.ErrBadCredentials,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	if errors.Is(err, autherr.ErrStoreUnavailable) {
		return "service temporarily unavailable"
	}
	return "internal server error"
}
