package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/halfmoon/halfmoon/application/port/inbound"
	"github.com/halfmoon/halfmoon/domain/valueobject"
	"github.com/halfmoon/halfmoon/infrastructure/http/response"
)

type contextKey string

const principalKey contextKey = "auth_principal"

const bearerPrefix = "Bearer "

// AuthMiddleware is the per-request authentication filter. Authenticate fails
// open: a missing, malformed or stale token leaves the request anonymous and
// the chain continues; only the authorization middlewares below reject.
type AuthMiddleware struct {
	auth inbound.AuthUseCase
	log  logrus.FieldLogger
}

func NewAuthMiddleware(auth inbound.AuthUseCase, log logrus.FieldLogger) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
		log:  log,
	}
}

// Authenticate extracts the bearer token, validates it and installs the
// resolved principal into the request context. It never writes an error
// response itself; any failure clears the principal and the chain continues.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := resolveBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		if err := m.auth.ValidateAccess(r.Context(), token); err != nil {
			m.log.WithError(err).WithField("path", r.URL.Path).Debug("access token rejected")
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			m.log.WithError(err).WithField("path", r.URL.Path).Debug("principal resolution failed")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth is the authorization layer for protected routes. Responses are
// uniform and carry no cause detail.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			response.Unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects authenticated principals whose role does not match.
func RequireRole(role valueobject.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "authentication required")
				return
			}
			if !principal.HasRole(role) {
				response.Forbidden(w, "insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext is the current-principal lookup exposed to downstream
// business logic.
func PrincipalFromContext(ctx context.Context) (valueobject.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(valueobject.Principal)
	return principal, ok
}

// WithPrincipal installs a principal into ctx; exported for handler tests.
func WithPrincipal(ctx context.Context, principal valueobject.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func resolveBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return header[len(bearerPrefix):]
	}
	return ""
}
