package middleware

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/halfmoon/halfmoon/infrastructure/http/response"
	"github.com/halfmoon/halfmoon/infrastructure/service/ratelimit"
)

// RateLimitMiddleware throttles the credential-bearing endpoints per client
// IP. Limiter failures fail open: authentication keeps working when Redis is
// down.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	log     logrus.FieldLogger
}

func NewRateLimitMiddleware(limiter ratelimit.Limiter, log logrus.FieldLogger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		log:     log,
	}
}

func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + r.URL.Path + ":" + clientIP(r)

		allowed, err := m.limiter.Allow(r.Context(), key)
		if err != nil {
			m.log.WithError(err).Warn("rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			response.TooManyRequests(w, "too many attempts, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
