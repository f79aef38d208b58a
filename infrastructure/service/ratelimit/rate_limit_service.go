package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Limiter guards the login and reissue endpoints. Allow reports whether the
// caller identified by key may proceed within the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type redisLimiter struct {
	client   *redis.Client
	attempts int
	window   time.Duration
	log      logrus.FieldLogger
}

// NewWithClient builds a fixed-window limiter on an existing Redis client;
// the composition root shares the client with the token store.
func NewWithClient(client *redis.Client, attempts int, window time.Duration, log logrus.FieldLogger) Limiter {
	return &redisLimiter{
		client:   client,
		attempts: attempts,
		window:   window,
		log:      log,
	}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	pipeline := l.client.Pipeline()
	incr := pipeline.Incr(ctx, key)
	pipeline.Expire(ctx, key, l.window)

	if _, err := pipeline.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := incr.Val()
	if count > int64(l.attempts) {
		l.log.WithFields(logrus.Fields{
			"key":   key,
			"count": count,
			"limit": l.attempts,
		}).Warn("rate limit exceeded")
		return false, nil
	}
	return true, nil
}

// NewNoop returns a limiter that always allows.
func NewNoop() Limiter {
	return &noopLimiter{}
}

type noopLimiter struct{}

func (*noopLimiter) Allow(context.Context, string) (bool, error) {
	return true, nil
}
