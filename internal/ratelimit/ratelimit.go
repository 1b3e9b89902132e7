// Package ratelimit implements the public-intake abuse control as a
// keyed counter with a time window. The counter lives in Redis rather
// than in process memory because the service may run as several
// concurrent instances behind one load balancer.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

// ErrLimitExceeded is returned when a key has used up its window quota.
var ErrLimitExceeded = errors.New("rate limit exceeded")

// Limiter is the abuse-control check consumed by the public intake path.
type Limiter interface {
	// Allow consumes one unit of quota for key, or returns
	// ErrLimitExceeded when the quota for the current window is spent.
	Allow(ctx context.Context, key string) error
}

// RedisLimiter counts calls per key in Redis using INCR + EXPIRE.
// The window is fixed, anchored at the first call for the key.
type RedisLimiter struct {
	pool   *redis.Pool
	limit  int
	window time.Duration
}

// NewRedisLimiter constructs a RedisLimiter allowing limit calls per
// window for each key.
func NewRedisLimiter(pool *redis.Pool, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{pool: pool, limit: limit, window: window}
}

// Allow increments the key's counter and rejects once it passes the
// limit. The first call in a window sets the expiry; an over-limit call
// still increments but never extends the window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	conn, err := l.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("rate limiter: get connection: %w", err)
	}
	defer conn.Close()

	n, err := redis.Int(conn.Do("INCR", key))
	if err != nil {
		return fmt.Errorf("rate limiter: incr %q: %w", key, err)
	}
	if n == 1 {
		if _, err := conn.Do("EXPIRE", key, int(l.window.Seconds())); err != nil {
			return fmt.Errorf("rate limiter: expire %q: %w", key, err)
		}
	}
	if n > l.limit {
		return ErrLimitExceeded
	}
	return nil
}
