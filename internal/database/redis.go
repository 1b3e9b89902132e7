package database

import (
	"fmt"
	"time"

	"github.com/dardiyafa/booking-engine/internal/config"
	"github.com/gomodule/redigo/redis"
)

// NewRedisPool builds a redigo pool for the rate-limiter counter store
// and verifies connectivity with a PING.
func NewRedisPool(cfg config.RedisConfig) (*redis.Pool, error) {
	pool := &redis.Pool{
		MaxIdle:     5,
		MaxActive:   20,
		IdleTimeout: 4 * time.Minute,
		Dial: func() (redis.Conn, error) {
			opts := []redis.DialOption{}
			if cfg.Password != "" {
				opts = append(opts, redis.DialPassword(cfg.Password))
			}
			return redis.Dial("tcp", cfg.Addr, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	conn := pool.Get()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return pool, nil
}
