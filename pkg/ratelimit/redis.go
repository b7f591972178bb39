package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares windows between instances through Redis. The first
// request of a window creates the counter with a TTL of the window period,
// later requests only increment it.
type RedisLimiter struct {
	client    redis.UniversalClient
	window    Window
	keyPrefix string
}

// NewRedisLimiter creates a Redis-backed limiter
func NewRedisLimiter(client redis.UniversalClient, window Window, keyPrefix string) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		window:    window,
		keyPrefix: keyPrefix,
	}
}

// TryAcquire returns an error when Redis is unreachable; callers decide whether to fail open
func (l *RedisLimiter) TryAcquire(ctx context.Context, key string) (bool, error) {
	redisKey := l.keyPrefix + key

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, redisKey, 0, l.window.Period)
		incr = pipe.Incr(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit counter for %s: %w", key, err)
	}

	return incr.Val() <= int64(l.window.Limit), nil
}

// NewRedisClient parses a redis:// URL and returns a client
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}
