// Package ratelimit provides fixed-window request limiters keyed by client.
package ratelimit

import (
	"context"
	"time"
)

// Backend names accepted by RATE_LIMIT_BACKEND
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Limiter decides whether one more request for key fits in the current window.
// A window opens on the first request for a key and lasts for the configured
// duration regardless of later traffic.
type Limiter interface {
	TryAcquire(ctx context.Context, key string) (bool, error)
}

// Window is a fixed-window quota: Limit requests per Period
type Window struct {
	Limit  int
	Period time.Duration
}
