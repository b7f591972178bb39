package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type windowState struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps per-key windows in process memory. Entries expire with
// their window so idle clients do not accumulate.
type MemoryLimiter struct {
	window  Window
	entries *cache.Cache
	mu      sync.Mutex
	now     func() time.Time
}

// NewMemoryLimiter creates an in-memory limiter. now defaults to time.Now.
func NewMemoryLimiter(window Window, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		window:  window,
		entries: cache.New(window.Period, 2*window.Period),
		now:     now,
	}
}

// TryAcquire never fails
func (l *MemoryLimiter) TryAcquire(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	var state windowState
	if v, found := l.entries.Get(key); found {
		state = v.(windowState)
	}

	if state.resetAt.IsZero() || now.After(state.resetAt) {
		l.entries.Set(key, windowState{count: 1, resetAt: now.Add(l.window.Period)}, l.window.Period)
		return true, nil
	}

	if state.count >= l.window.Limit {
		return false, nil
	}

	state.count++
	l.entries.Set(key, state, state.resetAt.Sub(now))
	return true, nil
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	return l.entries.ItemCount()
}
