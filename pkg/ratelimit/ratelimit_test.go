package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWindow = Window{Limit: 5, Period: 60 * time.Second}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func acquireN(t *testing.T, l Limiter, key string, n int) []bool {
	t.Helper()
	results := make([]bool, n)
	for i := range results {
		ok, err := l.TryAcquire(context.Background(), key)
		require.NoError(t, err)
		results[i] = ok
	}
	return results
}

func TestMemoryLimiter_SixthRequestDenied(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(testWindow, c.Now)

	results := acquireN(t, l, "203.0.113.7", 6)

	assert.Equal(t, []bool{true, true, true, true, true, false}, results)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(testWindow, c.Now)

	acquireN(t, l, "203.0.113.7", 5)
	ok, err := l.TryAcquire(context.Background(), "198.51.100.1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(testWindow, c.Now)

	acquireN(t, l, "203.0.113.7", 5)

	// still inside the window at exactly resetAt
	c.Advance(60 * time.Second)
	ok, err := l.TryAcquire(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok)

	c.Advance(time.Millisecond)
	results := acquireN(t, l, "203.0.113.7", 6)
	assert.Equal(t, []bool{true, true, true, true, true, false}, results)
}

func TestMemoryLimiter_DeniedRequestsDoNotExtendWindow(t *testing.T) {
	c := &clock{t: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(testWindow, c.Now)

	acquireN(t, l, "k", 5)
	c.Advance(30 * time.Second)
	acquireN(t, l, "k", 3)
	c.Advance(31 * time.Second)

	ok, err := l.TryAcquire(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	l := NewMemoryLimiter(testWindow, nil)

	var allowed int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.TryAcquire(context.Background(), "k"); ok {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed)
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLimiter_SixthRequestDenied(t *testing.T) {
	mr, client := newMiniredis(t)
	l := NewRedisLimiter(client, testWindow, "test:")

	results := acquireN(t, l, "203.0.113.7", 6)

	assert.Equal(t, []bool{true, true, true, true, true, false}, results)
	assert.True(t, mr.Exists("test:203.0.113.7"))
	assert.Equal(t, 60*time.Second, mr.TTL("test:203.0.113.7"))
}

func TestRedisLimiter_WindowResets(t *testing.T) {
	mr, client := newMiniredis(t)
	l := NewRedisLimiter(client, testWindow, "test:")

	acquireN(t, l, "k", 5)
	mr.FastForward(30 * time.Second)

	// a request later in the window does not push the expiry out
	ok, err := l.TryAcquire(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 30*time.Second, mr.TTL("test:k"))

	mr.FastForward(31 * time.Second)
	results := acquireN(t, l, "k", 6)
	assert.Equal(t, []bool{true, true, true, true, true, false}, results)
}

func TestRedisLimiter_Unavailable(t *testing.T) {
	mr, client := newMiniredis(t)
	l := NewRedisLimiter(client, testWindow, "test:")
	mr.Close()

	ok, err := l.TryAcquire(context.Background(), "k")

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, client.Options().DB)
	_ = client.Close()

	_, err = NewRedisClient("not a url")
	assert.Error(t, err)
}
