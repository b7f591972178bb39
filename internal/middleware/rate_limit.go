package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wanderlust-cottage/booking-api/pkg/errors"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"github.com/wanderlust-cottage/booking-api/pkg/metrics"
	"github.com/wanderlust-cottage/booking-api/pkg/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MsgTooManyRequests is the body error of a 429
const MsgTooManyRequests = "Prea multe cereri. Vă rugăm încercați din nou mai târziu."

// InquiryRateLimitMiddleware enforces the fixed-window quota on inquiry
// submissions. The limiter is consulted before the body is read. A limiter
// error lets the request through.
func InquiryRateLimitMiddleware(limiter ratelimit.Limiter, backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, err := limiter.TryAcquire(c.Request.Context(), ip)
		if err != nil {
			metrics.RateLimitDecisions.WithLabelValues(backend, "error").Inc()
			logger.Warn("Rate limiter unavailable, allowing request",
				zap.String("backend", backend),
				zap.String("client_ip", ip),
				zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitDecisions.WithLabelValues(backend, "denied").Inc()
			_ = c.Error(apperrors.RateLimitedError(ip)) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": MsgTooManyRequests})
			return
		}

		metrics.RateLimitDecisions.WithLabelValues(backend, "allowed").Inc()
		c.Next()
	}
}

// TokenBucketLimiter throttles operational endpoints such as health and
// metrics with a per-IP token bucket
type TokenBucketLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	r        rate.Limit
	b        int
	idleTTL  time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewTokenBucketLimiter creates a limiter allowing r requests per second with
// bursts of b. Idle visitors are swept until ctx is done.
func NewTokenBucketLimiter(ctx context.Context, r rate.Limit, b int) *TokenBucketLimiter {
	rl := &TokenBucketLimiter{
		visitors: make(map[string]*visitor),
		r:        r,
		b:        b,
		idleTTL:  3 * time.Minute,
	}

	go rl.sweep(ctx)

	return rl
}

func (rl *TokenBucketLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.r, rl.b)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow()
}

func (rl *TokenBucketLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > rl.idleTTL {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Middleware returns the gin handler
func (rl *TokenBucketLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": MsgTooManyRequests})
			return
		}
		c.Next()
	}
}
