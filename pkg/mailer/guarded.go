package mailer

import (
	"context"
	"strings"

	"github.com/sony/gobreaker"
	"github.com/wanderlust-cottage/booking-api/pkg/circuitbreaker"
)

// Guarded stops calling next while its circuit breaker is open
type Guarded struct {
	next Mailer
	cb   *gobreaker.CircuitBreaker
}

// NewGuarded wraps next with cb
func NewGuarded(next Mailer, cb *gobreaker.CircuitBreaker) *Guarded {
	return &Guarded{next: next, cb: cb}
}

// Send delivers msg through the breaker. A missing recipient never reaches the breaker.
func (g *Guarded) Send(ctx context.Context, msg Message) (string, error) {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return "", ErrNoRecipient
	}
	return circuitbreaker.Execute(g.cb, func() (string, error) {
		return g.next.Send(ctx, msg)
	})
}
