// Package notify emails the cabin owner and the guest once an inquiry is accepted.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/wanderlust-cottage/booking-api/internal/models"
	"github.com/wanderlust-cottage/booking-api/pkg/circuitbreaker"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"github.com/wanderlust-cottage/booking-api/pkg/mailer"
	"github.com/wanderlust-cottage/booking-api/pkg/metrics"
	"github.com/wanderlust-cottage/booking-api/pkg/retry"
	"go.uber.org/zap"
)

const (
	kindOwner = "owner"
	kindGuest = "guest"
)

// Notifier is told about accepted inquiries. Implementations must not block the request.
type Notifier interface {
	InquiryAccepted(ctx context.Context, inq *models.Inquiry)
	Close(ctx context.Context) error
}

// Options configures an EmailNotifier
type Options struct {
	OwnerEmail   string
	PropertyName string
	Timeout      time.Duration
	Retry        retry.Config
}

// EmailNotifier sends both emails in the background with retries
type EmailNotifier struct {
	mailer mailer.Mailer
	opts   Options
	wg     sync.WaitGroup
}

// NewEmailNotifier creates a notifier delivering through m
func NewEmailNotifier(m mailer.Mailer, opts Options) *EmailNotifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retry.MaxRetries == 0 && opts.Retry.InitialDelay == 0 {
		opts.Retry = retry.NotificationConfig()
	}
	return &EmailNotifier{mailer: m, opts: opts}
}

// InquiryAccepted queues the owner and guest emails and returns immediately
func (n *EmailNotifier) InquiryAccepted(ctx context.Context, inq *models.Inquiry) {
	snapshot := *inq
	// detached from the request so the reply is not held up
	bg := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		sendCtx, cancel := context.WithTimeout(bg, n.opts.Timeout)
		defer cancel()

		n.deliver(sendCtx, kindOwner, n.ownerMessage(&snapshot), snapshot.ID)
		n.deliver(sendCtx, kindGuest, n.guestMessage(&snapshot), snapshot.ID)
	}()
}

// Close waits for in-flight deliveries or until ctx is done
func (n *EmailNotifier) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notifications still in flight: %w", ctx.Err())
	}
}

func (n *EmailNotifier) deliver(ctx context.Context, kind string, msg mailer.Message, bookingID string) {
	id, err := retry.DoWithResult(ctx, n.opts.Retry, "send_"+kind+"_email", func() (string, error) {
		id, err := n.mailer.Send(ctx, msg)
		if errors.Is(err, mailer.ErrNoRecipient) || circuitbreaker.IsOpen(err) {
			return "", retry.Permanent(err)
		}
		return id, err
	})
	if err != nil {
		metrics.NotificationDeliveries.WithLabelValues(kind, "error").Inc()
		logger.Error("Failed to send inquiry email",
			zap.String("kind", kind),
			zap.String("booking_id", bookingID),
			zap.Error(err))
		return
	}

	metrics.NotificationDeliveries.WithLabelValues(kind, "success").Inc()
	logger.Info("Inquiry email sent",
		zap.String("kind", kind),
		zap.String("booking_id", bookingID),
		zap.String("message_id", id))
}

func (n *EmailNotifier) ownerMessage(inq *models.Inquiry) mailer.Message {
	lines := []string{
		"Cerere nouă de rezervare " + inq.ID,
		"",
		"Nume: " + inq.Name,
		"Email: " + inq.Email,
		"Telefon: " + inq.Phone,
		fmt.Sprintf("Oaspeți: %d", inq.Guests),
		"Check-in: " + inq.CheckIn.Format(time.DateOnly),
		"Check-out: " + inq.CheckOut.Format(time.DateOnly),
		fmt.Sprintf("Nopți: %d", inq.Nights),
	}
	if strings.TrimSpace(inq.Preferences) != "" {
		lines = append(lines, "Preferințe: "+inq.Preferences)
	}
	text := strings.Join(lines, "\n")

	return mailer.Message{
		ToEmail: n.opts.OwnerEmail,
		ToName:  n.opts.PropertyName,
		Subject: fmt.Sprintf("Cerere nouă de rezervare: %s, %s - %s", inq.Name,
			inq.CheckIn.Format(time.DateOnly), inq.CheckOut.Format(time.DateOnly)),
		Text: text,
		HTML: "<pre>" + html.EscapeString(text) + "</pre>",
	}
}

func (n *EmailNotifier) guestMessage(inq *models.Inquiry) mailer.Message {
	text := fmt.Sprintf(
		"Bună ziua, %s,\n\nAm primit cererea dumneavoastră de rezervare la %s pentru perioada %s - %s (%d nopți, %d oaspeți).\n"+
			"Vă vom contacta în maximum 24 de ore.\n\nNumăr cerere: %s",
		inq.Name, n.opts.PropertyName,
		inq.CheckIn.Format(time.DateOnly), inq.CheckOut.Format(time.DateOnly),
		inq.Nights, inq.Guests, inq.ID)

	return mailer.Message{
		ToEmail: inq.Email,
		ToName:  inq.Name,
		Subject: "Am primit cererea dumneavoastră - " + n.opts.PropertyName,
		Text:    text,
		HTML:    "<p>" + strings.ReplaceAll(html.EscapeString(text), "\n", "<br>") + "</p>",
	}
}

// Noop drops notifications
type Noop struct{}

func (Noop) InquiryAccepted(context.Context, *models.Inquiry) {}

func (Noop) Close(context.Context) error { return nil }
