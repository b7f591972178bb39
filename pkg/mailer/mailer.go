// Package mailer sends transactional email through MailerSend, or logs it in development.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"go.uber.org/zap"
)

// ErrNoRecipient is returned for a message without a To address
var ErrNoRecipient = errors.New("mailer: empty recipient")

// Message is one outgoing email
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a message and returns the provider's message id
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// MailerSend delivers through the MailerSend API
type MailerSend struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	timeout time.Duration
}

// Option customizes a MailerSend
type Option func(*MailerSend)

// WithHTTPClient replaces the HTTP client used to reach the API
func WithHTTPClient(c *http.Client) Option {
	return func(m *MailerSend) {
		m.client.SetClient(c)
	}
}

// NewMailerSend creates a MailerSend mailer
func NewMailerSend(apiKey, fromName, fromEmail string, opts ...Option) *MailerSend {
	m := &MailerSend{
		client:  mailersend.NewMailersend(apiKey),
		from:    mailersend.From{Name: fromName, Email: fromEmail},
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send posts msg to MailerSend
func (m *MailerSend) Send(ctx context.Context, msg Message) (string, error) {
	to := strings.TrimSpace(msg.ToEmail)
	if to == "" {
		return "", ErrNoRecipient
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	email := m.client.Email.NewMessage()
	email.SetFrom(m.from)
	email.SetRecipients([]mailersend.Recipient{{Name: msg.ToName, Email: to}})
	email.SetSubject(msg.Subject)
	if strings.TrimSpace(msg.Text) != "" {
		email.SetText(msg.Text)
	}
	if strings.TrimSpace(msg.HTML) != "" {
		email.SetHTML(msg.HTML)
	}

	res, err := m.client.Email.Send(ctx, email)
	if err != nil {
		return "", fmt.Errorf("mailersend send: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096)) //nolint:errcheck // best-effort error detail
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	return res.Header.Get("X-Message-Id"), nil
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct{}

// Send logs msg and returns a synthetic id
func (LogMailer) Send(_ context.Context, msg Message) (string, error) {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return "", ErrNoRecipient
	}
	logger.Info("Email not sent (log mailer)",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject))
	return fmt.Sprintf("log-%d", time.Now().UnixNano()), nil
}
