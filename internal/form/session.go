// Package form implements the client side of the booking inquiry flow: field
// validation, the honeypot and time-trap checks, and submission to the endpoint.
package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wanderlust-cottage/booking-api/internal/models"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"go.uber.org/zap"
)

// DefaultGuests is the party size preselected when the form renders
const DefaultGuests = 2

// Status is what happened to a submit attempt
type Status string

const (
	// StatusDropped means the attempt looked automated and was silently ignored
	StatusDropped Status = "dropped"
	StatusInvalid Status = "invalid"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Outcome is what the form shows the user after a submit attempt
type Outcome struct {
	Status      Status
	Message     string
	FieldErrors map[string]string
	BookingID   string
	ContactLink string
}

// Session is one rendered booking form: its field values, the errors shown
// under the fields, and the instant it was rendered for the time-trap.
type Session struct {
	Request models.InquiryRequest
	Errors  map[string]string

	renderedAt   time.Time
	validator    *Validator
	submitter    Submitter
	contactEmail string
	now          func() time.Time
}

// NewSession starts a form session at render time
func NewSession(v *Validator, submitter Submitter, contactEmail string, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		Request:      models.InquiryRequest{Guests: DefaultGuests},
		Errors:       map[string]string{},
		renderedAt:   now(),
		validator:    v,
		submitter:    submitter,
		contactEmail: contactEmail,
		now:          now,
	}
}

// Update sets one field from user input and clears the error shown for it
func (s *Session) Update(field, value string) error {
	switch field {
	case FieldName:
		s.Request.Name = value
	case FieldEmail:
		s.Request.Email = value
	case FieldPhone:
		s.Request.Phone = value
	case FieldGuests:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			n = 0
		}
		s.Request.Guests = models.Guests(n)
	case FieldCheckIn:
		s.Request.CheckIn = value
	case FieldCheckOut:
		s.Request.CheckOut = value
	case "preferences":
		s.Request.Preferences = value
	case "honeypot":
		s.Request.Honeypot = value
	default:
		return fmt.Errorf("unknown form field %q", field)
	}

	delete(s.Errors, field)
	return nil
}

// Submit runs the anti-spam checks and validation, then sends the inquiry.
// Suspected bots get StatusDropped with no message and no network call.
func (s *Session) Submit(ctx context.Context) Outcome {
	elapsed := s.now().Sub(s.renderedAt)
	if IsLikelySpam(&s.Request, elapsed) {
		logger.Debug("Booking form submission dropped",
			zap.Bool("honeypot", s.Request.Honeypot != ""),
			zap.Duration("elapsed", elapsed))
		return Outcome{Status: StatusDropped}
	}

	result := s.validator.Validate(&s.Request)
	s.Errors = result.FieldErrors
	if !result.Valid {
		return Outcome{Status: StatusInvalid, FieldErrors: result.FieldErrors}
	}

	resp, err := s.submitter.Submit(ctx, &s.Request)
	if err != nil {
		logger.Warn("Booking form submission failed", zap.Error(err))
		return Outcome{
			Status:      StatusError,
			Message:     MsgSubmitFailed,
			ContactLink: "mailto:" + s.contactEmail,
		}
	}

	s.reset()
	return Outcome{
		Status:    StatusSuccess,
		Message:   MsgSuccess,
		BookingID: resp.BookingID,
	}
}

// reset clears the form after a successful submission
func (s *Session) reset() {
	s.Request = models.InquiryRequest{Guests: DefaultGuests}
	s.Errors = map[string]string{}
}
