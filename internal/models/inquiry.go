package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Guests is the party size. The booking form posts it as a string from a
// <select>, other callers send a number, so both are accepted.
type Guests int

// UnmarshalJSON accepts a JSON number, a numeric string, an empty string or null.
// Fractions are truncated; values outside the int32 range are rejected.
func (g *Guests) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*g = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("guests: %w", err)
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*g = 0
			return nil
		}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("guests: %q is not a number", raw)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return fmt.Errorf("guests: %q is out of range", raw)
	}
	*g = Guests(int(n))
	return nil
}

// InquiryRequest is a booking inquiry as submitted by the booking form
type InquiryRequest struct {
	Name        string `json:"name" validate:"notblank,trimmed_min=3"`
	Email       string `json:"email" validate:"notblank,simple_email"`
	Phone       string `json:"phone" validate:"notblank,phone"`
	Guests      Guests `json:"guests" validate:"min=1,max=8"`
	CheckIn     string `json:"checkIn" validate:"notblank,datetime=2006-01-02"`
	CheckOut    string `json:"checkOut" validate:"notblank,datetime=2006-01-02"`
	Preferences string `json:"preferences"`
	Honeypot    string `json:"honeypot"`
}

// InquiryResponse is the acknowledgement returned by the intake endpoint.
// Success is not serialized: the HTTP status carries it.
type InquiryResponse struct {
	Success   bool   `json:"-"`
	Message   string `json:"message,omitempty"`
	BookingID string `json:"bookingId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Inquiry is an accepted inquiry with its parsed stay
type Inquiry struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Guests      int
	CheckIn     time.Time
	CheckOut    time.Time
	Nights      int
	Preferences string
	ClientIP    string
	CreatedAt   time.Time
}

// InquiryReceivedEvent is published once an inquiry has been accepted
type InquiryReceivedEvent struct {
	BookingID  string    `json:"booking_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Guests     int       `json:"guests"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Nights     int       `json:"nights"`
	ReceivedAt time.Time `json:"received_at"`
}
