package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wanderlust-cottage/booking-api/internal/models"
	"github.com/wanderlust-cottage/booking-api/internal/notify"
	"github.com/wanderlust-cottage/booking-api/internal/rules"
	"github.com/wanderlust-cottage/booking-api/pkg/events"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"github.com/wanderlust-cottage/booking-api/pkg/metrics"
	"github.com/wanderlust-cottage/booking-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Messages returned to the booking form
const (
	MsgAccepted        = "Cererea de rezervare a fost trimisă cu succes! Vă vom contacta în maximum 24 de ore."
	MsgSpamAck         = "Cerere trimisă"
	MsgMissingFields   = "Toate câmpurile obligatorii trebuie completate."
	MsgInvalidEmail    = "Email invalid."
	MsgInvalidGuests   = "Numărul de oaspeți nu este valid."
	MsgInvalidDate     = "Data nu este validă."
	MsgCheckInPast     = "Data de check-in nu poate fi în trecut."
	MsgCheckOutInvalid = "Data de check-out trebuie să fie după check-in."
)

// InquiryStore persists accepted inquiries and returns the stored id
type InquiryStore interface {
	Create(ctx context.Context, inq *models.Inquiry) (string, error)
}

// InquiryDeps are the collaborators of InquiryService. Store, Notifier and
// Publisher are optional; a nil Store means nothing is persisted.
type InquiryDeps struct {
	Store     InquiryStore
	Notifier  notify.Notifier
	Publisher events.Publisher
	Subject   string
	Location  *time.Location
	Now       func() time.Time
}

// InquiryService re-validates and accepts booking inquiries
type InquiryService struct {
	store     InquiryStore
	notifier  notify.Notifier
	publisher events.Publisher
	subject   string
	loc       *time.Location
	now       func() time.Time
}

// NewInquiryService creates a new inquiry service instance
func NewInquiryService(deps InquiryDeps) *InquiryService {
	s := &InquiryService{
		store:     deps.Store,
		notifier:  deps.Notifier,
		publisher: deps.Publisher,
		subject:   deps.Subject,
		loc:       deps.Location,
		now:       deps.Now,
	}
	if s.notifier == nil {
		s.notifier = notify.Noop{}
	}
	if s.publisher == nil {
		s.publisher = events.NoopPublisher{}
	}
	if s.subject == "" {
		s.subject = events.InquiryReceived
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func rejected(status, msg string) *models.InquiryResponse {
	metrics.InquirySubmissions.WithLabelValues(status).Inc()
	return &models.InquiryResponse{Success: false, Error: msg}
}

// SubmitInquiry runs the server-side checks in order and accepts the inquiry.
// Validation failures come back as an unsuccessful response; the error return
// is reserved for failures of the service itself.
func (s *InquiryService) SubmitInquiry(ctx context.Context, req *models.InquiryRequest, clientIP string) (*models.InquiryResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "InquiryService.SubmitInquiry")
	defer span.End()

	if req.Honeypot != "" {
		metrics.InquirySubmissions.WithLabelValues("spam").Inc()
		span.SetAttributes(attribute.Bool("inquiry.spam", true))
		logger.Warn("Spam detected via honeypot", zap.String("client_ip", clientIP))
		return &models.InquiryResponse{Success: true, Message: MsgSpamAck}, nil
	}

	if isBlank(req.Name) || isBlank(req.Email) || isBlank(req.Phone) ||
		req.Guests == 0 || isBlank(req.CheckIn) || isBlank(req.CheckOut) {
		return rejected("missing_fields", MsgMissingFields), nil
	}

	if !rules.IsEmail(req.Email) {
		return rejected("invalid_email", MsgInvalidEmail), nil
	}

	// only the sign is checked here, the 1-8 range belongs to the form
	if req.Guests < 1 {
		return rejected("invalid_guests", MsgInvalidGuests), nil
	}

	checkIn, err := rules.ParseDate(req.CheckIn, s.loc)
	if err != nil {
		return rejected("invalid_date", MsgInvalidDate), nil
	}
	checkOut, err := rules.ParseDate(req.CheckOut, s.loc)
	if err != nil {
		return rejected("invalid_date", MsgInvalidDate), nil
	}

	now := s.now()
	if rules.IsPast(checkIn, now) {
		return rejected("check_in_past", MsgCheckInPast), nil
	}
	if !checkOut.After(checkIn) {
		return rejected("check_out_invalid", MsgCheckOutInvalid), nil
	}

	nights := rules.Nights(checkIn, checkOut)
	inq := &models.Inquiry{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Guests:      int(req.Guests),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Nights:      nights,
		Preferences: req.Preferences,
		ClientIP:    clientIP,
		CreatedAt:   now.UTC(),
	}

	bookingID := fmt.Sprintf("TEMP-%d", now.UnixMilli())
	if s.store != nil {
		id, storeErr := s.store.Create(ctx, inq)
		if storeErr != nil {
			metrics.InquirySubmissions.WithLabelValues("error").Inc()
			span.RecordError(storeErr)
			span.SetStatus(codes.Error, "store failed")
			return nil, fmt.Errorf("failed to store inquiry: %w", storeErr)
		}
		bookingID = id
	}
	inq.ID = bookingID

	span.SetAttributes(
		attribute.String("inquiry.booking_id", bookingID),
		attribute.Int("inquiry.nights", nights),
		attribute.Int("inquiry.guests", inq.Guests),
	)

	logger.Info("New booking request",
		zap.String("booking_id", bookingID),
		zap.String("name", inq.Name),
		zap.String("email", inq.Email),
		zap.String("phone", inq.Phone),
		zap.Int("guests", inq.Guests),
		zap.String("check_in", req.CheckIn),
		zap.String("check_out", req.CheckOut),
		zap.Int("nights", nights),
		zap.String("preferences", inq.Preferences),
		zap.String("client_ip", clientIP))

	s.announce(ctx, inq)

	metrics.InquirySubmissions.WithLabelValues("success").Inc()
	metrics.InquiryNights.Observe(float64(nights))

	return &models.InquiryResponse{
		Success:   true,
		Message:   MsgAccepted,
		BookingID: bookingID,
	}, nil
}

// announce fans the accepted inquiry out to email and the event bus. Failures
// here are logged and never change the response.
func (s *InquiryService) announce(ctx context.Context, inq *models.Inquiry) {
	s.notifier.InquiryAccepted(ctx, inq)

	event := models.InquiryReceivedEvent{
		BookingID:  inq.ID,
		Name:       inq.Name,
		Email:      inq.Email,
		Phone:      inq.Phone,
		Guests:     inq.Guests,
		CheckIn:    inq.CheckIn.Format(rules.DateLayout),
		CheckOut:   inq.CheckOut.Format(rules.DateLayout),
		Nights:     inq.Nights,
		ReceivedAt: inq.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, s.subject, event); err != nil {
		logger.Error("Failed to publish inquiry event",
			zap.String("subject", s.subject),
			zap.String("booking_id", inq.ID),
			zap.Error(err))
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
