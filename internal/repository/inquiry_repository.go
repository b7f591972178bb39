package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wanderlust-cottage/booking-api/internal/models"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"github.com/wanderlust-cottage/booking-api/pkg/metrics"
	"go.uber.org/zap"
)

// DB is the subset of *pgxpool.Pool the repository needs
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

const insertInquirySQL = `
	INSERT INTO booking_inquiries
		(id, name, email, phone, guests, check_in, check_out, nights, preferences, client_ip, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// InquiryRepository persists accepted inquiries in PostgreSQL
type InquiryRepository struct {
	db DB
}

// NewInquiryRepository creates a repository over a pool
func NewInquiryRepository(db DB) *InquiryRepository {
	return &InquiryRepository{db: db}
}

// Create stores inq and returns its generated id. inq.ID and inq.CreatedAt are set.
func (r *InquiryRepository) Create(ctx context.Context, inq *models.Inquiry) (string, error) {
	start := time.Now()
	const operation = "createInquiry"

	if inq.ID == "" {
		inq.ID = uuid.NewString()
	}
	if inq.CreatedAt.IsZero() {
		inq.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, insertInquirySQL,
		inq.ID,
		inq.Name,
		inq.Email,
		inq.Phone,
		inq.Guests,
		inq.CheckIn.Format(time.DateOnly),
		inq.CheckOut.Format(time.DateOnly),
		inq.Nights,
		inq.Preferences,
		inq.ClientIP,
		inq.CreatedAt,
	)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.Error("Failed to insert booking inquiry", zap.Error(err), zap.Float64("duration_s", duration))
		return "", fmt.Errorf("failed to insert inquiry: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return inq.ID, nil
}

// Ping checks that the database is reachable
func (r *InquiryRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func recordMetrics(operation, status string, duration float64) {
	metrics.DBOperationDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBOperationTotal.WithLabelValues(operation, status).Inc()
}
