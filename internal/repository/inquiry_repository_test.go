package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlust-cottage/booking-api/internal/models"
)

type fakeDB struct {
	sql     string
	args    []any
	execErr error
	pingErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = args
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Ping(context.Context) error {
	return f.pingErr
}

func sampleInquiry() *models.Inquiry {
	return &models.Inquiry{
		Name:     "Ion Popescu",
		Email:    "ion@example.com",
		Phone:    "0712345678",
		Guests:   2,
		CheckIn:  time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC),
		Nights:   3,
		ClientIP: "203.0.113.7",
	}
}

func TestInquiryRepository_Create(t *testing.T) {
	db := &fakeDB{}
	repo := NewInquiryRepository(db)
	inq := sampleInquiry()

	id, err := repo.Create(context.Background(), inq)

	require.NoError(t, err)
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)
	assert.Equal(t, id, inq.ID)
	assert.False(t, inq.CreatedAt.IsZero())

	assert.Contains(t, db.sql, "INSERT INTO booking_inquiries")
	require.Len(t, db.args, 11)
	assert.Equal(t, "2026-10-20", db.args[5])
	assert.Equal(t, "2026-10-23", db.args[6])
	assert.Equal(t, 3, db.args[7])
}

func TestInquiryRepository_Create_Error(t *testing.T) {
	db := &fakeDB{execErr: errors.New("relation does not exist")}
	repo := NewInquiryRepository(db)

	id, err := repo.Create(context.Background(), sampleInquiry())

	assert.Error(t, err)
	assert.Empty(t, id)
}

func TestInquiryRepository_Ping(t *testing.T) {
	assert.NoError(t, NewInquiryRepository(&fakeDB{}).Ping(context.Background()))
	assert.Error(t, NewInquiryRepository(&fakeDB{pingErr: errors.New("down")}).Ping(context.Background()))
}
