package services_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/wanderlust-cottage/booking-api/internal/models"
)

// MockInquiryStore is a mock implementation of InquiryStore
type MockInquiryStore struct {
	mock.Mock
}

func (m *MockInquiryStore) Create(ctx context.Context, inq *models.Inquiry) (string, error) {
	args := m.Called(ctx, inq)
	return args.String(0), args.Error(1)
}

// MockNotifier records accepted inquiries
type MockNotifier struct {
	mu       sync.Mutex
	accepted []*models.Inquiry
}

func (m *MockNotifier) InquiryAccepted(_ context.Context, inq *models.Inquiry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted = append(m.accepted, inq)
}

func (m *MockNotifier) Close(context.Context) error { return nil }

func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accepted)
}

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, data any) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}
