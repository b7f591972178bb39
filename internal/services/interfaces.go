package services

import (
	"context"

	"github.com/wanderlust-cottage/booking-api/internal/models"
)

// InquiryServiceInterface defines the interface for booking inquiry operations
type InquiryServiceInterface interface {
	SubmitInquiry(ctx context.Context, req *models.InquiryRequest, clientIP string) (*models.InquiryResponse, error)
}

var _ InquiryServiceInterface = (*InquiryService)(nil)
