package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wanderlust-cottage/booking-api/internal/handlers"
	"github.com/wanderlust-cottage/booking-api/internal/models"
	"github.com/wanderlust-cottage/booking-api/internal/services"
)

// MockInquiryService implements InquiryServiceInterface for testing
type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) SubmitInquiry(ctx context.Context, req *models.InquiryRequest, clientIP string) (*models.InquiryResponse, error) {
	args := m.Called(ctx, req, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InquiryResponse), args.Error(1)
}

const validBody = `{"name":"Ion Popescu","email":"ion@example.com","phone":"0712345678","guests":"4","checkIn":"2026-10-25","checkOut":"2026-10-28","preferences":"","honeypot":""}`

func serveInquiry(service services.InquiryServiceInterface, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/booking", handlers.NewInquiryHandler(service).SubmitInquiry)

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:41000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInquiryHandler_SubmitInquiry_Success(t *testing.T) {
	mockService := new(MockInquiryService)
	mockService.On("SubmitInquiry", mock.Anything, mock.MatchedBy(func(req *models.InquiryRequest) bool {
		return req.Name == "Ion Popescu" && req.Guests == 4
	}), "203.0.113.7").Return(&models.InquiryResponse{
		Success:   true,
		Message:   services.MsgAccepted,
		BookingID: "TEMP-1792045800000",
	}, nil).Once()

	w := serveInquiry(mockService, validBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"`+services.MsgAccepted+`","bookingId":"TEMP-1792045800000"}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestInquiryHandler_SubmitInquiry_ValidationFailure(t *testing.T) {
	mockService := new(MockInquiryService)
	mockService.On("SubmitInquiry", mock.Anything, mock.Anything, mock.Anything).Return(&models.InquiryResponse{
		Success: false,
		Error:   services.MsgInvalidEmail,
	}, nil).Once()

	w := serveInquiry(mockService, validBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Email invalid."}`, w.Body.String())
}

func TestInquiryHandler_SubmitInquiry_ServiceError(t *testing.T) {
	mockService := new(MockInquiryService)
	mockService.On("SubmitInquiry", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("database unavailable")).Once()

	w := serveInquiry(mockService, validBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"A apărut o eroare la procesarea cererii. Vă rugăm încercați din nou."}`, w.Body.String())
}

func TestInquiryHandler_SubmitInquiry_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `name=Ion`},
		{"truncated", `{"name":"Ion"`},
		{"guests not a number", `{"name":"Ion Popescu","guests":"patru"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockInquiryService)

			w := serveInquiry(mockService, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Cerere invalidă."}`, w.Body.String())
			mockService.AssertNotCalled(t, "SubmitInquiry", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
