package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wanderlust-cottage/booking-api/internal/models"
	"github.com/wanderlust-cottage/booking-api/internal/services"
	apperrors "github.com/wanderlust-cottage/booking-api/pkg/errors"
)

const (
	msgInvalidRequest = "Cerere invalidă."
	msgInternalError  = "A apărut o eroare la procesarea cererii. Vă rugăm încercați din nou."
)

type InquiryHandler struct {
	service services.InquiryServiceInterface
}

func NewInquiryHandler(service services.InquiryServiceInterface) *InquiryHandler {
	return &InquiryHandler{service: service}
}

// SubmitInquiry handles POST /api/booking
func (h *InquiryHandler) SubmitInquiry(c *gin.Context) {
	var req models.InquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(c, http.StatusRequestEntityTooLarge, msgInvalidRequest, err)
			return
		}
		respondError(c, http.StatusBadRequest, msgInvalidRequest, err)
		return
	}

	resp, err := h.service.SubmitInquiry(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		respondError(c, http.StatusInternalServerError, msgInternalError, err)
		return
	}

	if !resp.Success {
		attachError(c, apperrors.InvalidInputError("inquiry", resp.Error))
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
