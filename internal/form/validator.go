package form

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wanderlust-cottage/booking-api/internal/models"
	"github.com/wanderlust-cottage/booking-api/internal/rules"
)

// Result is the outcome of validating one form state
type Result struct {
	Valid       bool
	FieldErrors map[string]string
}

// Validator applies the booking form field rules. Every field is checked
// independently so the user sees all problems at once.
type Validator struct {
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
}

// NewValidator creates a form validator. loc decides which calendar day is
// "today"; now is injectable for tests and defaults to time.Now.
func NewValidator(loc *time.Location, now func() time.Time) (*Validator, error) {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}

	v := validator.New()
	if err := rules.RegisterValidations(v); err != nil {
		return nil, fmt.Errorf("failed to register inquiry validations: %w", err)
	}

	fv := &Validator{validate: v, loc: loc, now: now}
	v.RegisterStructValidation(fv.validateStay, models.InquiryRequest{})

	return fv, nil
}

// validateStay runs the cross-field date rules once both dates parse
func (fv *Validator) validateStay(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(models.InquiryRequest)
	if !ok {
		return
	}

	checkIn, err := rules.ParseDate(req.CheckIn, fv.loc)
	if err != nil {
		return
	}
	if rules.IsPast(checkIn, fv.now()) {
		sl.ReportError(req.CheckIn, "checkIn", "CheckIn", tagNotPast, "")
	}

	checkOut, err := rules.ParseDate(req.CheckOut, fv.loc)
	if err != nil {
		return
	}
	if !checkOut.After(checkIn) {
		sl.ReportError(req.CheckOut, "checkOut", "CheckOut", tagAfterCheckIn, "")
	}
}

// Validate checks every field of req and reports one message per failing field
func (fv *Validator) Validate(req *models.InquiryRequest) Result {
	result := Result{Valid: true, FieldErrors: map[string]string{}}

	err := fv.validate.Struct(req)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.Valid = false
		result.FieldErrors[FieldForm] = msgFormInvalid
		return result
	}

	for _, fe := range fieldErrs {
		if _, seen := result.FieldErrors[fe.Field()]; seen {
			continue
		}
		result.FieldErrors[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	result.Valid = len(result.FieldErrors) == 0

	return result
}

// IsLikelySpam reports whether a submission looks automated: the hidden
// honeypot field was filled, or the form was submitted faster than a human can.
func IsLikelySpam(req *models.InquiryRequest, elapsed time.Duration) bool {
	return req.Honeypot != "" || elapsed < rules.MinFillTime
}
