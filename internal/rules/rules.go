// Package rules holds the inquiry field rules shared by the booking form and
// the intake endpoint, so both sides agree on what a valid inquiry is.
package rules

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MinNameLength = 3
	MinGuests     = 1
	MaxGuests     = 8

	// DateLayout is the wire format of checkIn/checkOut
	DateLayout = "2006-01-02"

	// MinFillTime is the time-trap floor between form render and submit
	MinFillTime = 3000 * time.Millisecond
)

var (
	// Deliberately loose: one @, no whitespace, a dot in the domain part.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]{10,}$`)
)

// IsEmail reports whether s has the local@domain.tld shape
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsPhone reports whether s is at least 10 digits, spaces, dashes, pluses or parentheses
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// HasMinLength reports whether s has at least n characters after trimming
func HasMinLength(s string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
}

// GuestsInRange reports whether n is an allowed party size
func GuestsInRange(n int) bool {
	return n >= MinGuests && n <= MaxGuests
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsPast reports whether the calendar date day is strictly before the day of now.
// A check-in on the current day is not in the past.
func IsPast(day, now time.Time) bool {
	return day.Before(StartOfDay(now.In(day.Location())))
}

// Nights returns the number of nights between two calendar dates, rounding up
// partial days. Dates are compared in UTC so DST shifts never add a night.
func Nights(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(out.Sub(in).Hours() / 24))
}

// RegisterValidations installs the custom tags used by models.InquiryRequest
// and reports struct fields by their JSON names.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return HasMinLength(fl.Field().String(), n)
	})
}
