package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrInvalidInput indicates a submitted field failed its contract
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the caller exceeded its request window
	ErrRateLimited = errors.New("rate limited")
)

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// RateLimitedError creates a rate limit error for a key
func RateLimitedError(key string) error {
	return fmt.Errorf("%s: %w", key, ErrRateLimited)
}
