package service

import (
	"errors"
	"strings"
)

// Sentinel errors mapped to HTTP statuses at the API boundary.
var (
	// ErrNotFound: a referenced id does not exist (404).
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateMatch: a match already exists for the provider/customer pair (400).
	ErrDuplicateMatch = errors.New("match already exists for this provider and customer")
	// ErrFeedbackNotAllowed: feedback submitted before the job reached the
	// completed stage (surfaced as 404, the gate is a filtered lookup).
	ErrFeedbackNotAllowed = errors.New("match not found or job not completed")
)

// ValidationError carries field-level messages for a 400 response.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
