package incidents

import (
	"errors"
	"strings"
)

// Repository errors.
var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrInvalidID        = errors.New("invalid incident id")
)

// ValidationError reports every constraint an incident violates.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError creates a validation error from a list of messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
