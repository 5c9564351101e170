package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFlightPlanNotFound = errors.New("flight plan not found")

	// ErrIncomplete is returned when derived pricing figures are read from a
	// flight plan that is not complete.
	ErrIncomplete = errors.New("flight plan is not complete")
)

// ValidationError rejects an edit because of the submitted values. The
// aggregate is left unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReferentialError reports a catalog reference that does not resolve.
type ReferentialError struct {
	Entity string
	Key    string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s %q does not exist", e.Entity, e.Key)
}

func newValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
