package domain

import (
	"fmt"
	"strings"
)

// ValidationError reports a missing or malformed required field. No store
// access is attempted when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError reports an NT/Trade mutual-exclusion violation. Dates holds
// the offending calendar dates (YYYY-MM-DD) so the caller can correct the
// batch; no part of the batch is written.
type ConflictError struct {
	MarketType string
	Dates      []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("no-trade conflict on %s for dates %s",
		e.MarketType, strings.Join(e.Dates, ", "))
}
