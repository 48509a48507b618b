/*
errors.go - Centralized error types for the engine's outer layers

PURPOSE:
  The cashflow core is total and never returns errors. Everything around it
  (parsing, persistence, HTTP) does, and uses the sentinels defined here so
  callers can classify failures with errors.Is.

ERROR CATEGORIES:
  1. Input errors - malformed dates, periods, plan documents
  2. Store errors - missing documents, version conflicts

SEE ALSO:
  - store.go: Uses these errors
  - factory/plan.go: Wraps ErrInvalidPlan
  - api/handlers.go: Maps categories to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date is not a valid YYYY-MM-DD string.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidPlan is returned when a plan document cannot be decoded at all.
	ErrInvalidPlan = errors.New("invalid plan document")

	// ErrDocumentNotFound is returned when a stored document doesn't exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrVersionConflict is returned when a write expects a version that is no
	// longer the latest one.
	ErrVersionConflict = errors.New("version conflict")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// VersionConflictError provides details about an optimistic-lock failure.
type VersionConflictError struct {
	ID       DocumentID
	Expected Version
	Actual   Version
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s: expected %d, latest is %d", e.ID, e.Expected, e.Actual)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidPlan)
}

// IsNotFound returns true if the error indicates a missing document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}

// IsConflict returns true if the error is an optimistic-lock failure.
func IsConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
