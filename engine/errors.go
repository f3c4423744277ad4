/*
errors.go - Centralized error types for the rotation engine

PURPOSE:
  All error values in one place for consistency and discoverability.
  The engine never panics for expected domain conditions (no rule found,
  no punches, GPS out of range); those resolve to verdict statuses or
  sentinel errors the caller can branch on with errors.Is.

ERROR CATEGORIES:
  1. Configuration errors - no applicable config, invalid rule definitions
  2. Input errors - malformed punches, missing coordinates
  3. Data consistency errors - spans over 24h, conflicting schedules

GeofenceRejection is deliberately NOT an error type: an out-of-range punch
is a first-class classification outcome recorded as an alert (see
classifier.go), never thrown.

SEE ALSO:
  - catalog.go: returns ErrNoApplicableRule
  - classifier.go: converts input errors into EXCEPTION verdicts
*/
package engine

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoApplicableRule is returned when no active rotation config or shift
	// applies to an employee/date. The caller decides the fallback policy;
	// the engine never silently defaults to an arbitrary shift.
	ErrNoApplicableRule = errors.New("no applicable rotation rule")

	// ErrInvalidRule is returned when a config fails its own invariants
	// (e.g. cycleDays <= 0, shift missing work times).
	ErrInvalidRule = errors.New("invalid rotation rule")

	// ErrInvalidPunch is returned for a punch with a missing or unparseable
	// timestamp. The punch is excluded and alerted, never silently dropped.
	ErrInvalidPunch = errors.New("invalid punch event")

	// ErrMissingCoordinate is returned when GPS validation is enabled but the
	// punch carries no coordinate. Validation fails closed.
	ErrMissingCoordinate = errors.New("missing punch coordinate")

	// ErrScheduleNotFound is returned by stores for an unknown schedule ID.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrConfigNotFound is returned by stores for an unknown system ID.
	ErrConfigNotFound = errors.New("rotation system not found")

	// ErrSpanExceeds24h marks a work span longer than 24 hours. The overnight
	// wrap is applied exactly once; anything beyond that is a data error.
	ErrSpanExceeds24h = errors.New("work span exceeds 24 hours")

	// ErrNegativeInterval is returned by MinutesBetween when the end precedes
	// the start and wrapping is disallowed.
	ErrNegativeInterval = errors.New("negative time interval")

	// ErrClockUnset is returned when an operation requires a clock time that
	// was never set.
	ErrClockUnset = errors.New("clock time not set")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RuleValidationError reports which config failed validation and why.
type RuleValidationError struct {
	SystemID SystemID
	Field    string
	Detail   string
}

func (e *RuleValidationError) Error() string {
	return fmt.Sprintf("invalid rule %s: %s: %s", e.SystemID, e.Field, e.Detail)
}

func (e *RuleValidationError) Unwrap() error { return ErrInvalidRule }

// ResolutionError reports a failed shift resolution with enough context for
// the caller's no-schedule fallback.
type ResolutionError struct {
	EmployeeID   EmployeeID
	DepartmentID DepartmentID
	Date         time.Time
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no applicable rotation rule for employee %s on %s",
		e.EmployeeID, e.Date.Format("2006-01-02"))
}

func (e *ResolutionError) Unwrap() error { return ErrNoApplicableRule }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigurationError reports whether the error stems from rule/config setup.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoApplicableRule) || errors.Is(err, ErrInvalidRule)
}

// IsInputError reports whether the error stems from malformed punch input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidPunch) || errors.Is(err, ErrMissingCoordinate)
}

// IsNotFound reports whether the error indicates a missing stored record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScheduleNotFound) || errors.Is(err, ErrConfigNotFound)
}
