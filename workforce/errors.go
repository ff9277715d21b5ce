/*
errors.go - Error taxonomy of the shift engine

ERROR CATEGORIES:
  1. Validation        - missing field for the shift type, or bad time range
  2. Resolution        - station/role could not be derived automatically
                         (a ValidationError with Unresolved set)
  3. Leave conflict    - single-day assignment collides with approved leave;
                         needs an explicit override, not fatal
  4. Persistence       - a downstream write failed, reported per date

USAGE:
  if errors.Is(err, workforce.ErrMissingRequirement) { ... }

  var ve *workforce.ValidationError
  if errors.As(err, &ve) && ve.Unresolved {
      // prompt the operator for a manual selection of ve.Field
  }
*/
package workforce

import (
	"errors"
	"fmt"

	"github.com/warp/shift-engine/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrMissingBanchina     = errors.New("missing banchina")
	ErrMissingRequirement  = errors.New("missing requirement")
	ErrMissingManualTimes  = errors.New("manual shift requires start and end time")
	ErrInvalidTimeRange    = errors.New("start time must be before end time")
	ErrInvalidShiftType    = errors.New("invalid shift type")
	ErrUnknownRequirement  = errors.New("unknown requirement")
	ErrRequirementMismatch = errors.New("requirement does not belong to banchina")

	// ErrLeaveConflict is returned when a single-day plan hits approved leave
	// and the caller has not acknowledged it.
	ErrLeaveConflict = errors.New("employee on approved leave")

	// ErrPersistence wraps every per-date write failure.
	ErrPersistence = errors.New("assignment write failed")

	// ErrNotConfirmed is returned when committing a plan that is not confirmed.
	ErrNotConfirmed = errors.New("plan is not confirmed")

	ErrEmployeeNotFound = errors.New("employee not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationCode identifies why a plan was rejected.
type ValidationCode string

const (
	CodeMissingBanchina     ValidationCode = "missing_banchina"
	CodeMissingRequirement  ValidationCode = "missing_requirement"
	CodeMissingManualTimes  ValidationCode = "missing_manual_times"
	CodeInvalidTimeRange    ValidationCode = "invalid_time_range"
	CodeInvalidShiftType    ValidationCode = "invalid_shift_type"
	CodeUnknownRequirement  ValidationCode = "unknown_requirement"
	CodeRequirementMismatch ValidationCode = "requirement_mismatch"
)

var codeSentinels = map[ValidationCode]error{
	CodeMissingBanchina:     ErrMissingBanchina,
	CodeMissingRequirement:  ErrMissingRequirement,
	CodeMissingManualTimes:  ErrMissingManualTimes,
	CodeInvalidTimeRange:    ErrInvalidTimeRange,
	CodeInvalidShiftType:    ErrInvalidShiftType,
	CodeUnknownRequirement:  ErrUnknownRequirement,
	CodeRequirementMismatch: ErrRequirementMismatch,
}

// ValidationError names the offending field. Unresolved marks the
// resolution-failure variant: automatic resolution found nothing and the
// caller should prompt for a manual selection.
type ValidationError struct {
	Code       ValidationCode
	Field      string
	Message    string
	Unresolved bool
}

func NewValidationError(code ValidationCode, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

// NewResolutionFailure reports a field that could not be resolved automatically.
func NewResolutionFailure(code ValidationCode, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message, Unresolved: true}
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error { return codeSentinels[e.Code] }

// LeaveConflictError details a single-day collision with approved leave.
type LeaveConflictError struct {
	EmployeeID EmployeeID
	Date       calendar.Date
	Leave      LeaveRequest
}

func (e *LeaveConflictError) Error() string {
	return fmt.Sprintf("employee %s on approved %s leave on %s (%s..%s)",
		e.EmployeeID, e.Leave.LeaveType, e.Date, e.Leave.StartDate, e.Leave.EndDate)
}

func (e *LeaveConflictError) Unwrap() error { return ErrLeaveConflict }

// PersistenceError is one failed write of a commit.
type PersistenceError struct {
	EmployeeID EmployeeID
	Date       calendar.Date
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save assignment %s on %s: %v", e.EmployeeID, e.Date, e.Err)
}

// Unwrap exposes both ErrPersistence and the underlying cause.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsResolutionFailure(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Unresolved
}

// IsClientError returns true if the error is due to caller input.
func IsClientError(err error) bool {
	return IsValidation(err) || errors.Is(err, ErrLeaveConflict) || errors.Is(err, ErrNotConfirmed)
}
