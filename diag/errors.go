package diag

import (
	"errors"
	"fmt"
)

// ValidationError reports an invalid parameter or contract violation.
// It is surfaced to the caller immediately; no partial result is produced.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// NewValidationError builds a ValidationError for the named parameter.
func NewValidationError(param, format string, args ...any) *ValidationError {
	return &ValidationError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// EmptyResultError reports a scenario that has zero valid travel-time rows
// left after filtering. No meaningful accessibility can be computed from it.
type EmptyResultError struct {
	Scenario string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("scenario %q has no valid travel-time rows after filtering", e.Scenario)
}

// IsEmptyResult reports whether err is (or wraps) an EmptyResultError.
func IsEmptyResult(err error) bool {
	var ee *EmptyResultError
	return errors.As(err, &ee)
}
