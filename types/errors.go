package types

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every [ValidationError].
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a requested post does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError describes a request that cannot be processed as given.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError returns a [ValidationError]. Field may be empty when
// the problem concerns the request as a whole.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}

	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
