package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is wrapped by every parameter construction failure.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError reports which field could not be accepted and why.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// NewInvalidParameterError creates an InvalidParameterError with a formatted reason.
func NewInvalidParameterError(field, format string, args ...any) *InvalidParameterError {
	return &InvalidParameterError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
