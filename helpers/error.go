package helpers

import (
	"fmt"

	"recipe-box/apperror"
)

// SystemError wraps external errors (such as DB) and lets the caller add
// additional context information
type SystemError struct {
	Context string // eg. Function Name
	Err     error
}

func (se *SystemError) Error() string {
	return fmt.Sprintf("%s: %v", se.Context, se.Err)
}

// Unwrap exposes the cause (errors.Is/As compatibility)
func (se *SystemError) Unwrap() error {
	return se.Err
}

// Is classifies every wrapped error as an infrastructure failure, so
// callers can map it without knowing the underlying store
// (errors.Is(err, apperror.ErrUnavailable))
func (se *SystemError) Is(target error) bool {
	return target == apperror.ErrUnavailable
}

// WrapError lets the caller add context information to another error
// (eg. after receiving a DB error)
func WrapError(err error, info string) *SystemError {
	return &SystemError{
		Context: info,
		Err:     err,
	}
}
