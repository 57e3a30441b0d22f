package apperrors

import (
	"errors"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the authenticated user may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ValidationError carries the ordered rule messages produced by the instrument
// rule registry. It matches ErrValidation under errors.Is so handlers can map
// it to a 400 without knowing the concrete type.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError wraps the rule messages in a ValidationError.
func NewValidationError(messages []string) *ValidationError {
	return &ValidationError{Messages: messages}
}
