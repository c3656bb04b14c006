package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every *ValidationError matches ErrValidation and every
// *StorageError matches ErrStorage under errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage failure")
)

// Field validation errors.
var (
	ErrClientRequired = errors.New("client name is required")
	ErrInvalidScope   = errors.New("invalid scope")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrNegativePrice  = errors.New("price must not be negative")
	ErrInvalidPrice   = errors.New("price must be a number")
	ErrInvalidID      = errors.New("invalid opportunity ID")
)

// Backend lifecycle and lookup errors.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrNotFound        = errors.New("opportunity not found")
)

// ValidationError reports a rejected user input. No mutation is performed
// when one is returned.
type ValidationError struct {
	Field string
	Err   error
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
