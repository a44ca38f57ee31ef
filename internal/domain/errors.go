package domain

import (
	"errors"
	"fmt"
)

var (
	// Validation Errors
	ErrEmptyValue   = &ValidationError{Field: "value", Message: "value cannot be empty"}
	ErrValueTooLong = &ValidationError{Field: "value", Message: fmt.Sprintf("value exceeds %d characters", MaxValueLength)}

	// Business logic errors
	ErrTodoNotFound = errors.New("todo not found")
)

// ValidationError reports malformed or missing input at the API boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StorageError wraps any failure talking to the backing store. Code is the
// driver's error code when one is available.
type StorageError struct {
	Op   string
	Code string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NotFoundError carries the id that was looked up. It matches ErrTodoNotFound
// under errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("todo item with id %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrTodoNotFound
}
