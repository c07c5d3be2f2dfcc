// Package service provides the application services behind the HTTP
// API: task lifecycle management, trend queries and content workflows.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrValidation indicates the request was well-formed but semantically
	// invalid (unknown enum value, empty required field, out-of-range
	// number). Maps to HTTP 400.
	ErrValidation = errors.New("validation failed")

	// ErrTaskNotRestartable indicates a pause or delete request hit a task
	// whose state forbids the operation. Maps to HTTP 409.
	ErrTaskNotRestartable = errors.New("task state forbids this operation")
)

// ServiceError is a custom error type carrying the failed operation for
// logging and diagnostics.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
