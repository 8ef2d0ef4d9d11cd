// Package errors provides application-level error types shared across
// repositories and services.
package errors

import "fmt"

// ErrNotFound represents a "not found" error
// This should be used when a requested resource doesn't exist
var ErrNotFound = &NotFoundError{}

// NotFoundError is a sentinel error for resources that are not found
type NotFoundError struct {
	Resource string
	Message  string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return "resource not found"
}

// Is implements the error interface for error comparison
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// NewNotFoundError creates a new NotFoundError with a custom message
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// ErrValidation represents a validation error
// This should be used when caller input fails validation
var ErrValidation = &ValidationError{}

// ValidationError is a sentinel error for validation failures
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field: %s", e.Field)
	}
	return "validation error"
}

// Is implements the error interface for error comparison
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError with a custom message
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ErrPrecondition represents a failed pipeline precondition
// This should be used when a batch job cannot start at all
// (e.g. scoring an event that has no objectives configured)
var ErrPrecondition = &PreconditionError{}

// PreconditionError is a sentinel error for unmet job preconditions
type PreconditionError struct {
	Subject string
	Message string
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Subject != "" {
		return fmt.Sprintf("precondition failed for %s", e.Subject)
	}
	return "precondition failed"
}

// Is implements the error interface for error comparison
func (e *PreconditionError) Is(target error) bool {
	_, ok := target.(*PreconditionError)
	return ok
}

// NewPreconditionError creates a new PreconditionError with a custom message
func NewPreconditionError(subject, message string) *PreconditionError {
	return &PreconditionError{
		Subject: subject,
		Message: message,
	}
}
