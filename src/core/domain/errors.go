package domain

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies a domain error so outer layers can map it to a
// transport-level outcome. The set is closed; do not add categories without
// teaching the response layer about them.
type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryForbidden    ErrorCategory = "FORBIDDEN"
	CategoryFailure      ErrorCategory = "FAILURE"
)

// Error is an immutable (code, description, category) triple describing an
// expected failure. Expected failures are returned inside a Result, never
// raised as Go errors; infrastructure failures keep using plain error values.
type Error struct {
	code        string
	description string
	category    ErrorCategory
}

// NewError creates an Error with an explicit category.
func NewError(code, description string, category ErrorCategory) Error {
	return Error{code: code, description: description, category: category}
}

// NewValidationError creates a Validation-category error.
func NewValidationError(code, description string) Error {
	return NewError(code, description, CategoryValidation)
}

// NewNotFoundError creates a NotFound-category error.
func NewNotFoundError(code, description string) Error {
	return NewError(code, description, CategoryNotFound)
}

// NewConflictError creates a Conflict-category error.
func NewConflictError(code, description string) Error {
	return NewError(code, description, CategoryConflict)
}

// NewFailureError creates a Failure-category (catch-all) error.
func NewFailureError(code, description string) Error {
	return NewError(code, description, CategoryFailure)
}

// Code returns the machine-readable error code.
func (e Error) Code() string { return e.code }

// Description returns the human-readable error description.
func (e Error) Description() string { return e.description }

// Category returns the error category.
func (e Error) Category() ErrorCategory { return e.category }

// Error implements the error interface so an Error can be logged or wrapped
// like any other Go error.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.code, e.description, e.category)
}

// IsValidation reports whether the error is a validation error.
func (e Error) IsValidation() bool { return e.category == CategoryValidation }

// IsNotFound reports whether the error is a not-found error.
func (e Error) IsNotFound() bool { return e.category == CategoryNotFound }

// AsDomainError extracts a domain Error from an error chain.
func AsDomainError(err error) (Error, bool) {
	var e Error
	if errors.As(err, &e) {
		return e, true
	}
	return Error{}, false
}

// HasCategory reports whether any error in the slice has the given category.
func HasCategory(errs []Error, category ErrorCategory) bool {
	for _, err := range errs {
		if err.category == category {
			return true
		}
	}
	return false
}
