package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	// Fields lists request fields that were missing or invalid (validation errors only)
	Fields []string
	Err    error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeConflict     = "CONFLICT"
)

// Error constructors

// NewNotFoundError creates a new not found error with a caller-facing message
func NewNotFoundError(msg string) error {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: msg,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(msg string, fields ...string) error {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: msg,
		Fields:  fields,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(msg string) error {
	return &DomainError{
		Code:    ErrCodeUnauthorized,
		Message: msg,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(msg string) error {
	return &DomainError{
		Code:    ErrCodeForbidden,
		Message: msg,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(err error) error {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: "An internal error occurred",
		Err:     err,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(msg string) error {
	return &DomainError{
		Code:    ErrCodeConflict,
		Message: msg,
	}
}

// Helper functions to check error types

// As extracts a DomainError from err's chain
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool { return hasCode(err, ErrCodeUnauthorized) }

// IsForbidden checks if the error is a forbidden error
func IsForbidden(err error) bool { return hasCode(err, ErrCodeForbidden) }

// IsInternal checks if the error is an internal error
func IsInternal(err error) bool { return hasCode(err, ErrCodeInternal) }

// IsConflict checks if the error is a conflict error
func IsConflict(err error) bool { return hasCode(err, ErrCodeConflict) }

// GetErrorCode extracts the error code from a domain error
func GetErrorCode(err error) string {
	if de, ok := As(err); ok {
		return de.Code
	}
	return ErrCodeInternal
}
