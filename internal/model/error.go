package model

import (
	"fmt"
	"strings"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeDuplicateCode    = "DUPLICATE_CODE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is an expected, typed outcome callers branch on; anything
// else bubbling out of the engine is an infrastructure error.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrVoucherNotFound = NewDomainError(ErrCodeNotFound, "Voucher not found")
	ErrForbidden       = NewDomainError(ErrCodeForbidden, "You are not allowed to access this voucher")
	ErrDuplicateCode   = NewDomainError(ErrCodeDuplicateCode, "A voucher with this code already exists")
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the structured list of field+message pairs rejected
// before persistence.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}
