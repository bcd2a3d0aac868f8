package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidSchema = errors.New("invalid schema")
	ErrInternal      = errors.New("internal error")
	ErrValidation    = errors.New("validation failed")
)

// Error codes carried by AppError.
const (
	CodeConfig        = "CONFIG_ERROR"
	CodeInvalidSchema = "INVALID_SCHEMA"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInternal      = "INTERNAL_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeTimeout       = "TIMEOUT"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// InvalidSchemaError reports a schema definition rejected at validation time.
func InvalidSchemaError(format string, args ...interface{}) error {
	return NewAppError(CodeInvalidSchema, fmt.Sprintf(format, args...), ErrInvalidSchema)
}

// InternalError wraps an unexpected failure (including recovered panics) escaping the pipeline.
func InternalError(message string, cause error) error {
	if cause == nil {
		cause = ErrInternal
	}
	return NewAppError(CodeInternal, message, cause)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsCode reports whether err (or anything it wraps) is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
