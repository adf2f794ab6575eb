// Package errors provides custom error types for the application.
// It defines domain-specific errors with error codes so the CLI can map failures to exit codes.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents application error codes
type ErrorCode string

// Error codes for different error categories
const (
	// General errors (1xxx)
	ErrCodeInternal   ErrorCode = "E1000"
	ErrCodeValidation ErrorCode = "E1001"

	// Configuration errors (6xxx)
	ErrCodeConfigNotFound ErrorCode = "E6001"
	ErrCodeConfigInvalid  ErrorCode = "E6002"
	ErrCodeConfigParse    ErrorCode = "E6003"

	// Build timestamp errors (7xxx)
	ErrCodeSourceDateEpoch ErrorCode = "E7001"
	ErrCodePattern         ErrorCode = "E7002"
	ErrCodeGenerate        ErrorCode = "E7003"
	ErrCodeWriteOutput     ErrorCode = "E7004"
)

// Exit codes for command failures
const (
	// ExitCodeFailure is the generic failure exit code
	ExitCodeFailure = 1
	// ExitCodeConfigValidation indicates a misconfigured build (bad config file, bad SOURCE_DATE_EPOCH)
	ExitCodeConfigValidation = 2
)

// AppError represents an application-level error with code and context
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Details any       `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for the error
func (e *AppError) ExitCode() int {
	switch e.Code {
	case ErrCodeConfigNotFound, ErrCodeConfigInvalid, ErrCodeConfigParse, ErrCodeSourceDateEpoch:
		return ExitCodeConfigValidation
	default:
		return ExitCodeFailure
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// Common error constructors for convenience

// ErrInternal creates an internal error
func ErrInternal(message string, err error) *AppError {
	return Wrap(ErrCodeInternal, message, err)
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// ErrSourceDateEpoch reports an override variable that is set but not an integer
func ErrSourceDateEpoch(name, value string, err error) *AppError {
	return Wrap(ErrCodeSourceDateEpoch, fmt.Sprintf("invalid %s value %q", name, value), err)
}

// ErrPattern reports an invalid format pattern
func ErrPattern(pattern string, err error) *AppError {
	return Wrap(ErrCodePattern, fmt.Sprintf("invalid format pattern %q", pattern), err)
}

// AsAppError attempts to convert an error to AppError, following wrapped errors
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// ExitCode returns the exit code for any error; nil maps to 0
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.ExitCode()
	}
	return ExitCodeFailure
}
