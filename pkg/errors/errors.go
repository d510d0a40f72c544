package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrUsage        ErrorCode = "USAGE"

	// Source file errors
	ErrSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"
	ErrUnknownFormat  ErrorCode = "UNKNOWN_FORMAT"

	// Filesystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileMove   ErrorCode = "FILE_MOVE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
	ErrPermission ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Elevation errors
	ErrElevationTool ErrorCode = "ELEVATION_TOOL"
)

// FontdropError represents a structured error with code and details
type FontdropError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FontdropError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FontdropError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FontdropError) Is(target error) bool {
	var targetErr *FontdropError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FontdropError with the given code and message
func New(code ErrorCode, message string) *FontdropError {
	return &FontdropError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FontdropError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FontdropError {
	return &FontdropError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FontdropError
func Wrap(err error, code ErrorCode, message string) *FontdropError {
	if err == nil {
		return nil
	}
	return &FontdropError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FontdropError {
	if err == nil {
		return nil
	}
	return &FontdropError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FontdropError) WithDetail(key string, value interface{}) *FontdropError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var fdErr *FontdropError
	if errors.As(err, &fdErr) {
		return fdErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FontdropError
func GetErrorCode(err error) ErrorCode {
	var fdErr *FontdropError
	if errors.As(err, &fdErr) {
		return fdErr.Code
	}
	return ErrUnknown
}
