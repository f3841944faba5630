// Package errors provides structured error types for crossboard.
//
// Every failure in the layout and deformation engines is a local, deterministic
// configuration error. This package gives each kind a machine-readable code so
// callers (CLI, HTTP API, tests) can branch on the kind without string matching:
//   - Structural errors: DUPLICATE_NAME, SPLIT_TWICE, SPLIT_CONFLICT, APPEND_LAYOUT
//   - Reference errors: UNKNOWN_NAME
//   - Validation errors: INVALID_*, DATA_SHAPE
//   - INTERNAL_ERROR for anything unexpected
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateName, "axes with name %q already exists", name)
//	if errors.Is(err, errors.ErrCodeDuplicateName) {
//	    // Handle programmer error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode board %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors
	ErrCodeDuplicateName    Code = "DUPLICATE_NAME"
	ErrCodeSplitTwice       Code = "SPLIT_TWICE"
	ErrCodeSplitConflict    Code = "SPLIT_CONFLICT"
	ErrCodeAppendLayout     Code = "APPEND_LAYOUT"
	ErrCodeLegendUnresolved Code = "LEGEND_UNRESOLVED"

	// Reference errors
	ErrCodeUnknownName Code = "UNKNOWN_NAME"

	// Validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidSide        Code = "INVALID_SIDE"
	ErrCodeInvalidRatios      Code = "INVALID_RATIOS"
	ErrCodeInvalidBreakpoints Code = "INVALID_BREAKPOINTS"
	ErrCodeInvalidReindex     Code = "INVALID_REINDEX"
	ErrCodeInvalidLinkage     Code = "INVALID_LINKAGE"
	ErrCodeInvalidMethod      Code = "INVALID_METHOD"
	ErrCodeInvalidMetric      Code = "INVALID_METRIC"
	ErrCodeDataShape          Code = "DATA_SHAPE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetCodeOr returns the code of err, or fallback when err carries none.
func GetCodeOr(err error, fallback Code) Code {
	if code := GetCode(err); code != "" {
		return code
	}
	return fallback
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsStructural reports whether err is one of the layout/deformation
// programmer errors (as opposed to a data validation failure).
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeDuplicateName, ErrCodeSplitTwice, ErrCodeSplitConflict,
		ErrCodeAppendLayout, ErrCodeLegendUnresolved, ErrCodeUnknownName:
		return true
	}
	return false
}
