// Package errors provides structured error types for kindred.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - Setup failures: UNSATISFIABLE_CONSTRAINTS, BINDING_ARITY_MISMATCH, ALREADY_BOUND
//   - Play failures: NO_CURRENT_CARD, SELECTOR_EXHAUSTED
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidEdgeQuery, "edge %d out of range", idx)
//	if errors.Is(err, errors.ErrCodeInvalidEdgeQuery) {
//	    // Handle bad query
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUnsatisfiable, origErr, "family %s", surname)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"

	// Resource not found errors
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeSessionNotFound  Code = "SESSION_NOT_FOUND"

	// Graph setup errors
	ErrCodeUnsatisfiable    Code = "UNSATISFIABLE_CONSTRAINTS"
	ErrCodeArityMismatch    Code = "BINDING_ARITY_MISMATCH"
	ErrCodeAlreadyBound     Code = "ALREADY_BOUND"
	ErrCodeInvalidEdgeQuery Code = "INVALID_EDGE_QUERY"
	ErrCodeNotSolved        Code = "NOT_SOLVED"

	// Card selection errors
	ErrCodeNoCurrentCard     Code = "NO_CURRENT_CARD"
	ErrCodeSelectorExhausted Code = "SELECTOR_EXHAUSTED"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Fatal reports whether err aborts world setup. Setup errors are never
// retried; the caller must pick different parameters.
func Fatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnsatisfiable, ErrCodeArityMismatch, ErrCodeAlreadyBound, ErrCodeInvalidConfig:
		return true
	}
	return false
}
