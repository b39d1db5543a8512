// Package errors defines the application's typed error kinds (spec.md §7).
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the solver (spec.md §7).
const (
	CodeUnknown             = "UNKNOWN_ERROR"
	CodeInputMalformed      = "INPUT_MALFORMED"
	CodeInstanceInfeasible  = "INSTANCE_INFEASIBLE"
	CodeInvariantViolation  = "INVARIANT_VIOLATION"
	CodeChannelClosed       = "CHANNEL_CLOSED"
	CodeInterrupted         = "INTERRUPTED"
	CodeConfigError         = "CONFIG_ERROR"
	CodeHistoryStoreError   = "HISTORY_STORE_ERROR"
)

// AppError represents an application error with a code, message, and
// optional wrapped cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Common error instances, matched by code via errors.Is (spec.md §7).
var (
	ErrInputMalformed     = New(CodeInputMalformed, "malformed input")
	ErrInstanceInfeasible = New(CodeInstanceInfeasible, "instance is infeasible")
	ErrInvariantViolation = New(CodeInvariantViolation, "invariant violation")
	ErrChannelClosed      = New(CodeChannelClosed, "channel closed")
	ErrInterrupted        = New(CodeInterrupted, "interrupted")
	ErrConfigError        = New(CodeConfigError, "configuration error")
	ErrHistoryStoreError  = New(CodeHistoryStoreError, "history store error")
)

// IsInputMalformed reports whether err is an input-malformed error.
func IsInputMalformed(err error) bool {
	return errors.Is(err, ErrInputMalformed)
}

// IsInstanceInfeasible reports whether err is an instance-infeasible error.
func IsInstanceInfeasible(err error) bool {
	return errors.Is(err, ErrInstanceInfeasible)
}

// IsInterrupted reports whether err represents a normal interrupt-driven
// termination path (spec.md §7 — not a failure).
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
