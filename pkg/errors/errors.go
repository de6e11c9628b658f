// Package errors provides the shared error types for the bridge.
//
// Two layers:
//   - sentinel errors for common failure classes (ErrNotFound, ...)
//   - AppError carrying an Op + Code + Message for application-level context
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput request parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal internal failure.
	ErrInternal = errors.New("internal error")

	// ErrTimeout operation timed out.
	ErrTimeout = errors.New("timeout")

	// ErrSessionClosed operations against a torn-down session.
	ErrSessionClosed = errors.New("session closed")
)

// AppError is an application error with operation context.
type AppError struct {
	Op      string // operation, e.g. "Store.AppendBlock"
	Code    string // machine code, e.g. "DB_ERROR"
	Message string // human-readable message
	Err     error  // wrapped cause
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap supports errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an application error without a cause.
func New(op, message string) error {
	return &AppError{Op: op, Message: message}
}

// Newf creates an application error with a formatted message.
func Newf(op, format string, args ...any) error {
	return &AppError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches operation context to err.
func Wrap(err error, op string, message string) error {
	return &AppError{Op: op, Message: message, Err: err}
}

// Wrapf attaches formatted operation context to err.
func Wrapf(err error, op, format string, args ...any) error {
	return &AppError{Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}
