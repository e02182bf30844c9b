package domain

import (
	"errors"
	"fmt"
)

// Machine-readable error codes. The HTTP adapter maps these onto transport
// status codes; messages are safe to return to callers.
const (
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EUNAUTHORIZED = "unauthorized"
	ECONFLICT     = "conflict"
	EPAYMENT      = "payment_failed"
	EINTERNAL     = "internal"
)

// Error is a coded domain error. Code classifies the failure, Message is the
// caller-facing text, and cause (optional) keeps the underlying error for
// logs without leaking it across the boundary.
type Error struct {
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Errorf builds a coded error with a formatted message.
func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code and caller-facing message to an underlying error.
func WrapError(cause error, code, message string) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// ErrorCode extracts the code from err, or EINTERNAL for non-domain errors.
// Returns "" for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage extracts the caller-facing message from err. Non-domain errors
// collapse to a generic message so internal detail never reaches the caller.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "an internal error has occurred"
}
