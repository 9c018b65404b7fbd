// Package apperr defines the error taxonomy surfaced at the HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeUnauthenticated Code = "unauthenticated"
	CodeNotConnected    Code = "not_connected"
	CodeUpstream        Code = "upstream_failure"
	CodeStorage         Code = "storage_failure"
	CodeInvalidInput    Code = "invalid_input"
	CodeLimitReached    Code = "limit_reached"
	CodeNotFound        Code = "not_found"
	CodeTooLarge        Code = "payload_too_large"
	CodeInternal        Code = "internal_error"
)

// Error carries a machine-readable code, a human message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func Unauthenticated(message string) *Error { return New(CodeUnauthenticated, message) }
func InvalidInput(message string) *Error    { return New(CodeInvalidInput, message) }
func NotFound(message string) *Error        { return New(CodeNotFound, message) }

func Upstream(message string, err error) *Error { return Wrap(CodeUpstream, message, err) }
func Storage(message string, err error) *Error  { return Wrap(CodeStorage, message, err) }

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps a code to its response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeNotConnected, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUpstream:
		return http.StatusBadGateway
	case CodeLimitReached:
		return http.StatusPaymentRequired
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the human message for err, hiding internal details of
// errors outside the taxonomy.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
