// Package apperr defines the application error taxonomy. Every error the
// API surfaces to a client carries an HTTP status; the JSON rendering is
// centralized in Write so handlers never build error envelopes by hand.
package apperr

import (
	"errors"
	"net/http"
)

// FieldError describes a single validation failure, suitable for driving
// per-field UI feedback.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

// Error is a typed application error with an HTTP status.
type Error struct {
	Status  int
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches the underlying error for server-side logging and
// non-production detail rendering.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func Validation(msg string, fields []FieldError) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg, Fields: fields}
}

func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

func Database(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

func Unavailable(msg string) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Message: msg}
}

// From coerces any error into an *Error. Unknown errors become a generic
// 500 so driver or library internals never reach the client verbatim.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Database("Internal server error").WithCause(err)
}
