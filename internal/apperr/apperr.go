// Package apperr defines the failure classes the service distinguishes and
// their mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for response mapping.
type Kind int

const (
	// KindInternal is the fallback for errors carrying no explicit kind.
	KindInternal Kind = iota
	// KindClientInput marks malformed or missing request input.
	KindClientInput
	// KindNotFound marks lookups that matched no rows.
	KindNotFound
	// KindConflict marks duplicate-key creation attempts.
	KindConflict
	// KindConnection marks failures to establish a store connection.
	KindConnection
	// KindQuery marks statement execution failures on an established connection.
	KindQuery
)

// Error is a classified error. Message is safe to return to callers; the
// wrapped error may carry driver detail (including connection targets) and is
// only exposed in development mode.
type Error struct {
	kind    Kind
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the sanitized, caller-facing message.
func (e *Error) Message() string { return e.message }

// ClientInput builds a 400-class validation error.
func ClientInput(format string, args ...interface{}) *Error {
	return &Error{kind: KindClientInput, message: fmt.Sprintf(format, args...)}
}

// NotFound builds a 404-class lookup error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{kind: KindNotFound, message: fmt.Sprintf(format, args...)}
}

// Conflict builds a 409-class duplicate-key error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{kind: KindConflict, message: fmt.Sprintf(format, args...)}
}

// Connection wraps a failure to acquire a store connection.
func Connection(err error) *Error {
	return &Error{kind: KindConnection, message: "database connection failed", err: err}
}

// Query wraps a statement execution failure.
func Query(err error) *Error {
	return &Error{kind: KindQuery, message: "query execution failed", err: err}
}

// KindOf extracts the classification of err, or KindInternal when err carries
// none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// PublicMessage returns the sanitized message for err. Unclassified errors get
// a generic message so driver detail never leaks.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.message
	}
	return "internal server error"
}

// HTTPStatus maps err's classification to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindClientInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
