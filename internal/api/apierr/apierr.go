// Package apierr defines the single error shape that travels through the
// request pipeline. Errors are created where the failure happens and are only
// inspected by the error-normalizing middleware.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind string

// Known kinds.
const (
	KindParse            Kind = "parse_error"
	KindNotFound         Kind = "not_found"
	KindMethodNotAllowed Kind = "method_not_allowed"
	KindValidation       Kind = "validation_error"
	KindConflict         Kind = "conflict"
	KindHandler          Kind = "handler_error"
	KindBind             Kind = "bind_error"
)

// DefaultMessage is returned to clients when an error carries no message.
const DefaultMessage = "Internal server error"

// Error is a failure tagged with a kind and the HTTP status it maps to.
// A zero Status means "no status of its own" and is reported as 500.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error.
func New(kind Kind, status int, message string, cause error) *Error {
	return &Error{Kind: kind, Status: status, Message: message, Err: cause}
}

// Parse reports a malformed request body.
func Parse(message string, cause error) *Error {
	return New(KindParse, http.StatusBadRequest, message, cause)
}

// TooLarge reports a request body over the configured limit.
func TooLarge(cause error) *Error {
	return New(KindParse, http.StatusRequestEntityTooLarge, "Request body too large", cause)
}

// NotFound reports a missing resource or sub-route.
func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

// MethodNotAllowed reports a method a resource does not support.
func MethodNotAllowed(method string) *Error {
	return New(KindMethodNotAllowed, http.StatusMethodNotAllowed,
		fmt.Sprintf("Method %s not allowed", method), nil)
}

// Validation reports invalid input detected by a handler.
func Validation(message string, cause error) *Error {
	return New(KindValidation, http.StatusBadRequest, message, cause)
}

// Conflict reports a uniqueness violation.
func Conflict(message string, cause error) *Error {
	return New(KindConflict, http.StatusConflict, message, cause)
}

// Handler wraps an arbitrary handler failure. status may be zero.
func Handler(status int, message string, cause error) *Error {
	return New(KindHandler, status, message, cause)
}

// Bind reports that the listener could not acquire its address.
func Bind(addr string, cause error) *Error {
	return New(KindBind, 0, fmt.Sprintf("failed to bind %s", addr), cause)
}

// Normalize converts any error into an *Error. Errors that are not already
// tagged become handler errors without a status or message of their own.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Kind: KindHandler, Err: err}
}

// StatusCode returns the HTTP status for err: its own status when set,
// otherwise 500.
func StatusCode(err error) int {
	e := Normalize(err)
	if e == nil || e.Status < 400 || e.Status > 599 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// PublicMessage returns the message safe to show a client. Untagged errors
// never leak their text.
func PublicMessage(err error) string {
	e := Normalize(err)
	if e == nil || e.Message == "" {
		return DefaultMessage
	}
	return e.Message
}
