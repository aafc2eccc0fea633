package carrier

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies gateway failures. Every kind maps to one HTTP status.
type Kind string

const (
	KindMalformedInput      Kind = "malformed_input"
	KindUnauthorized        Kind = "unauthorized"
	KindNotFound            Kind = "not_found"
	KindDisabled            Kind = "disabled"
	KindProviderUnavailable Kind = "provider_unavailable"
	KindUnconfigured        Kind = "unconfigured"
)

// Error represents a classified failure, optionally attributed to a provider.
type Error struct {
	Kind       Kind
	Provider   string
	Message    string
	StatusCode int // upstream status, when the failure came from a provider response
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Provider != "" {
		prefix = e.Provider + " " + prefix
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates a new Error.
func NewError(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithProvider attributes the error to a provider.
func (e *Error) WithProvider(name string) *Error {
	e.Provider = name
	return e
}

// WithStatusCode records the upstream HTTP status.
func (e *Error) WithStatusCode(code int) *Error {
	e.StatusCode = code
	return e
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrMalformedInput      = NewError(KindMalformedInput, "malformed input")
	ErrUnauthorized        = NewError(KindUnauthorized, "unauthorized")
	ErrNotFound            = NewError(KindNotFound, "not found")
	ErrDisabled            = NewError(KindDisabled, "disabled")
	ErrProviderUnavailable = NewError(KindProviderUnavailable, "provider unavailable")
	ErrUnconfigured        = NewError(KindUnconfigured, "no carrier credential configured")
)

// KindOf returns the kind of err, or "" when err is not a classified error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps err to the status the gateway answers with.
// Unclassified errors are internal failures.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindMalformedInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindDisabled:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that is safe to show to callers.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Internal server error"
}
