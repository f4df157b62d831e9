package backend

import (
	"errors"
	"fmt"
)

// ErrorKind classifies backend failures for the UI layer.
type ErrorKind string

const (
	// ErrKindTransport covers network failures, timeouts, and 5xx
	// responses. Retryable.
	ErrKindTransport ErrorKind = "transport"

	// ErrKindClient covers 4xx responses other than 401/404.
	ErrKindClient ErrorKind = "client"

	// ErrKindUnauthorized means a 401 persisted after one refresh
	// attempt. The user must re-authenticate.
	ErrKindUnauthorized ErrorKind = "unauthorized"

	// ErrKindNotFound is a 404, e.g. an expired generation job id.
	ErrKindNotFound ErrorKind = "not_found"

	// ErrKindDecode means the response body did not match the expected
	// shape. Treated like a transport failure, never silently coerced
	// into an empty result.
	ErrKindDecode ErrorKind = "decode"

	// ErrKindValidation means the request was rejected locally before
	// any network call.
	ErrKindValidation ErrorKind = "validation"
)

// APIError is the error type returned by every backend call.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may usefully retry the request.
func (e *APIError) Retryable() bool {
	return e.Kind == ErrKindTransport || e.Kind == ErrKindDecode
}

// KindOf extracts the error kind, defaulting to transport for errors
// that did not originate from the backend client.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ErrKindTransport
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsUnauthorized reports whether err is a persistent 401.
func IsUnauthorized(err error) bool {
	return KindOf(err) == ErrKindUnauthorized
}
