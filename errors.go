package anvil

import "github.com/dmitrymomot/anvil/internal"

// ErrInvalidConstructor is returned for middleware definitions that are not
// handlers or handler constructors.
var ErrInvalidConstructor = internal.ErrInvalidConstructor

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// WithErrorCode sets an application-specific error code.
func WithErrorCode(code string) HTTPErrorOption {
	return internal.WithErrorCode(code)
}

// WithError attaches the underlying error.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrMethodNotAllowed(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrMethodNotAllowed(message, opts...)
}

func ErrTooManyRequests(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrTooManyRequests(message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// AsHTTPError extracts the HTTPError from an error chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// IsHTTPError reports whether the error chain contains an HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// IsInstantiationError reports whether err is a MiddlewareInstantiationError.
func IsInstantiationError(err error) bool {
	return internal.IsInstantiationError(err)
}

// AsInstantiationError extracts the MiddlewareInstantiationError from err.
func AsInstantiationError(err error) (*MiddlewareInstantiationError, bool) {
	return internal.AsInstantiationError(err)
}
