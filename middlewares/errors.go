package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/anvil/internal"
)

// PanicError is a panic recovered by the recover middleware.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
	Route string // matched route pattern, empty for unmatched requests
}

func (e *PanicError) Error() string {
	if e.Route != "" {
		return fmt.Sprintf("panic in %s: %v", e.Route, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// StatusCode is the response status an error handler should use.
func (e *PanicError) StatusCode() int { return http.StatusInternalServerError }

// TimeoutError is returned by the timeout middleware when the deadline passes
// before the rest of the chain returns.
type TimeoutError struct {
	Duration time.Duration
	Route    string
}

func (e *TimeoutError) Error() string {
	if e.Route != "" {
		return fmt.Sprintf("%s: request timeout after %s", e.Route, e.Duration)
	}
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

// StatusCode is the response status an error handler should use.
func (e *TimeoutError) StatusCode() int { return http.StatusGatewayTimeout }

// IsPanicError reports whether err wraps a *PanicError.
func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

// IsTimeoutError reports whether err wraps a *TimeoutError.
func IsTimeoutError(err error) bool {
	_, ok := AsTimeoutError(err)
	return ok
}

// AsPanicError returns the *PanicError wrapped by err.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	ok := errors.As(err, &pe)
	return pe, ok
}

// AsTimeoutError returns the *TimeoutError wrapped by err.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	ok := errors.As(err, &te)
	return te, ok
}

func routeLabel(c internal.Context) string {
	if p := c.RoutePattern(); p != "" {
		return c.Request().Method + " " + p
	}
	return ""
}
