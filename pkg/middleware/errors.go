package middleware

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGroupArguments is returned when a group token carries arguments.
var ErrGroupArguments = errors.New("middleware: arguments are not allowed on groups")

// UnknownMiddlewareError reports a token that is neither an alias, a group,
// nor a known middleware identifier.
type UnknownMiddlewareError struct {
	Token string // The offending token, without arguments
	Group string // Group that referenced the token (empty for route tokens)
}

// Error implements the error interface.
func (e *UnknownMiddlewareError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("middleware: unknown middleware [%s] used in group [%s]", e.Token, e.Group)
	}
	return fmt.Sprintf("middleware: unknown middleware [%s] used", e.Token)
}

// GroupCycleError reports a group that references itself, directly or
// through other groups.
type GroupCycleError struct {
	Path []string // Group names forming the cycle; first and last are equal
}

// Error implements the error interface.
func (e *GroupCycleError) Error() string {
	return "middleware: group cycle detected: " + strings.Join(e.Path, " -> ")
}

// IsUnknownMiddleware returns true if the error is an UnknownMiddlewareError.
func IsUnknownMiddleware(err error) bool {
	var ue *UnknownMiddlewareError
	return errors.As(err, &ue)
}

// AsUnknownMiddleware extracts the UnknownMiddlewareError from an error if present.
func AsUnknownMiddleware(err error) (*UnknownMiddlewareError, bool) {
	var ue *UnknownMiddlewareError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// IsGroupCycle returns true if the error is a GroupCycleError.
func IsGroupCycle(err error) bool {
	var ce *GroupCycleError
	return errors.As(err, &ce)
}

// AsGroupCycle extracts the GroupCycleError from an error if present.
func AsGroupCycle(err error) (*GroupCycleError, bool) {
	var ce *GroupCycleError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
