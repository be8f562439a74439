package health

import "errors"

// Sentinel errors for the health package.
var (
	// ErrCheckFailed is wrapped by Response.Err when a check fails.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is returned when a health check exceeds its timeout.
	ErrCheckTimeout = errors.New("health: check timeout")
)
