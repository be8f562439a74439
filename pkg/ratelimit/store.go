package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidWindow is returned for non-positive windows.
var ErrInvalidWindow = errors.New("ratelimit: window must be positive")

// Store counts hits per key.
type Store interface {
	// Hit records one hit for key in the current window and returns the hit
	// count so far together with the time left until the window resets.
	// The first hit opens a new window of the given length.
	Hit(ctx context.Context, key string, window time.Duration) (count int64, reset time.Duration, err error)
}
