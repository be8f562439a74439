package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/anvil/internal"
)

// DefaultTimeout is the request timeout used by the "timeout" token without
// arguments.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that bounds the rest of the chain by d.
// The request context carries the deadline; when it passes first, a
// *TimeoutError is returned to the error handler.
//
// The handler goroutine keeps running after the deadline; long operations
// should watch c.Done().
func Timeout(d time.Duration) internal.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			orig := c.Request()
			ctx, cancel := context.WithTimeout(orig.Context(), d)
			defer cancel()

			// Outer middleware and the error handler see the request
			// without the deadline.
			c.SetRequest(orig.WithContext(ctx))
			defer c.SetRequest(orig)

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					c.LogWarn("request timeout", "timeout", d.String())
					return &TimeoutError{Duration: d, Route: routeLabel(c)}
				}
				return ctx.Err()
			}
		}
	}
}
