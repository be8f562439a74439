package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("fast handler completes", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, func(r internal.Router) {
			r.GET("/", ok).Middleware("timeout:1s")
		})

		w := do(app, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("slow handler returns TimeoutError", func(t *testing.T) {
		t.Parallel()

		errs := make(chan error, 1)
		app := newApp(t, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				<-c.Done()
				return c.Err()
			}).Use(middlewares.Timeout(20 * time.Millisecond))
		}, internal.WithErrorHandler(func(c internal.Context, err error) error {
			errs <- err
			return c.NoContent(http.StatusGatewayTimeout)
		}))

		w := do(app, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		te, ok := middlewares.AsTimeoutError(<-errs)
		require.True(t, ok)
		assert.Equal(t, 20*time.Millisecond, te.Duration)
		assert.Equal(t, "GET /", te.Route)
	})

	t.Run("outer middleware sees the original request", func(t *testing.T) {
		t.Parallel()

		var (
			outerErr   error
			handlerErr error
		)
		outer := internal.MiddlewareFunc(func(c internal.Context, next internal.HandlerFunc) error {
			err := next(c)
			outerErr = c.Err()
			return err
		})
		app := newApp(t, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				<-c.Done()
				return c.Err()
			}).Use(outer, middlewares.Timeout(20*time.Millisecond))
		}, internal.WithErrorHandler(func(c internal.Context, err error) error {
			handlerErr = c.Err()
			return c.NoContent(http.StatusGatewayTimeout)
		}))

		w := do(app, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.NoError(t, outerErr)
		assert.NoError(t, handlerErr)
	})

	t.Run("default error handler answers 504", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, func(r internal.Router) {
			r.GET("/slow", func(c internal.Context) error {
				<-c.Done()
				return c.Err()
			}).Middleware("timeout:20ms")
		})

		w := do(app, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})

	t.Run("handler sees the deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool
		app := newApp(t, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				_, hasDeadline = c.Deadline()
				return ok(c)
			}).Middleware(middlewares.NameTimeout)
		})

		do(app, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, hasDeadline)
	})

	t.Run("handler errors pass through", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				return internal.ErrBadRequest("bad")
			}).Middleware("timeout:1s")
		})

		w := do(app, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
