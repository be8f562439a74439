package middlewares_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/middlewares"
	"github.com/dmitrymomot/anvil/pkg/logger"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates a UUIDv7", func(t *testing.T) {
		t.Parallel()

		var seen string
		app := newApp(t, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				seen = middlewares.GetRequestID(c)
				return ok(c)
			}).Middleware(middlewares.NameRequestID)
		})

		w := do(app, httptest.NewRequest(http.MethodGet, "/", nil))

		id, err := uuid.Parse(w.Header().Get("X-Request-ID"))
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
		assert.Equal(t, id.String(), seen)
	})

	t.Run("reuses incoming headers in order", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			headers map[string]string
			want    string
		}{
			{"request id", map[string]string{"X-Request-ID": "req-1"}, "req-1"},
			{"correlation id", map[string]string{"X-Correlation-ID": "corr-1"}, "corr-1"},
			{"request id wins", map[string]string{"X-Request-ID": "req-2", "X-Correlation-ID": "corr-2"}, "req-2"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				app := newApp(t, func(r internal.Router) {
					r.GET("/", ok).Use(middlewares.RequestID())
				})
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				for k, v := range tt.headers {
					req.Header.Set(k, v)
				}

				w := do(app, req)

				assert.Equal(t, tt.want, w.Header().Get("X-Request-ID"))
			})
		}
	})

	t.Run("custom generator", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, func(r internal.Router) {
			r.GET("/", ok).Use(middlewares.RequestID(
				middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
				middlewares.WithRequestIDHeaders("X-Trace"),
			))
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "ignored")

		w := do(app, req)

		assert.Equal(t, "fixed", w.Header().Get("X-Request-ID"))
	})

	t.Run("missing without middleware", func(t *testing.T) {
		t.Parallel()

		var seen = "unset"
		app := newApp(t, func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				seen = middlewares.GetRequestID(c)
				return ok(c)
			})
		})

		do(app, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, seen)
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithOptions(logger.Options{Writer: &buf, Format: logger.FormatJSON, Level: slog.LevelDebug},
		middlewares.RequestIDExtractor())

	app := newApp(t, func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			c.LogInfo("handled")
			return ok(c)
		}).Middleware(middlewares.NameRequestID)
	}, internal.WithCustomLogger(log))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	do(app, req)

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}
