package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/middlewares"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	preflight := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		return req
	}

	t.Run("wildcard origin", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, func(r internal.Router) {
			r.GET("/", ok).Middleware(middlewares.NameCORS)
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://any.example")

		w := do(app, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("listed origins from token arguments", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, func(r internal.Router) {
			r.GET("/", ok).Middleware("cors:https://a.example,https://b.example")
		})

		tests := []struct {
			origin string
			want   string
		}{
			{"https://a.example", "https://a.example"},
			{"https://b.example", "https://b.example"},
			{"https://evil.example", ""},
		}
		for _, tt := range tests {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)

			w := do(app, req)

			assert.Equal(t, http.StatusOK, w.Code, tt.origin)
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"), tt.origin)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		t.Parallel()

		called := false
		app := newApp(t, func(r internal.Router) {
			r.OPTIONS("/", func(c internal.Context) error {
				called = true
				return ok(c)
			}).Use(middlewares.CORS(
				middlewares.WithAllowOrigins("https://a.example"),
				middlewares.WithAllowMethods(http.MethodGet, http.MethodPost),
				middlewares.WithAllowHeaders("X-Token"),
				middlewares.WithMaxAge(time.Hour),
				middlewares.WithAllowCredentials(),
			))
		})

		w := do(app, preflight("https://a.example"))

		assert.False(t, called)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://a.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "X-Token", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("plain OPTIONS reaches the handler", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, func(r internal.Router) {
			r.OPTIONS("/", ok).Use(middlewares.CORS())
		})
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://a.example")

		w := do(app, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("preflight for unregistered method runs through global group", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, func(r internal.Router) {
			r.POST("/", ok)
		}, internal.WithGlobalMiddleware(middlewares.NameCORS))

		w := do(app, preflight("https://a.example"))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origin func", func(t *testing.T) {
		t.Parallel()

		app := newApp(t, func(r internal.Router) {
			r.GET("/", ok).Use(middlewares.CORS(middlewares.WithAllowOriginFunc(func(o string) bool {
				return o == "https://dyn.example"
			})))
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://dyn.example")

		w := do(app, req)

		assert.Equal(t, "https://dyn.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
