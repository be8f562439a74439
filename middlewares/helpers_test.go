package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/middlewares"
)

// routes adapts a function to internal.Handler.
type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

// newApp boots an app with every middleware in this package registered.
func newApp(t *testing.T, declare func(r internal.Router), opts ...internal.Option) *internal.App {
	t.Helper()

	opts = append([]internal.Option{
		internal.WithMiddlewareSet(middlewares.Register),
		internal.WithHandlers(routes(declare)),
	}, opts...)
	app, err := internal.New(opts...)
	require.NoError(t, err)
	return app
}

func do(app http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func ok(c internal.Context) error {
	return c.String(http.StatusOK, "ok")
}
