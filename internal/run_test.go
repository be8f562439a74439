package internal_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/internal"
)

func TestApp_Run(t *testing.T) {
	t.Parallel()

	t.Run("serves until the context is cancelled", func(t *testing.T) {
		t.Parallel()

		app := mustApp(t, routes(func(r internal.Router) {
			r.GET("/ping", func(c internal.Context) error { return c.String(http.StatusOK, "pong") })
		}))

		ctx, cancel := context.WithCancel(context.Background())
		addrCh := make(chan net.Addr, 1)
		hookRan := make(chan struct{}, 1)
		started := false

		done := make(chan error, 1)
		go func() {
			done <- app.Run(
				internal.Address("127.0.0.1:0"),
				internal.WithContext(ctx),
				internal.ShutdownTimeout(time.Second),
				internal.OnListen(func(a net.Addr) { addrCh <- a }),
				internal.StartupHook(func(context.Context) error { started = true; return nil }),
				internal.ShutdownHook(func(context.Context) error { hookRan <- struct{}{}; return nil }),
			)
		}()

		addr := <-addrCh
		resp, err := http.Get(fmt.Sprintf("http://%s/ping", addr))
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		cancel()
		require.NoError(t, <-done)
		assert.True(t, started)
		assert.Len(t, hookRan, 1)
	})

	t.Run("startup hook failure aborts", func(t *testing.T) {
		t.Parallel()

		app := mustApp(t, nil)
		boom := errors.New("migrations failed")

		err := app.Run(
			internal.Address("127.0.0.1:0"),
			internal.StartupHook(func(context.Context) error { return boom }),
		)

		require.ErrorIs(t, err, boom)
	})

	t.Run("shutdown hook errors are returned", func(t *testing.T) {
		t.Parallel()

		app := mustApp(t, nil)
		boom := errors.New("close failed")
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- app.Run(
				internal.Address("127.0.0.1:0"),
				internal.WithContext(ctx),
				internal.OnListen(func(net.Addr) { cancel() }),
				internal.ShutdownHook(func(context.Context) error { return boom }),
			)
		}()

		require.ErrorIs(t, <-done, boom)
	})
}
