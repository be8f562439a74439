package middlewares_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/middlewares"
)

func TestPanicError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *middlewares.PanicError
		want string
	}{
		{"string value", &middlewares.PanicError{Value: "something went wrong"}, "panic: something went wrong"},
		{"non-string value", &middlewares.PanicError{Value: 42}, "panic: 42"},
		{"nil value", &middlewares.PanicError{}, "panic: <nil>"},
		{"with route", &middlewares.PanicError{Value: "boom", Route: "GET /posts/{id}"}, "panic in GET /posts/{id}: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, http.StatusInternalServerError, tt.err.StatusCode())
		})
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *middlewares.TimeoutError
		want string
	}{
		{"seconds", &middlewares.TimeoutError{Duration: 5 * time.Second}, "request timeout after 5s"},
		{"milliseconds", &middlewares.TimeoutError{Duration: 100 * time.Millisecond}, "request timeout after 100ms"},
		{"with route", &middlewares.TimeoutError{Duration: time.Second, Route: "POST /posts"}, "POST /posts: request timeout after 1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, http.StatusGatewayTimeout, tt.err.StatusCode())
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	panicErr := &middlewares.PanicError{Value: "boom", Stack: []byte("stack")}
	timeoutErr := &middlewares.TimeoutError{Duration: time.Second}
	plain := errors.New("plain")

	t.Run("panic error", func(t *testing.T) {
		t.Parallel()

		wrapped := fmt.Errorf("handler: %w", panicErr)
		assert.True(t, middlewares.IsPanicError(wrapped))
		assert.False(t, middlewares.IsTimeoutError(wrapped))

		pe, ok := middlewares.AsPanicError(wrapped)
		require.True(t, ok)
		assert.Same(t, panicErr, pe)
	})

	t.Run("timeout error", func(t *testing.T) {
		t.Parallel()

		wrapped := fmt.Errorf("handler: %w", timeoutErr)
		assert.True(t, middlewares.IsTimeoutError(wrapped))
		assert.False(t, middlewares.IsPanicError(wrapped))

		te, ok := middlewares.AsTimeoutError(wrapped)
		require.True(t, ok)
		assert.Same(t, timeoutErr, te)
	})

	t.Run("other errors", func(t *testing.T) {
		t.Parallel()

		for _, err := range []error{nil, plain} {
			assert.False(t, middlewares.IsPanicError(err))
			assert.False(t, middlewares.IsTimeoutError(err))
			_, ok := middlewares.AsPanicError(err)
			assert.False(t, ok)
			_, ok = middlewares.AsTimeoutError(err)
			assert.False(t, ok)
		}
	})
}
