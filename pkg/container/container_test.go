package container_test

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/container"
)

type greeter interface {
	Greet() string
}

type english struct{}

func (english) Greet() string { return "hello" }

func TestContainer(t *testing.T) {
	t.Parallel()

	t.Run("instance round trip", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Instance("answer", 42))

		assert.True(t, c.Has("answer"))
		v, err := c.Get("answer")
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("missing entry", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		assert.False(t, c.Has("nope"))

		_, err := c.Get("nope")
		require.ErrorIs(t, err, container.ErrNotFound)
	})

	t.Run("invalid entries are rejected", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.ErrorIs(t, c.Instance("", 1), container.ErrInvalidEntry)
		require.ErrorIs(t, c.Instance("x", nil), container.ErrInvalidEntry)
		require.ErrorIs(t, c.Singleton("x", nil), container.ErrInvalidEntry)
	})

	t.Run("singleton is built once", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		var calls atomic.Int32
		require.NoError(t, c.Singleton("svc", func(*container.Container) (any, error) {
			calls.Add(1)
			return &english{}, nil
		}))
		c.Lock()

		var wg sync.WaitGroup
		results := make([]any, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = c.Get("svc")
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, r := range results {
			assert.Same(t, results[0], r)
		}
	})

	t.Run("singleton error is reported on every get", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		c := container.New()
		require.NoError(t, c.Singleton("svc", func(*container.Container) (any, error) {
			return nil, boom
		}))

		_, err := c.Get("svc")
		require.ErrorIs(t, err, boom)
		_, err = c.Get("svc")
		require.ErrorIs(t, err, boom)
	})

	t.Run("singleton may resolve dependencies", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Instance("name", "world"))
		require.NoError(t, c.Singleton("greeting", func(c *container.Container) (any, error) {
			name, err := container.Get[string](c, "name")
			if err != nil {
				return nil, err
			}
			return "hello " + name, nil
		}))

		v, err := container.Get[string](c, "greeting")
		require.NoError(t, err)
		assert.Equal(t, "hello world", v)
	})

	t.Run("lock forbids writes but not reads", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Instance("a", 1))
		c.Lock()
		c.Lock()

		assert.True(t, c.Locked())
		require.ErrorIs(t, c.Instance("b", 2), container.ErrLocked)
		require.ErrorIs(t, c.Singleton("c", func(*container.Container) (any, error) { return 3, nil }), container.ErrLocked)
		require.ErrorIs(t, container.Provide(c, "x"), container.ErrLocked)

		v, err := c.Get("a")
		require.NoError(t, err)
		assert.Equal(t, 1, v)
		assert.Equal(t, []string{"a"}, c.Keys())
	})
}

func TestTypedHelpers(t *testing.T) {
	t.Parallel()

	t.Run("provide and resolve by type", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		log := slog.New(slog.DiscardHandler)
		require.NoError(t, container.Provide(c, log))

		got, err := container.Resolve[*slog.Logger](c)
		require.NoError(t, err)
		assert.Same(t, log, got)
		assert.Equal(t, log, container.MustResolve[*slog.Logger](c))
	})

	t.Run("interfaces are keyed by interface type", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, container.ProvideFunc(c, func(*container.Container) (greeter, error) {
			return english{}, nil
		}))

		g, err := container.Resolve[greeter](c)
		require.NoError(t, err)
		assert.Equal(t, "hello", g.Greet())
	})

	t.Run("type mismatch", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Instance("n", 1))

		_, err := container.Get[string](c, "n")
		require.ErrorIs(t, err, container.ErrTypeMismatch)
	})

	t.Run("must resolve panics when missing", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		assert.Panics(t, func() { container.MustResolve[*slog.Logger](c) })
	})
}

func TestKeyOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "log/slog.Logger", container.Key[slog.Logger]())
	assert.Equal(t, "*log/slog.Logger", container.Key[*slog.Logger]())
	assert.Equal(t, "string", container.Key[string]())
	assert.Equal(t, "github.com/dmitrymomot/anvil/pkg/container_test.greeter", container.Key[greeter]())
	assert.Equal(t, container.Key[*slog.Logger](), container.KeyOf(reflect.TypeOf(&slog.Logger{})))
	assert.Empty(t, container.KeyOf(nil))
}

func TestTypedEntries(t *testing.T) {
	t.Parallel()

	t.Run("typed entries are listed by key", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Instance("name", "world"))
		require.NoError(t, container.Provide[greeter](c, english{}))

		assert.True(t, c.Has(container.Key[greeter]()))
		assert.Equal(t, []string{container.Key[greeter](), "name"}, c.Keys())

		v, err := c.Get(container.Key[greeter]())
		require.NoError(t, err)
		assert.Equal(t, english{}, v)
	})

	t.Run("providing a type twice is rejected", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, container.Provide[greeter](c, english{}))
		require.ErrorIs(t, container.Provide[greeter](c, english{}), container.ErrInvalidEntry)
	})

	t.Run("nil values are rejected", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.ErrorIs(t, container.Provide[greeter](c, nil), container.ErrInvalidEntry)
		require.ErrorIs(t, container.ProvideFunc[greeter](c, nil), container.ErrInvalidEntry)
	})

	t.Run("constructor runs once across lock and reads", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := container.New()
		require.NoError(t, container.ProvideFunc(c, func(*container.Container) (greeter, error) {
			calls.Add(1)
			return english{}, nil
		}))
		c.Lock()

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := container.Resolve[greeter](c)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("constructor error is reported", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		c := container.New()
		require.NoError(t, container.ProvideFunc(c, func(*container.Container) (greeter, error) {
			return nil, boom
		}))

		_, err := container.Resolve[greeter](c)
		require.ErrorIs(t, err, boom)

		c.Lock()
		_, err = container.Resolve[greeter](c)
		require.ErrorIs(t, err, boom)
	})

	t.Run("constructor returning nil", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, container.ProvideFunc(c, func(*container.Container) (greeter, error) {
			return nil, nil
		}))
		c.Lock()

		v, err := c.Get(container.Key[greeter]())
		require.NoError(t, err)
		assert.Nil(t, v)

		_, err = container.Resolve[greeter](c)
		require.ErrorIs(t, err, container.ErrNotFound)
	})

	t.Run("constructor panic becomes an error", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, container.ProvideFunc(c, func(*container.Container) (greeter, error) {
			panic("broken")
		}))

		assert.NotPanics(t, c.Lock)
		_, err := container.Resolve[greeter](c)
		require.Error(t, err)
	})

	t.Run("constructors may resolve other types", func(t *testing.T) {
		t.Parallel()

		log := slog.New(slog.DiscardHandler)
		c := container.New()
		require.NoError(t, container.Provide(c, log))
		require.NoError(t, container.ProvideFunc(c, func(c *container.Container) (greeter, error) {
			if _, err := container.Resolve[*slog.Logger](c); err != nil {
				return nil, err
			}
			return english{}, nil
		}))
		c.Lock()

		g, err := container.Resolve[greeter](c)
		require.NoError(t, err)
		assert.Equal(t, "hello", g.Greet())
	})
}
