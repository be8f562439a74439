package middleware_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/middleware"
)

func specs(tokens ...string) []middleware.Spec {
	out := make([]middleware.Spec, 0, len(tokens))
	for _, t := range tokens {
		name, args := middleware.ParseToken(t)
		out = append(out, middleware.Spec{Name: name, Args: args})
	}
	return out
}

func TestSort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []string
		priority []string
		want     []string
	}{
		{
			name:     "reorders prioritized middleware",
			input:    []string{"Baz", "Bar", "Foo"},
			priority: []string{"Foo", "Bar", "Baz"},
			want:     []string{"Foo", "Bar", "Baz"},
		},
		{
			name:     "unlisted middleware keeps its position",
			input:    []string{"FooBar", "Bar", "Baz", "Foo"},
			priority: []string{"Foo", "Bar", "Baz"},
			want:     []string{"FooBar", "Foo", "Bar", "Baz"},
		},
		{
			name:     "partially listed chain",
			input:    []string{"FooBar", "Bar", "Baz", "Foo"},
			priority: []string{"Foo", "Bar"},
			want:     []string{"FooBar", "Foo", "Bar", "Baz"},
		},
		{
			name:     "unlisted neighbours are not reordered",
			input:    []string{"X", "Bar", "Y", "Foo", "Z"},
			priority: []string{"Foo", "Bar"},
			want:     []string{"X", "Foo", "Bar", "Y", "Z"},
		},
		{
			name:     "already sorted input is unchanged",
			input:    []string{"Foo", "X", "Bar", "Y"},
			priority: []string{"Foo", "Bar"},
			want:     []string{"Foo", "X", "Bar", "Y"},
		},
		{
			name:     "empty priority list",
			input:    []string{"B", "A"},
			priority: nil,
			want:     []string{"B", "A"},
		},
		{
			name:     "arguments do not affect rank",
			input:    []string{"Bar", "Foo:A", "Foo:B"},
			priority: []string{"Foo", "Bar"},
			want:     []string{"Foo:A", "Foo:B", "Bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := specs(tt.input...)
			got := middleware.Sort(input, tt.priority)
			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, tt.input, names(input), "input must not be modified")
		})
	}
}

func TestSort_InlineKeepsPosition(t *testing.T) {
	t.Parallel()

	in := []middleware.Spec{
		{Name: "Bar"},
		{Name: "audit", Inline: func() {}},
		{Name: "Foo"},
	}
	got := middleware.Sort(in, []string{"Foo", "Bar"})
	assert.Equal(t, []string{"Foo", "Bar", "<inline:audit>"}, names(got))
}

func TestOrder(t *testing.T) {
	t.Parallel()

	t.Run("global members come first regardless of priority", func(t *testing.T) {
		t.Parallel()

		got := middleware.Order(
			specs("Baz", "Foo", "FooBar", "Bar"),
			[]string{"Baz", "FooBar", "Bar", "Foo"},
			specs("Foo", "Bar"),
		)
		assert.Equal(t, []string{"Foo", "Bar", "Baz", "FooBar"}, names(got))
	})

	t.Run("no global members", func(t *testing.T) {
		t.Parallel()

		got := middleware.Order(specs("Bar", "Foo"), []string{"Foo", "Bar"}, nil)
		assert.Equal(t, []string{"Foo", "Bar"}, names(got))
	})
}

func TestTable_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("sorts non global middleware", func(t *testing.T) {
		t.Parallel()

		table := mustBuild(t, newRegistry().
			Priority("FooMiddleware", "BarMiddleware", "BazMiddleware").
			Group("barbaz", "BazMiddleware", "BarMiddleware"))

		chain, err := table.Resolve(middleware.Tokens("barbaz", "FooMiddleware"))
		require.NoError(t, err)
		assert.Equal(t, []string{"FooMiddleware", "BarMiddleware", "BazMiddleware"}, names(chain))
	})

	t.Run("keeps relative position without priority", func(t *testing.T) {
		t.Parallel()

		table := mustBuild(t, newRegistry().
			Priority("FooMiddleware", "BarMiddleware").
			Group("all", "FooBarMiddleware", "BarMiddleware", "BazMiddleware", "FooMiddleware"))

		chain, err := table.Resolve(middleware.Tokens("all"))
		require.NoError(t, err)
		assert.Equal(t, []string{"FooBarMiddleware", "FooMiddleware", "BarMiddleware", "BazMiddleware"}, names(chain))
	})

	t.Run("global group is excluded from sorting and comes first", func(t *testing.T) {
		t.Parallel()

		table := mustBuild(t, newRegistry().
			Group("global", "FooMiddleware", "BarMiddleware").
			Priority("BazMiddleware", "FooBarMiddleware", "BarMiddleware", "FooMiddleware"))

		chain, err := table.Resolve(middleware.Tokens("FooBarMiddleware", "BazMiddleware"))
		require.NoError(t, err)
		assert.Equal(t, []string{"FooMiddleware", "BarMiddleware", "BazMiddleware", "FooBarMiddleware"}, names(chain))
	})

	t.Run("route and group middleware combine", func(t *testing.T) {
		t.Parallel()

		table := mustBuild(t, newRegistry().
			Alias("baz", "BazMiddleware").
			Group("foobar", "FooMiddleware", "BarMiddleware"))

		chain, err := table.Resolve(middleware.Tokens("baz", "foobar"))
		require.NoError(t, err)
		assert.Equal(t, []string{"BazMiddleware", "FooMiddleware", "BarMiddleware"}, names(chain))
	})

	t.Run("propagates expansion errors", func(t *testing.T) {
		t.Parallel()

		table := mustBuild(t, newRegistry())
		_, err := table.Resolve(middleware.Tokens("nope"))
		require.Error(t, err)
		assert.True(t, middleware.IsUnknownMiddleware(err))
	})
}
