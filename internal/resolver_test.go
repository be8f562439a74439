package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/anvil/internal"
)

type plainController struct{}

func TestControllerMiddleware_AppliesTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		m      internal.ControllerMiddleware
		action string
		want   bool
	}{
		{"no filters", internal.ControllerMiddleware{Token: "auth"}, "Index", true},
		{"only includes", internal.ControllerMiddleware{Token: "auth", Only: []string{"Store"}}, "Store", true},
		{"only excludes others", internal.ControllerMiddleware{Token: "auth", Only: []string{"Store"}}, "Index", false},
		{"except excludes", internal.ControllerMiddleware{Token: "auth", Except: []string{"Index"}}, "Index", false},
		{"except keeps others", internal.ControllerMiddleware{Token: "auth", Except: []string{"Index"}}, "Store", true},
		{"except wins over only", internal.ControllerMiddleware{Token: "auth", Only: []string{"Index"}, Except: []string{"Index"}}, "Index", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.m.AppliesTo(tt.action))
		})
	}
}

func TestResolveFor(t *testing.T) {
	t.Parallel()

	ctrl := &postsController{}

	assert.Equal(t, []string{"ctrl"}, internal.ResolveFor(ctrl, "Index"))
	assert.Equal(t, []string{"ctrl", "auth"}, internal.ResolveFor(ctrl, "Store"))
	assert.Nil(t, internal.ResolveFor(plainController{}, "Index"))
}

func TestAction_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "posts@Show", internal.Action("posts", "Show").String())
}
