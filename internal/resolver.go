package internal

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/dmitrymomot/anvil/pkg/container"
)

// ControllerMiddleware declares a middleware token on a controller.
// With Only set, the token applies to the listed actions only; actions in
// Except never get it.
type ControllerMiddleware struct {
	Token  string
	Only   []string
	Except []string
}

// AppliesTo reports whether the declaration covers action.
func (m ControllerMiddleware) AppliesTo(action string) bool {
	if len(m.Only) > 0 && !slices.Contains(m.Only, action) {
		return false
	}
	return !slices.Contains(m.Except, action)
}

// MiddlewareProvider is implemented by controllers that declare their own
// middleware.
//
// Example:
//
//	func (c *PostsController) Middleware() []anvil.ControllerMiddleware {
//	    return []anvil.ControllerMiddleware{
//	        {Token: "auth", Except: []string{"Index", "Show"}},
//	        {Token: "throttle:10,1m", Only: []string{"Store"}},
//	    }
//	}
type MiddlewareProvider interface {
	Middleware() []ControllerMiddleware
}

// ResolveFor returns the controller's middleware tokens that apply to
// action, in declaration order. Controllers that do not implement
// MiddlewareProvider contribute nothing.
func ResolveFor(controller any, action string) []string {
	p, ok := controller.(MiddlewareProvider)
	if !ok {
		return nil
	}

	var tokens []string
	for _, m := range p.Middleware() {
		if m.Token != "" && m.AppliesTo(action) {
			tokens = append(tokens, m.Token)
		}
	}
	return tokens
}

// ControllerAction points at a controller method. The controller is looked
// up in the container by ID when the app boots.
type ControllerAction struct {
	ID     string
	Method string
}

// Action creates a controller action reference.
//
// Example:
//
//	r.Controller(http.MethodGet, "/posts/{id}", anvil.Action("posts", "Show"))
func Action(id, method string) ControllerAction {
	return ControllerAction{ID: id, Method: method}
}

func (a ControllerAction) String() string {
	return a.ID + "@" + a.Method
}

// bind resolves the controller and returns the action handler along with
// the controller's middleware tokens for the action.
func (a ControllerAction) bind(c *container.Container) (HandlerFunc, []string, error) {
	ctrl, err := c.Get(a.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("anvil: controller %s: %w", a, err)
	}

	if ctrl == nil {
		return nil, nil, fmt.Errorf("anvil: controller %s: %w: resolved to nil", a, container.ErrNotFound)
	}

	m := reflect.ValueOf(ctrl).MethodByName(a.Method)
	if !m.IsValid() {
		return nil, nil, fmt.Errorf("anvil: controller %s: %T has no method %s", a, ctrl, a.Method)
	}

	h, ok := m.Interface().(func(Context) error)
	if !ok {
		return nil, nil, fmt.Errorf("anvil: controller %s: method must be func(anvil.Context) error, got %s", a, m.Type())
	}

	return h, ResolveFor(ctrl, a.Method), nil
}
