package internal

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrymomot/anvil/pkg/middleware"
)

// Route is a single declared endpoint. Its middleware is resolved when the
// app boots; handlers are instantiated on the first request.
//
// Example:
//
//	r.POST("/posts", h.create).
//	    Name("posts.store").
//	    Middleware("auth", "throttle:10,1m").
//	    WithoutMiddleware("csrf")
type Route struct {
	action    *ControllerAction
	handler   HandlerFunc
	method    string
	pattern   string
	name      string
	inherited []middleware.Ref
	refs      []middleware.Ref
	exclude   []string
	skipAll   bool

	// Set at boot.
	specs []middleware.Spec

	once     sync.Once
	pipeline *Pipeline
	err      error
}

func newRoute(method, pattern string, inherited []middleware.Ref) *Route {
	return &Route{
		method:    method,
		pattern:   pattern,
		inherited: slices.Clone(inherited),
	}
}

// Middleware appends middleware tokens to the route. Tokens may be
// identifiers with arguments ("throttle:60,1m"), aliases or group names.
func (r *Route) Middleware(tokens ...string) *Route {
	r.refs = append(r.refs, middleware.Tokens(tokens...)...)
	return r
}

// Use appends inline middleware to the route. Inline middleware is never
// deduplicated and keeps its declared position.
func (r *Route) Use(mw ...MiddlewareHandler) *Route {
	for _, m := range mw {
		if m != nil {
			r.refs = append(r.refs, middleware.Inline("", m))
		}
	}
	return r
}

// WithoutMiddleware removes middleware from this route, including the global
// group. Called without arguments it disables all middleware for the route.
func (r *Route) WithoutMiddleware(identifiers ...string) *Route {
	if len(identifiers) == 0 {
		r.skipAll = true
		return r
	}
	r.exclude = append(r.exclude, identifiers...)
	return r
}

// Name sets the route name, available from Context.RouteName.
func (r *Route) Name(name string) *Route {
	r.name = name
	return r
}

// Method returns the HTTP method.
func (r *Route) Method() string { return r.method }

// Pattern returns the full route pattern including group prefixes.
func (r *Route) Pattern() string { return r.pattern }

// RouteName returns the route name, if set.
func (r *Route) RouteName() string { return r.name }

// Specs returns the resolved middleware chain. It is empty before boot.
func (r *Route) Specs() []middleware.Spec {
	return slices.Clone(r.specs)
}

// resolve binds the controller action, if any, and resolves the middleware
// chain: router tokens, then route tokens, then controller tokens.
func (r *Route) resolve(a *App) error {
	refs := slices.Concat(r.inherited, r.refs)

	if r.action != nil {
		h, tokens, err := r.action.bind(a.container)
		if err != nil {
			return err
		}
		r.handler = h
		refs = append(refs, middleware.Tokens(tokens...)...)
	}

	var opts []middleware.ExpandOption
	if r.skipAll || a.skipMiddleware {
		opts = append(opts, middleware.SkipAll())
	}
	if len(r.exclude) > 0 {
		opts = append(opts, middleware.Exclude(r.exclude...))
	}

	specs, err := a.table.Resolve(refs, opts...)
	if err != nil {
		return err
	}
	r.specs = specs
	return nil
}

// build instantiates the route's middleware once. A failure, panics
// included, is kept and returned for every later request.
func (r *Route) build(f *Factory) (*Pipeline, error) {
	r.once.Do(func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.err = &MiddlewareInstantiationError{
					Name:   r.method + " " + r.pattern,
					Reason: "middleware build panicked",
					Err:    fmt.Errorf("%v", rec),
				}
			}
		}()

		handlers, err := f.CreateAll(r.specs)
		if err != nil {
			r.err = err
			return
		}
		r.pipeline = NewPipeline(handlers, r.handler)
	})
	if r.pipeline == nil && r.err == nil {
		return nil, &MiddlewareInstantiationError{Name: r.method + " " + r.pattern, Reason: "pipeline unavailable"}
	}
	return r.pipeline, r.err
}
