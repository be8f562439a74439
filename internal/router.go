package internal

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/anvil/pkg/middleware"
)

// Router is the interface handlers use to declare routes.
// Middleware declared on a router applies to routes declared on it
// afterwards and to its sub-routers.
type Router interface {
	// GET registers a handler for GET requests.
	GET(path string, h HandlerFunc) *Route

	// POST registers a handler for POST requests.
	POST(path string, h HandlerFunc) *Route

	// PUT registers a handler for PUT requests.
	PUT(path string, h HandlerFunc) *Route

	// PATCH registers a handler for PATCH requests.
	PATCH(path string, h HandlerFunc) *Route

	// DELETE registers a handler for DELETE requests.
	DELETE(path string, h HandlerFunc) *Route

	// HEAD registers a handler for HEAD requests.
	HEAD(path string, h HandlerFunc) *Route

	// OPTIONS registers a handler for OPTIONS requests.
	OPTIONS(path string, h HandlerFunc) *Route

	// Controller registers a controller action. The controller is taken from
	// the container and may declare middleware via MiddlewareProvider.
	Controller(method, path string, action ControllerAction) *Route

	// Group creates an inline route group sharing the current middleware.
	Group(fn func(r Router))

	// Route creates a route group with a pattern prefix.
	Route(pattern string, fn func(r Router))

	// With returns a router whose routes get the given middleware tokens in
	// addition to the current ones.
	With(tokens ...string) Router

	// Middleware appends middleware tokens to this router.
	Middleware(tokens ...string)

	// Use appends inline middleware to this router.
	Use(mw ...MiddlewareHandler)

	// Mount attaches an http.Handler at the given pattern.
	// Mounted handlers bypass the middleware pipeline.
	Mount(pattern string, h http.Handler)
}

// routerAdapter wraps chi.Router to implement the Router interface.
type routerAdapter struct {
	router chi.Router
	app    *App
	prefix string
	refs   []middleware.Ref
}

func (r *routerAdapter) GET(path string, h HandlerFunc) *Route {
	return r.handle(http.MethodGet, path, h)
}

func (r *routerAdapter) POST(path string, h HandlerFunc) *Route {
	return r.handle(http.MethodPost, path, h)
}

func (r *routerAdapter) PUT(path string, h HandlerFunc) *Route {
	return r.handle(http.MethodPut, path, h)
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc) *Route {
	return r.handle(http.MethodPatch, path, h)
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc) *Route {
	return r.handle(http.MethodDelete, path, h)
}

func (r *routerAdapter) HEAD(path string, h HandlerFunc) *Route {
	return r.handle(http.MethodHead, path, h)
}

func (r *routerAdapter) OPTIONS(path string, h HandlerFunc) *Route {
	return r.handle(http.MethodOptions, path, h)
}

func (r *routerAdapter) Controller(method, path string, action ControllerAction) *Route {
	rt := r.handle(strings.ToUpper(method), path, nil)
	rt.action = &action
	return rt
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(r.child(cr, r.prefix))
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(r.child(cr, joinPattern(r.prefix, pattern)))
	})
}

func (r *routerAdapter) With(tokens ...string) Router {
	child := r.child(r.router, r.prefix)
	child.Middleware(tokens...)
	return child
}

func (r *routerAdapter) Middleware(tokens ...string) {
	r.refs = append(r.refs, middleware.Tokens(tokens...)...)
}

func (r *routerAdapter) Use(mw ...MiddlewareHandler) {
	for _, m := range mw {
		if m != nil {
			r.refs = append(r.refs, middleware.Inline("", m))
		}
	}
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

func (r *routerAdapter) child(cr chi.Router, prefix string) *routerAdapter {
	return &routerAdapter{
		router: cr,
		app:    r.app,
		prefix: prefix,
		refs:   slices.Clone(r.refs),
	}
}

// handle declares the route on chi. The returned Route is still mutable;
// its chain is resolved once all handlers have declared their routes.
func (r *routerAdapter) handle(method, path string, h HandlerFunc) *Route {
	rt := newRoute(method, joinPattern(r.prefix, path), r.refs)
	rt.handler = h
	r.app.routes = append(r.app.routes, rt)
	r.router.Method(method, path, r.app.serveRoute(rt))
	return rt
}

func joinPattern(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(path, "/")
}
