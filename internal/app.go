package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/middleware"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App orchestrates routing, middleware resolution and the server lifecycle.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router                  chi.Router
	container               *container.Container
	registry                *middleware.Registry
	table                   *middleware.Table
	factory                 *Factory
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	handlers                []Handler
	definitions             []definition
	middlewareSets          []MiddlewareSet
	services                []func(*container.Container) error
	routes                  []*Route
	skipMiddleware          bool
}

// definition is a middleware constructor registered through options.
type definition struct {
	constructor any
	name        string
}

// MiddlewareSet registers a batch of middleware constructors on a factory.
type MiddlewareSet func(f *Factory) error

// New creates a new application with the given options.
//
// Boot order: services are added to the container and the container is
// locked, middleware constructors are registered, the middleware table is
// built, handlers declare their routes and every route's middleware chain is
// resolved. Unknown middleware tokens and group cycles fail here rather than
// on the first request.
//
// Example:
//
//	app, err := anvil.New(
//	    anvil.WithMiddlewareSet(middlewares.Register),
//	    anvil.WithGroup("web", "request_id", "recover"),
//	    anvil.WithAlias("auth", "authenticate"),
//	    anvil.WithHandlers(handlers.NewPosts(repo)),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		router:    chi.NewRouter(),
		container: container.New(),
		registry:  middleware.NewRegistry(),
		logger:    logger.NewNope(), // Default: noop logger (before options)
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := a.boot(); err != nil {
		return nil, err
	}
	return a, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *App {
	a, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Router returns the underlying chi.Router for the App.
func (a *App) Router() chi.Router {
	return a.router
}

// Container returns the application container. It is locked after New.
func (a *App) Container() *container.Container {
	return a.container
}

// Table returns the resolved middleware table.
func (a *App) Table() *middleware.Table {
	return a.table
}

// Routes returns every declared route in declaration order.
func (a *App) Routes() []*Route {
	out := make([]*Route, len(a.routes))
	copy(out, a.routes)
	return out
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) boot() error {
	var errs []error

	for _, provide := range a.services {
		if err := provide(a.container); err != nil {
			errs = append(errs, err)
		}
	}

	a.factory = NewFactory(a.container)
	for _, set := range a.middlewareSets {
		if err := set(a.factory); err != nil {
			errs = append(errs, err)
		}
	}
	for _, d := range a.definitions {
		if err := a.factory.Register(d.name, d.constructor); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	a.container.Lock()

	table, err := a.registry.Known(a.factory.Names()...).Build()
	if err != nil {
		return fmt.Errorf("anvil: middleware configuration: %w", err)
	}
	a.table = table

	return a.setupRoutes()
}

// setupRoutes declares every route on chi and resolves its middleware.
func (a *App) setupRoutes() error {
	notFound := a.notFoundHandler
	if notFound == nil {
		notFound = func(c Context) error { return ErrNotFound(http.StatusText(http.StatusNotFound)) }
	}
	methodNotAllowed := a.methodNotAllowedHandler
	if methodNotAllowed == nil {
		methodNotAllowed = func(c Context) error {
			return ErrMethodNotAllowed(http.StatusText(http.StatusMethodNotAllowed))
		}
	}

	// Fallback responses run behind the global group only.
	notFoundRoute := &Route{handler: notFound}
	methodNotAllowedRoute := &Route{handler: methodNotAllowed}
	if err := errors.Join(notFoundRoute.resolve(a), methodNotAllowedRoute.resolve(a)); err != nil {
		return err
	}
	a.router.NotFound(a.serveRoute(notFoundRoute))
	a.router.MethodNotAllowed(a.serveRoute(methodNotAllowedRoute))

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(
			a.healthConfig.checks,
			health.WithTimeout(a.healthConfig.timeout),
			health.WithLogger(a.logger),
		))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}

	var errs []error
	for _, rt := range a.routes {
		if err := rt.resolve(a); err != nil {
			errs = append(errs, fmt.Errorf("anvil: route %s %s: %w", rt.method, rt.pattern, err))
			continue
		}
		a.logger.Debug("route middleware resolved",
			slog.String("method", rt.method),
			slog.String("pattern", rt.pattern),
			slog.Any("middleware", specNames(rt.specs)),
		)
	}
	return errors.Join(errs...)
}

// serveRoute adapts a route to http.HandlerFunc. The route's middleware is
// instantiated on its first request.
func (a *App) serveRoute(rt *Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a, rt)
		p, err := rt.build(a.factory)
		if err != nil {
			a.handleError(c, err)
			return
		}
		if err := p.Handle(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError handles errors from handlers using the configured error handler.
func (a *App) handleError(c Context, err error) {
	// Check if response has already been written
	if c.Written() {
		a.logger.ErrorContext(c, "error after response was written", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			a.logger.ErrorContext(c, "error handler failed", slog.Any("error", herr))
		}
		return
	}
	_ = defaultErrorHandler(a.logger)(c, err)
}

// statusCoder is implemented by errors that pick their own response status.
type statusCoder interface {
	StatusCode() int
}

// defaultErrorHandler writes HTTPError responses with their status code and
// message, other status-carrying errors with their status text, and
// everything else as 500.
func defaultErrorHandler(log *slog.Logger) ErrorHandler {
	return func(c Context, err error) error {
		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var sc statusCoder
		if herr := AsHTTPError(err); herr != nil {
			code = herr.StatusCode()
			message = herr.Message
			if message == "" {
				message = herr.StatusText()
			}
		} else if errors.As(err, &sc) && sc.StatusCode() >= 400 {
			code = sc.StatusCode()
			message = http.StatusText(code)
		}
		if code >= http.StatusInternalServerError {
			log.ErrorContext(c, "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Any("error", err),
			)
		}
		http.Error(c.Response(), message, code)
		return nil
	}
}

func specNames(specs []middleware.Spec) []string {
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.String())
	}
	return names
}
