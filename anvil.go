package anvil

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/middleware"
)

// Type aliases - public API
type (
	// App orchestrates routing, middleware resolution and the server lifecycle.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Route is a declared endpoint with its middleware declarations.
	Route = internal.Route

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// MiddlewareHandler is a unit of the middleware pipeline.
	MiddlewareHandler = internal.MiddlewareHandler

	// MiddlewareFunc adapts a function to MiddlewareHandler.
	MiddlewareFunc = internal.MiddlewareFunc

	// MiddlewareSet registers a batch of middleware constructors.
	MiddlewareSet = internal.MiddlewareSet

	// Factory builds middleware handlers from specs.
	Factory = internal.Factory

	// Pipeline runs middleware handlers around a terminal handler.
	Pipeline = internal.Pipeline

	// ControllerAction points at a controller method in the container.
	ControllerAction = internal.ControllerAction

	// ControllerMiddleware declares a middleware token on a controller.
	ControllerMiddleware = internal.ControllerMiddleware

	// MiddlewareProvider is implemented by controllers declaring middleware.
	MiddlewareProvider = internal.MiddlewareProvider

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ResponseWriter wraps http.ResponseWriter with write hooks.
	ResponseWriter = internal.ResponseWriter

	// HTTPError is an error carrying an HTTP status code.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// MiddlewareInstantiationError reports a middleware that could not be built.
	MiddlewareInstantiationError = internal.MiddlewareInstantiationError

	// Extractor reads a value from the first matching request source.
	Extractor = internal.Extractor

	// ExtractorSource reads a single value from the request.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// Container is the service container.
	Container = container.Container
)

// Constructors

// New creates an application and resolves every route's middleware.
// Configuration errors (unknown tokens, group cycles, bad constructors,
// unbound controllers) are returned here.
//
// Example:
//
//	app, err := anvil.New(
//	    anvil.WithMiddlewareSet(middlewares.Register),
//	    anvil.WithGroup("web", "request_id", "recover"),
//	    anvil.WithHandlers(handlers.NewPosts(repo)),
//	)
//	if err != nil {
//	    return err
//	}
//	return app.Run(anvil.Address(":8080"))
func New(opts ...Option) (*App, error) {
	return internal.New(opts...)
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *App {
	return internal.MustNew(opts...)
}

// Action references a controller method: the controller is the container
// entry id, the method must be func(anvil.Context) error.
func Action(id, method string) ControllerAction {
	return internal.Action(id, method)
}

// ResolveFor returns the controller's middleware tokens for action.
func ResolveFor(controller any, action string) []string {
	return internal.ResolveFor(controller, action)
}

// NewFactory creates a middleware factory resolving services from c.
func NewFactory(c *Container) *Factory {
	return internal.NewFactory(c)
}

// NewPipeline creates a pipeline from handlers and a terminal.
func NewPipeline(handlers []MiddlewareHandler, terminal HandlerFunc) *Pipeline {
	return internal.NewPipeline(handlers, terminal)
}

// NewExtractor creates an Extractor trying sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// App options

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithContainer replaces the default empty container.
func WithContainer(c *Container) Option {
	return internal.WithContainer(c)
}

// WithService registers a ready instance in the container under id.
func WithService(id string, v any) Option {
	return internal.WithService(id, v)
}

// WithSingleton registers a lazily built service in the container under id.
func WithSingleton(id string, fn container.FactoryFunc) Option {
	return internal.WithSingleton(id, fn)
}

// WithProvider runs fn against the container before it is locked.
//
// Example:
//
//	anvil.WithProvider(func(c *anvil.Container) error {
//	    return container.Provide[ratelimit.Store](c, ratelimit.NewRedisStore(rdb, "throttle"))
//	})
func WithProvider(fn func(c *Container) error) Option {
	return internal.WithProvider(fn)
}

// WithMiddlewareDefinition registers a middleware constructor under name.
func WithMiddlewareDefinition(name string, constructor any) Option {
	return internal.WithMiddlewareDefinition(name, constructor)
}

// WithMiddlewareSet registers batches of middleware constructors.
func WithMiddlewareSet(sets ...MiddlewareSet) Option {
	return internal.WithMiddlewareSet(sets...)
}

// WithAlias maps a short name to a middleware identifier.
func WithAlias(alias, identifier string) Option {
	return internal.WithAlias(alias, identifier)
}

// WithGroup declares a named group of middleware tokens.
func WithGroup(name string, members ...string) Option {
	return internal.WithGroup(name, members...)
}

// WithGlobalMiddleware appends tokens to the global group.
func WithGlobalMiddleware(tokens ...string) Option {
	return internal.WithGlobalMiddleware(tokens...)
}

// WithGlobalGroup renames the group applied to every route.
func WithGlobalGroup(name string) Option {
	return internal.WithGlobalGroup(name)
}

// WithPriority sets the middleware priority list.
func WithPriority(identifiers ...string) Option {
	return internal.WithPriority(identifiers...)
}

// WithMiddlewareConfig applies aliases, groups and priority loaded from
// configuration.
func WithMiddlewareConfig(cfg middleware.Config) Option {
	return internal.WithMiddlewareConfig(cfg)
}

// WithoutMiddleware disables every middleware, global group included.
func WithoutMiddleware() Option {
	return internal.WithoutMiddleware()
}

// WithErrorHandler sets a custom error handler for handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler. It runs behind the global group.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler. It runs behind the
// global group.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	anvil.WithHealthChecks(
//	    anvil.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully configured slog.Logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// Health options

// WithLivenessPath sets the liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets the readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithHealthTimeout bounds the readiness checks.
func WithHealthTimeout(d time.Duration) HealthOption {
	return internal.WithHealthTimeout(d)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the listen address.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the logger for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function run before the server accepts requests.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function run after the server stops.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// OnListen receives the bound address once the listener is open.
func OnListen(fn func(net.Addr)) RunOption {
	return internal.OnListen(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Helpers

// ContextValue returns the value stored under key with Context.Set, or the
// zero value of T.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}
