package internal

import (
	"log/slog"

	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/middleware"
)

// Option configures the application.
type Option func(*App)

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithContainer replaces the default empty container.
// The container is locked once the app has booted.
func WithContainer(c *container.Container) Option {
	return func(a *App) {
		if c != nil {
			a.container = c
		}
	}
}

// WithService registers a ready instance in the container under id.
// Controllers referenced by Action are registered this way.
//
// Example:
//
//	anvil.New(
//	    anvil.WithService("posts", controllers.NewPosts(repo)),
//	)
func WithService(id string, v any) Option {
	return func(a *App) {
		a.services = append(a.services, func(c *container.Container) error {
			return c.Instance(id, v)
		})
	}
}

// WithSingleton registers a lazily built service in the container under id.
func WithSingleton(id string, fn container.FactoryFunc) Option {
	return func(a *App) {
		a.services = append(a.services, func(c *container.Container) error {
			return c.Singleton(id, fn)
		})
	}
}

// WithProvider runs fn against the container before it is locked. Use it
// for typed registrations that middleware constructors resolve by type.
//
// Example:
//
//	anvil.WithProvider(func(c *container.Container) error {
//	    return container.Provide[ratelimit.Store](c, ratelimit.NewMemoryStore())
//	})
func WithProvider(fn func(c *container.Container) error) Option {
	return func(a *App) {
		if fn != nil {
			a.services = append(a.services, fn)
		}
	}
}

// WithMiddlewareDefinition registers a middleware constructor under name.
// See Factory for how constructor parameters are filled.
//
// Example:
//
//	anvil.WithMiddlewareDefinition("role", func(role string) anvil.Middleware {
//	    return requireRole(role)
//	})
//	// route: .Middleware("role:admin")
func WithMiddlewareDefinition(name string, constructor any) Option {
	return func(a *App) {
		a.definitions = append(a.definitions, definition{name: name, constructor: constructor})
	}
}

// WithMiddlewareSet registers a batch of middleware constructors.
//
// Example:
//
//	anvil.WithMiddlewareSet(middlewares.Register)
func WithMiddlewareSet(sets ...MiddlewareSet) Option {
	return func(a *App) {
		for _, s := range sets {
			if s != nil {
				a.middlewareSets = append(a.middlewareSets, s)
			}
		}
	}
}

// WithAlias maps a short name to a middleware identifier.
func WithAlias(alias, identifier string) Option {
	return func(a *App) {
		a.registry.Alias(alias, identifier)
	}
}

// WithGroup defines a named middleware group. Members may be identifiers
// with arguments, aliases or other groups.
func WithGroup(name string, members ...string) Option {
	return func(a *App) {
		a.registry.Group(name, members...)
	}
}

// WithGlobalMiddleware appends tokens to the global group, which runs on
// every route as well as on 404 and 405 responses.
func WithGlobalMiddleware(tokens ...string) Option {
	return func(a *App) {
		a.registry.PushToGlobal(tokens...)
	}
}

// WithGlobalGroup names the group applied to every route.
// Defaults to "global".
func WithGlobalGroup(name string) Option {
	return func(a *App) {
		a.registry.GlobalGroup(name)
	}
}

// WithPriority sets the middleware priority list. Route middleware listed
// here runs in this relative order regardless of declaration order.
func WithPriority(identifiers ...string) Option {
	return func(a *App) {
		a.registry.Priority(identifiers...)
	}
}

// WithMiddlewareConfig applies aliases, groups, priority and the global
// group name from configuration.
func WithMiddlewareConfig(cfg middleware.Config) Option {
	return func(a *App) {
		cfg.Apply(a.registry)
	}
}

// WithoutMiddleware disables all middleware on every route.
// Useful in tests that exercise handlers in isolation.
func WithoutMiddleware() Option {
	return func(a *App) {
		a.skipMiddleware = true
	}
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler or middleware returns a non-nil error.
//
// Example:
//
//	anvil.WithErrorHandler(func(c anvil.Context, err error) error {
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			timeout:       defaultHealthTimeout,
			checks:        make(map[string]health.CheckFunc),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
//
// Example:
//
//	anvil.New(
//	    anvil.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}
