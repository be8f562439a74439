// Package middlewares provides the concrete middleware an anvil application
// references from its routes.
//
// Register adds every middleware to the factory under a short identifier, so
// routes and middleware groups can refer to them by token:
//
//	app, err := anvil.New(
//	    anvil.WithMiddlewareSet(middlewares.Register),
//	    anvil.WithGroup("web", "request_id", "recover", "trailing_slash"),
//	    anvil.WithGroup("api", "request_id", "recover", "throttle:60,1m", "metrics"),
//	    anvil.WithPriority("request_id", "recover", "tracing", "authenticate", "can"),
//	    anvil.WithService(container.Key[ratelimit.Store](), ratelimit.NewMemoryStore()),
//	    anvil.WithHandlers(controllers...),
//	)
//
// Each middleware is also usable directly as an inline handler:
//
//	r.GET("/report", h.report).Use(middlewares.Timeout(2 * time.Second))
//
// # Request ID
//
// RequestID reuses an incoming X-Request-ID header or generates a UUIDv7.
// Pair it with RequestIDExtractor to add request_id to every log record:
//
//	anvil.WithLogger("api", middlewares.RequestIDExtractor())
//
// # Recover and Timeout
//
// Recover converts panics into *PanicError and Timeout derives a request
// context with a deadline, returning *TimeoutError when it expires. Both
// errors reach the application error handler; IsPanicError and
// IsTimeoutError let it pick the response.
//
// # Throttle
//
// Throttle counts hits per client IP in a fixed window using a
// ratelimit.Store taken from the container. The token
// "throttle:5,1m,login" shares one counter across every route using the
// "login" scope; without a scope each route counts separately.
//
// # Metrics and tracing
//
// Metrics records a Prometheus counter and latency histogram labelled by
// route pattern. Tracing starts an OpenTelemetry server span per request.
// Both read their registerer or tracer provider from the container and fall
// back to the process-wide defaults.
//
// # Authentication
//
// Authenticate verifies an HS256 bearer token with the JWTKey from the
// container and stores its Claims on the context. Can restricts a route to
// claims carrying one of the listed roles:
//
//	r.Controller(http.MethodDelete, "/posts/{id}", anvil.Action("posts", "Destroy")).
//	    Middleware("authenticate", "can:admin,editor")
package middlewares
