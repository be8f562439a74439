// Package anvil is an MVC-style HTTP application kit built around a route
// middleware pipeline.
//
// Routes reference middleware by token. A token is a registered identifier,
// optionally with arguments ("throttle:60,1m"), an alias, or a group name.
// When the app boots, every route's tokens are expanded through aliases and
// groups, deduplicated by identifier and arguments, and ordered: the global
// group first, the rest by the priority list. Unknown tokens and group cycles
// fail New instead of the first request.
//
// # Quick Start
//
//	app, err := anvil.New(
//	    anvil.WithMiddlewareSet(middlewares.Register),
//	    anvil.WithGlobalMiddleware("request_id", "recover"),
//	    anvil.WithAlias("auth", "authenticate"),
//	    anvil.WithGroup("api", "throttle:60,1m", "metrics"),
//	    anvil.WithPriority("authenticate", "can"),
//	    anvil.WithHandlers(handlers.NewPosts(repo)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(anvil.Address(":8080")); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] and declare routes:
//
//	func (h *Posts) Routes(r anvil.Router) {
//	    r.Route("/api/posts", func(r anvil.Router) {
//	        r.Middleware("api")
//	        r.GET("/", h.list)
//	        r.POST("/", h.create).Middleware("auth", "can:editor")
//	    })
//	    r.GET("/health", h.ping).WithoutMiddleware()
//	}
//
// Controllers registered in the container can be routed with [Action] and
// declare their own middleware with [MiddlewareProvider].
//
// # Middleware
//
// Middleware identifiers are registered with constructors. Constructor
// parameters are filled from token arguments first, then from the container
// by type:
//
//	anvil.WithMiddlewareDefinition("tenant", func(header string, repo *tenants.Repo) anvil.Middleware {
//	    ...
//	})
//	// "tenant:X-Tenant" -> header="X-Tenant", repo from the container
//
// Handlers are built on the first request to each route. A constructor that
// fails is reported to the error handler as a [MiddlewareInstantiationError].
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM with graceful shutdown; register cleanup with
// [ShutdownHook].
package anvil
