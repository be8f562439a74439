// Package middleware resolves route middleware declarations into an ordered,
// deduplicated chain of middleware specs.
//
// The package is pure data plumbing: it knows nothing about HTTP. It turns
// the tokens a route declares ("auth", "web", "throttle:60,1m") into a
// [Spec] list that a factory can instantiate and a pipeline can execute.
//
// # Registry and Table
//
// A [Registry] collects aliases, groups, the priority list and the set of
// concrete identifiers during boot. [Registry.Build] validates it and
// returns an immutable [Table]:
//
//	reg := middleware.NewRegistry()
//	reg.Known("request_id", "recover", "session", "csrf", "auth")
//	reg.Alias("guard", "auth")
//	reg.Group("global", "request_id", "recover")
//	reg.Group("web", "session", "csrf")
//	reg.Priority("session", "csrf", "auth")
//
//	table, err := reg.Build()
//
// Build flattens every group (groups may contain aliases, identifiers with
// arguments and other groups), rejects cycles with [GroupCycleError] and
// unresolvable members with [UnknownMiddlewareError]. A Table is safe for
// concurrent use.
//
// # Token Syntax
//
// A token is an identifier, alias or group name, optionally followed by a
// colon and a comma-separated argument list:
//
//	"throttle"          // no arguments
//	"throttle:60,1m"    // Args{"60", "1m"}
//
// Arguments are only allowed on identifiers and aliases, not on groups.
//
// # Resolving a Route
//
// [Table.Resolve] expands a route's references and orders them:
//
//	chain, err := table.Resolve([]middleware.Ref{
//	    middleware.Token("web"),
//	    middleware.Token("guard"),
//	})
//	// chain: request_id, recover, session, csrf, auth
//
// Members of the global group always come first, in declaration order.
// The remaining specs are deduplicated by name and arguments and then
// reordered with [Sort] according to the priority list. Specs that are not
// in the priority list keep their relative position.
//
// Inline middleware (callables attached directly to a route) travel through
// the same chain as [Spec] values with a non-nil Inline field. They are never
// deduplicated and never reordered by priority.
package middleware
