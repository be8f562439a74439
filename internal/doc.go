// Package internal provides the core types and implementation for anvil.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/anvil" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: boots the container, middleware table and routes; serves requests
//   - Router / Route: route declaration with middleware tokens
//   - Context: request/response access; also a context.Context
//   - Factory: builds middleware handlers from specs, injecting arguments
//     and container services into constructors
//   - Pipeline: index-based chain of middleware handlers around a terminal
//   - ControllerAction / MiddlewareProvider: controller routing and
//     controller-declared middleware with Only/Except filters
//
// # Request flow
//
// At boot every route's tokens (router, then route, then controller) are
// resolved by the middleware table into an ordered list of specs. On the
// first request to a route the factory instantiates those specs once and the
// resulting Pipeline is reused for every later request:
//
//	global group -> sorted route middleware -> handler
//
// Not-found and method-not-allowed responses run behind the global group
// only. Mounted handlers and health endpoints bypass the pipeline.
//
// # Error Handling
//
// Handlers and middleware return errors. The App's ErrorHandler turns them
// into responses; the default one writes HTTPError status codes and answers
// 500 for everything else, including middleware that failed to instantiate.
package internal
