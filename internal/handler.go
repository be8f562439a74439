package internal

// Handler declares routes on a router.
//
// Example:
//
//	type PostsHandler struct {
//	    repo *repository.Queries
//	}
//
//	func (h *PostsHandler) Routes(r anvil.Router) {
//	    r.GET("/posts", h.list).Middleware("web")
//	    r.POST("/posts", h.create).Middleware("web", "auth")
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers and pipeline terminals.
// Returning a non-nil error hands the error to the App's ErrorHandler.
type HandlerFunc func(c Context) error

// MiddlewareHandler is a unit of the middleware pipeline.
// Handle either calls next to continue the chain or returns without calling
// it to short-circuit. Work done after next returns runs on the way back.
type MiddlewareHandler interface {
	Handle(c Context, next HandlerFunc) error
}

// MiddlewareFunc adapts a plain function to MiddlewareHandler.
//
// Example:
//
//	auth := anvil.MiddlewareFunc(func(c anvil.Context, next anvil.HandlerFunc) error {
//	    if c.Header("Authorization") == "" {
//	        return c.Error(http.StatusUnauthorized, "unauthorized")
//	    }
//	    return next(c)
//	})
type MiddlewareFunc func(c Context, next HandlerFunc) error

// Handle implements MiddlewareHandler.
func (f MiddlewareFunc) Handle(c Context, next HandlerFunc) error {
	return f(c, next)
}

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// It is the decorator form of MiddlewareHandler and can be used anywhere a
// MiddlewareHandler is expected.
//
// Example:
//
//	func Auth(next anvil.HandlerFunc) anvil.HandlerFunc {
//	    return func(c anvil.Context) error {
//	        if !isAuthenticated(c) {
//	            return c.Redirect(302, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// Handle implements MiddlewareHandler.
func (m Middleware) Handle(c Context, next HandlerFunc) error {
	return m(next)(c)
}

// ErrorHandler handles errors returned from handlers and middleware.
type ErrorHandler func(Context, error) error
