package middlewares

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/anvil/internal"
)

// TrailingSlash returns middleware that enforces one URL style with a 301
// redirect: with trailing set, "/posts" redirects to "/posts/"; without it,
// "/posts/" redirects to "/posts". The root path is never redirected and the
// query string is preserved.
//
// Placed in the global group it also runs for unmatched paths, so the
// redirect reaches the route that does exist.
func TrailingSlash(trailing bool) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			path := c.Request().URL.Path
			if path == "/" || path == "" || strings.HasSuffix(path, "/") == trailing {
				return next(c)
			}

			target := strings.TrimRight(path, "/")
			if trailing {
				target = path + "/"
			}
			if target == "" {
				target = "/"
			}
			if q := c.Request().URL.RawQuery; q != "" {
				target += "?" + q
			}
			return c.Redirect(http.StatusMovedPermanently, target)
		}
	}
}
