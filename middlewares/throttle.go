package middlewares

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/ratelimit"
)

// Throttle returns middleware allowing at most limit requests per client IP
// in each window. Requests over the limit short-circuit with 429 and a
// Retry-After header.
//
// Counters are kept per route unless a scope is given: routes sharing a
// scope share the counter.
//
//	.Middleware("throttle:60,1m")        // per route
//	.Middleware("throttle:5,1m,login")   // shared by every "login" route
func Throttle(store ratelimit.Store, limit int64, window time.Duration, scope ...string) internal.Middleware {
	limiter := ratelimit.NewLimiter(store, limit, window)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			key := throttleKey(c, scope)
			res, err := limiter.Allow(c, key)
			if err != nil {
				return err
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))

			if !res.Allowed {
				retry := max(int64(res.Reset.Round(time.Second)/time.Second), 1)
				h.Set("Retry-After", strconv.FormatInt(retry, 10))
				c.LogWarn("rate limit exceeded", "key", key)
				return internal.ErrTooManyRequests("Too Many Requests")
			}
			return next(c)
		}
	}
}

func throttleKey(c internal.Context, scope []string) string {
	prefix := strings.Join(scope, ",")
	if prefix == "" {
		prefix = c.Request().Method + " " + c.RoutePattern()
	}
	return prefix + "|" + clientIP(c)
}

func clientIP(c internal.Context) string {
	addr := c.Request().RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
