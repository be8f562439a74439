package middlewares

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/middleware"
)

// Middleware identifiers registered by Register.
const (
	NameRequestID     = "request_id"
	NameRecover       = "recover"
	NameTimeout       = "timeout"
	NameCORS          = "cors"
	NameTrailingSlash = "trailing_slash"
	NameThrottle      = "throttle"
	NameMetrics       = "metrics"
	NameTracing       = "tracing"
	NameAuthenticate  = "authenticate"
	NameCan           = "can"
)

// Register adds every middleware in this package to f.
//
// Tokens and their arguments:
//
//	request_id
//	recover
//	timeout[:duration]             timeout:5s
//	cors[:origin,...]              cors:https://app.example.com
//	trailing_slash[:bool]          trailing_slash:false strips the slash
//	throttle:limit,window[,scope]  throttle:60,1m  (needs a ratelimit.Store)
//	metrics                        (prometheus.Registerer from the container, optional)
//	tracing                        (trace.TracerProvider from the container, optional)
//	authenticate                   (needs a JWTKey)
//	can:role,...                   can:admin,editor
func Register(f *internal.Factory) error {
	return errors.Join(
		f.Register(NameRequestID, RequestID()),
		f.Register(NameRecover, Recover()),
		f.Register(NameTimeout, timeoutFromArgs),
		f.Register(NameCORS, corsFromArgs),
		f.Register(NameTrailingSlash, trailingSlashFromArgs),
		f.Register(NameThrottle, Throttle),
		f.Register(NameMetrics, metricsFromContainer),
		f.Register(NameTracing, tracingFromContainer),
		f.Register(NameAuthenticate, Authenticate),
		f.Register(NameCan, Can),
	)
}

func timeoutFromArgs(args middleware.Args) (internal.Middleware, error) {
	d := DefaultTimeout
	if len(args) > 0 {
		v, err := time.ParseDuration(args[0])
		if err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
		d = v
	}
	return Timeout(d), nil
}

func corsFromArgs(origins ...string) internal.Middleware {
	if len(origins) == 0 {
		return CORS()
	}
	return CORS(WithAllowOrigins(origins...))
}

func trailingSlashFromArgs(args middleware.Args) (internal.Middleware, error) {
	switch args.Get(0, "true") {
	case "true", "1", "add":
		return TrailingSlash(true), nil
	case "false", "0", "strip":
		return TrailingSlash(false), nil
	default:
		return nil, fmt.Errorf("trailing_slash: invalid argument %q", args[0])
	}
}
