package middlewares

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/container"
)

// Metrics returns middleware recording request count and latency by route
// pattern, method and status:
//
//	anvil_http_requests_total{pattern,method,status}
//	anvil_http_request_duration_seconds{pattern,method,status}
//
// Collectors already registered on reg are reused, so the constructor can
// run once per route.
func Metrics(reg prometheus.Registerer) (internal.Middleware, error) {
	labels := []string{"pattern", "method", "status"}

	requests, err := registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anvil",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Number of handled HTTP requests.",
	}, labels))
	if err != nil {
		return nil, err
	}

	duration, err := registerOrReuse(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "anvil",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, labels))
	if err != nil {
		return nil, err
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)

			pattern := c.RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			status := strconv.Itoa(responseStatus(c, err))
			method := c.Request().Method

			requests.WithLabelValues(pattern, method, status).Inc()
			duration.WithLabelValues(pattern, method, status).Observe(time.Since(start).Seconds())
			return err
		}
	}, nil
}

// responseStatus is the status the client will see: the written status, or
// the one the error handler will derive from err.
func responseStatus(c internal.Context, err error) int {
	if err == nil || c.Written() {
		return c.ResponseWriter().Status()
	}
	if herr := internal.AsHTTPError(err); herr != nil {
		return herr.StatusCode()
	}
	return 500
}

func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func metricsFromContainer(c *container.Container) (internal.Middleware, error) {
	reg := prometheus.DefaultRegisterer
	if c.Has(container.Key[prometheus.Registerer]()) {
		r, err := container.Resolve[prometheus.Registerer](c)
		if err != nil {
			return nil, err
		}
		reg = r
	}
	return Metrics(reg)
}
