package middlewares

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/container"
)

const tracerName = "github.com/dmitrymomot/anvil/middlewares"

// Tracing returns middleware starting a server span per request. Incoming
// trace context is extracted with the global propagator and the span's
// context replaces the request context for the rest of the chain.
func Tracing(tp trace.TracerProvider) internal.Middleware {
	tracer := tp.Tracer(tracerName)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			name := r.Method
			if p := c.RoutePattern(); p != "" {
				name += " " + p
			}

			ctx, span := tracer.Start(ctx, name,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
					attribute.String("http.route", c.RoutePattern()),
				),
			)
			defer span.End()

			c.SetRequest(r.WithContext(ctx))

			err := next(c)

			status := responseStatus(c, err)
			span.SetAttributes(attribute.Int("http.response.status_code", status))
			if err != nil {
				span.RecordError(err)
			}
			if status >= 500 {
				span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
			}
			return err
		}
	}
}

func tracingFromContainer(c *container.Container) (internal.Middleware, error) {
	if !c.Has(container.Key[trace.TracerProvider]()) {
		return Tracing(otel.GetTracerProvider()), nil
	}
	tp, err := container.Resolve[trace.TracerProvider](c)
	if err != nil {
		return nil, err
	}
	return Tracing(tp), nil
}
