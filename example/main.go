package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/anvil"
	"github.com/dmitrymomot/anvil/middlewares"
	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/container"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/ratelimit"
	"github.com/dmitrymomot/anvil/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(config.WithFile(getEnv("ANVIL_CONFIG", "config.yaml")))
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Log.Options(), cfg.Log.Sentry, middlewares.RequestIDExtractor())

	// Redis is optional: without it limits are kept per process.
	var (
		store ratelimit.Store = ratelimit.NewMemoryStore()
		rdb   goredis.UniversalClient
	)
	if cfg.Redis.URL != "" {
		rdb, err = redis.Open(ctx, cfg.Redis, redis.WithLogger(log))
		if err != nil {
			return err
		}
		store = ratelimit.NewRedisStore(rdb, "anvil:throttle")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	tp, err := newTracerProvider()
	if err != nil {
		return err
	}
	otel.SetTracerProvider(tp)

	secret := os.Getenv("ANVIL_JWT_SECRET")
	if secret == "" {
		log.Warn("ANVIL_JWT_SECRET is empty, protected routes will reject every token")
	}

	checks := []anvil.HealthOption{}
	if rdb != nil {
		checks = append(checks, anvil.WithReadinessCheck("redis", redis.Healthcheck(rdb)))
	}

	app, err := anvil.New(
		anvil.WithCustomLogger(log),
		anvil.WithMiddlewareSet(middlewares.Register),
		anvil.WithMiddlewareConfig(cfg.Middleware),
		anvil.WithProvider(func(c *anvil.Container) error {
			return errors.Join(
				container.Provide[ratelimit.Store](c, store),
				container.Provide[prometheus.Registerer](c, reg),
				container.Provide[trace.TracerProvider](c, tp),
				container.Provide(c, middlewares.JWTKey(secret)),
			)
		}),
		anvil.WithService("posts", newPostsController()),
		anvil.WithHandlers(&routes{metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}),
		anvil.WithHealthChecks(checks...),
	)
	if err != nil {
		return err
	}

	opts := []anvil.RunOption{
		anvil.Address(cfg.Server.Address),
		anvil.ShutdownTimeout(cfg.Server.ShutdownTimeout),
		anvil.Logger(log),
		anvil.ShutdownHook(tp.Shutdown),
	}
	if rdb != nil {
		opts = append(opts,
			anvil.StartupHook(func(ctx context.Context) error {
				return health.Run(ctx, health.Checks{"redis": redis.Healthcheck(rdb)}).Err()
			}),
			anvil.ShutdownHook(redis.Shutdown(rdb)),
		)
	}
	return app.Run(opts...)
}

func newTracerProvider() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", "anvil-example")),
	)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
