// Package redis opens go-redis clients from configuration.
//
// Open validates the URL (redis:// or rediss://), applies pool and timeout
// settings from [Config] and pings the server, retrying a few times before
// giving up with [ErrConnectionFailed]. [Healthcheck] and [Shutdown] adapt
// the client to readiness checks and shutdown hooks:
//
//	client, err := redis.Open(ctx, cfg.Redis, redis.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//
//	app := anvil.MustNew(
//	    anvil.WithHealthChecks(anvil.WithReadinessCheck("redis", redis.Healthcheck(client))),
//	)
//	app.Run(anvil.ShutdownHook(redis.Shutdown(client)))
package redis
