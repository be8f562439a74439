// Package health provides HTTP handlers for liveness and readiness probes.
//
// [LivenessHandler] always responds OK while the process runs.
// [ReadinessHandler] runs a set of named [Checks] in parallel, bounded by a
// timeout, and responds 503 when any of them fails.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "redis": redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second)))
//
// Responses are plain text ("OK" / "Service Unavailable") unless the client
// sends Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "redis": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
//
// A check that runs past the timeout reports an error wrapping
// [ErrCheckTimeout].
package health
