// Package logger builds the slog loggers used by anvil applications.
//
// [NewWithOptions] picks the output format (JSON or text), level and writer;
// [New] is the JSON-to-stdout shorthand. Both accept [ContextExtractor]s that
// copy request-scoped values from the context into every record:
//
//	log := logger.NewWithOptions(logger.Options{
//		Format: logger.FormatText,
//		Level:  logger.ParseLevel("debug"),
//	}, middlewares.RequestIDExtractor())
//
//	log.InfoContext(c, "post created", "id", 7)
//	// level=INFO msg="post created" id=7 request_id=3f2c...
//
// [FromContext] covers the common case of a value stored under a context key.
//
// [NewWithSentry] additionally forwards records at or above
// SentryConfig.MinLevel to Sentry. Without a DSN it returns the local logger
// only, so the same wiring works in development.
//
// [NewNope] discards everything and is the App default.
package logger
