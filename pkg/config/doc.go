// Package config loads application configuration with koanf.
//
// Sources are applied in order, later ones overriding earlier ones:
//
//  1. built-in defaults;
//  2. a YAML file (config.yaml by default, optional);
//  3. environment variables with the ANVIL_ prefix, where a double
//     underscore separates nesting levels. A .env file, when present, is
//     loaded into the environment first and never overrides variables that
//     are already set.
//
// ANVIL_SERVER__ADDRESS=:9000 sets server.address and
// ANVIL_MIDDLEWARE__PRIORITY=request_id,auth sets middleware.priority.
//
//	cfg, err := config.Load(config.WithFile("config.yaml"))
//	if err != nil {
//	    return err
//	}
//	app, err := anvil.New(anvil.WithMiddlewareConfig(cfg.Middleware))
package config
