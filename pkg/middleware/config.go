package middleware

import (
	"maps"
	"slices"
)

// Config is the declarative form of a registry, as loaded from a
// configuration file.
//
//	middleware:
//	  global: web
//	  aliases:
//	    auth: authenticate
//	  groups:
//	    web: [request_id, recover]
//	  priority: [request_id, recover, authenticate]
type Config struct {
	Aliases  map[string]string   `koanf:"aliases"`
	Groups   map[string][]string `koanf:"groups"`
	Global   string              `koanf:"global"`
	Priority []string            `koanf:"priority"`
}

// Apply copies the configuration into r. Aliases and groups are applied in
// name order so the result does not depend on map iteration.
func (c Config) Apply(r *Registry) *Registry {
	for _, alias := range slices.Sorted(maps.Keys(c.Aliases)) {
		r.Alias(alias, c.Aliases[alias])
	}
	for _, name := range slices.Sorted(maps.Keys(c.Groups)) {
		r.Group(name, c.Groups[name]...)
	}
	if len(c.Priority) > 0 {
		r.Priority(c.Priority...)
	}
	if c.Global != "" {
		r.GlobalGroup(c.Global)
	}
	return r
}
