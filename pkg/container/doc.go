// Package container provides a small dependency injection container.
//
// Entries are registered under string identifiers, either as ready values
// ([Container.Instance]) or as lazily built singletons ([Container.Singleton]).
// Typed helpers register and resolve values by their Go type; those entries
// are kept in a go.uber.org/dig graph and are also reachable by [Key]:
//
//	c := container.New()
//	_ = container.Provide(c, logger)                     // key: "*log/slog.Logger"
//	_ = container.ProvideFunc(c, func(c *container.Container) (ratelimit.Store, error) {
//	    return ratelimit.NewMemoryStore(), nil
//	})
//	c.Lock()
//
//	log, err := container.Resolve[*slog.Logger](c)
//
// # Locking
//
// Registration happens at boot. [Container.Lock] builds every typed entry
// and freezes the container; every write afterwards returns [ErrLocked].
// After Lock all reads are safe for concurrent use and lazy singletons are
// built exactly once. Before Lock, typed entries are resolved straight from
// the graph and belong to the goroutine doing the registration.
package container
