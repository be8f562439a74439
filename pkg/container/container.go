package container

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/dig"
)

// FactoryFunc builds a singleton value on first use.
type FactoryFunc func(c *Container) (any, error)

type entry struct {
	factory FactoryFunc
	value   any
	err     error
	once    sync.Once
}

func resolved(value any, err error) *entry {
	e := &entry{value: value, err: err}
	e.once.Do(func() {})
	return e
}

func (e *entry) resolve(c *Container) (any, error) {
	e.once.Do(func() {
		if e.factory != nil {
			e.value, e.err = e.factory(c)
		}
	})
	return e.value, e.err
}

// Container holds application services. Entries registered by identifier
// live in a map; entries registered by type live in a dig graph and are
// copied into the map when the container is locked.
type Container struct {
	entries map[string]*entry
	typed   map[string]reflect.Type
	graph   *dig.Container
	mu      sync.RWMutex
	locked  bool
}

// New creates an empty, unlocked container.
func New() *Container {
	return &Container{
		entries: make(map[string]*entry),
		typed:   make(map[string]reflect.Type),
		graph:   dig.New(dig.RecoverFromPanics()),
	}
}

// Instance registers a ready value under id.
// Returns ErrLocked after Lock and ErrInvalidEntry for an empty id or nil value.
func (c *Container) Instance(id string, value any) error {
	if id == "" || value == nil {
		return fmt.Errorf("%w: %q", ErrInvalidEntry, id)
	}
	return c.set(id, resolved(value, nil))
}

// Singleton registers a factory that runs once, on the first Get.
func (c *Container) Singleton(id string, fn FactoryFunc) error {
	if id == "" || fn == nil {
		return fmt.Errorf("%w: %q", ErrInvalidEntry, id)
	}
	return c.set(id, &entry{factory: fn})
}

func (c *Container) set(id string, e *entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locked {
		return fmt.Errorf("%w: cannot register %q", ErrLocked, id)
	}
	c.entries[id] = e
	return nil
}

// provide adds a constructor for type t to the graph.
func (c *Container) provide(t reflect.Type, ctor any) error {
	key := KeyOf(t)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locked {
		return fmt.Errorf("%w: cannot register %q", ErrLocked, key)
	}
	if _, dup := c.typed[key]; dup {
		return fmt.Errorf("%w: %q already provided", ErrInvalidEntry, key)
	}
	if err := c.graph.Provide(ctor); err != nil {
		return fmt.Errorf("container: provide %q: %w", key, err)
	}
	c.typed[key] = t
	return nil
}

// invoke asks the graph for a value of type t.
func (c *Container) invoke(t reflect.Type) (any, error) {
	var out reflect.Value
	fn := reflect.MakeFunc(reflect.FuncOf([]reflect.Type{t}, nil, false), func(args []reflect.Value) []reflect.Value {
		out = args[0]
		return nil
	})
	if err := c.graph.Invoke(fn.Interface()); err != nil {
		return nil, dig.RootCause(err)
	}
	return out.Interface(), nil
}

// Get returns the entry registered under id, building it if it is a
// singleton that has not been resolved yet. Identifiers registered by
// type ([Key]) resolve through the graph.
func (c *Container) Get(id string) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[id]
	t, isTyped := c.typed[id]
	c.mu.RUnlock()

	var (
		v   any
		err error
	)
	switch {
	case ok:
		v, err = e.resolve(c)
	case isTyped:
		v, err = c.invoke(t)
	default:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("container: resolve %q: %w", id, err)
	}
	return v, nil
}

// Has reports whether an entry is registered under id.
func (c *Container) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.entries[id]; ok {
		return true
	}
	_, ok := c.typed[id]
	return ok
}

// Keys returns all registered identifiers in sorted order.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := slices.Collect(maps.Keys(c.entries))
	for k := range c.typed {
		if _, ok := c.entries[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Lock freezes the container. Entries registered by type are built here,
// so every later read is served from the map; a build error is returned by
// Get for that entry. It is safe to call more than once.
func (c *Container) Lock() {
	c.mu.RLock()
	if c.locked {
		c.mu.RUnlock()
		return
	}
	pending := make(map[string]reflect.Type, len(c.typed))
	for key, t := range c.typed {
		if _, shadowed := c.entries[key]; !shadowed {
			pending[key] = t
		}
	}
	c.mu.RUnlock()

	built := make(map[string]*entry, len(pending))
	for _, key := range slices.Sorted(maps.Keys(pending)) {
		built[key] = resolved(c.invoke(pending[key]))
	}

	c.mu.Lock()
	for key, e := range built {
		if _, ok := c.entries[key]; !ok {
			c.entries[key] = e
		}
	}
	c.locked = true
	c.mu.Unlock()
}

// Locked reports whether Lock has been called.
func (c *Container) Locked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locked
}

// KeyOf returns the identifier used for entries registered by type.
// Named types use their full package path, e.g. "*log/slog.Logger".
func KeyOf(t reflect.Type) string {
	if t == nil {
		return ""
	}
	switch {
	case t.Name() != "" && t.PkgPath() != "":
		return t.PkgPath() + "." + t.Name()
	case t.Kind() == reflect.Pointer:
		return "*" + KeyOf(t.Elem())
	default:
		return t.String()
	}
}

// Key returns the identifier for type T.
func Key[T any]() string {
	return KeyOf(reflect.TypeFor[T]())
}

// Provide registers value as the provider of type T.
func Provide[T any](c *Container, value T) error {
	if any(value) == nil {
		return fmt.Errorf("%w: nil value for %q", ErrInvalidEntry, Key[T]())
	}
	return c.provide(reflect.TypeFor[T](), func() T { return value })
}

// ProvideFunc registers a constructor for type T. It runs on the first
// resolution or when the container is locked; a successful result is kept.
func ProvideFunc[T any](c *Container, fn func(c *Container) (T, error)) error {
	if fn == nil {
		return fmt.Errorf("%w: nil factory for %q", ErrInvalidEntry, Key[T]())
	}
	return c.provide(reflect.TypeFor[T](), func() (T, error) { return fn(c) })
}

// Resolve returns the entry registered for type T.
func Resolve[T any](c *Container) (T, error) {
	return Get[T](c, Key[T]())
}

// Get returns the entry registered under id converted to T.
func Get[T any](c *Container, id string) (T, error) {
	var zero T

	v, err := c.Get(id)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, fmt.Errorf("%w: %q resolved to nil", ErrNotFound, id)
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T", ErrTypeMismatch, id, v)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
// Use it only during boot, where a missing service is a programming error.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}
