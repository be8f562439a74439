package middleware

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// DefaultGlobalGroup is the group applied to every route unless the route
// opts out of all middleware.
const DefaultGlobalGroup = "global"

// Registry collects middleware configuration during boot.
// It is not safe for concurrent use; call Build once configuration is
// complete and share the resulting Table instead.
type Registry struct {
	aliases  map[string]string
	groups   map[string][]string
	known    map[string]struct{}
	global   string
	priority []string

	// Members pushed to whichever group ends up global.
	pushed []string
}

// NewRegistry creates an empty registry using DefaultGlobalGroup.
func NewRegistry() *Registry {
	return &Registry{
		aliases: make(map[string]string),
		groups:  make(map[string][]string),
		known:   make(map[string]struct{}),
		global:  DefaultGlobalGroup,
	}
}

// Known declares concrete middleware identifiers. Only known identifiers,
// aliases and groups resolve; anything else is an UnknownMiddlewareError.
func (r *Registry) Known(identifiers ...string) *Registry {
	for _, id := range identifiers {
		if id != "" {
			r.known[id] = struct{}{}
		}
	}
	return r
}

// Alias maps a short name to a concrete identifier.
// Registering the same alias twice overwrites the previous target.
func (r *Registry) Alias(alias, identifier string) *Registry {
	r.aliases[alias] = identifier
	return r
}

// Group defines a named, ordered collection of tokens. Members may be
// identifiers (with arguments), aliases or other group names.
// Defining an existing group replaces its members.
func (r *Registry) Group(name string, members ...string) *Registry {
	r.groups[name] = slices.Clone(members)
	return r
}

// PushToGroup appends members to a group, creating it if needed.
// Members already present in the group are skipped.
func (r *Registry) PushToGroup(name string, members ...string) *Registry {
	group := r.groups[name]
	for _, m := range members {
		if !slices.Contains(group, m) {
			group = append(group, m)
		}
	}
	r.groups[name] = group
	return r
}

// PushToGlobal appends members to the global group. The members are
// applied in Build, so they follow a later GlobalGroup rename and survive
// a later redefinition of the group.
func (r *Registry) PushToGlobal(members ...string) *Registry {
	for _, m := range members {
		if !slices.Contains(r.pushed, m) {
			r.pushed = append(r.pushed, m)
		}
	}
	return r
}

// Priority sets the priority list. Entries may be identifiers or aliases.
func (r *Registry) Priority(identifiers ...string) *Registry {
	r.priority = slices.Clone(identifiers)
	return r
}

// GlobalGroup changes the name of the group applied to every route.
func (r *Registry) GlobalGroup(name string) *Registry {
	if name != "" {
		r.global = name
	}
	return r
}

// Build validates the configuration and returns an immutable Table.
//
// Every alias must point to a known identifier, every group member must
// resolve, and groups must not reference themselves. All problems found are
// returned joined together.
func (r *Registry) Build() (*Table, error) {
	var errs []error

	aliases := make(map[string]string, len(r.aliases))
	for _, alias := range slices.Sorted(maps.Keys(r.aliases)) {
		id := r.aliases[alias]
		if _, ok := r.known[id]; !ok {
			errs = append(errs, fmt.Errorf("alias [%s]: %w", alias, &UnknownMiddlewareError{Token: id}))
			continue
		}
		aliases[alias] = id
	}

	groups := maps.Clone(r.groups)
	if len(r.pushed) > 0 {
		global := slices.Clone(groups[r.global])
		for _, m := range r.pushed {
			if !slices.Contains(global, m) {
				global = append(global, m)
			}
		}
		groups[r.global] = global
	}

	f := &flattener{
		registry: r,
		groups:   groups,
		aliases:  aliases,
		done:     make(map[string][]Spec, len(groups)),
	}
	for _, name := range slices.Sorted(maps.Keys(groups)) {
		if _, err := f.flatten(name, nil); err != nil {
			errs = append(errs, err)
		}
	}

	priority := make([]string, 0, len(r.priority))
	rank := make(map[string]int, len(r.priority))
	for _, entry := range r.priority {
		id := entry
		if target, ok := aliases[entry]; ok {
			id = target
		}
		if _, ok := r.known[id]; !ok {
			errs = append(errs, fmt.Errorf("priority: %w", &UnknownMiddlewareError{Token: entry}))
			continue
		}
		if _, dup := rank[id]; dup {
			continue
		}
		rank[id] = len(priority)
		priority = append(priority, id)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Table{
		aliases:    aliases,
		groups:     f.done,
		known:      maps.Clone(r.known),
		priority:   priority,
		rank:       rank,
		global:     f.done[r.global],
		globalName: r.global,
	}, nil
}

// flattener expands groups depth-first, memoizing finished groups.
type flattener struct {
	registry *Registry
	groups   map[string][]string
	aliases  map[string]string
	done     map[string][]Spec
}

func (f *flattener) flatten(name string, stack []string) ([]Spec, error) {
	if specs, ok := f.done[name]; ok {
		return specs, nil
	}
	if i := slices.Index(stack, name); i >= 0 {
		path := append(slices.Clone(stack[i:]), name)
		return nil, &GroupCycleError{Path: path}
	}
	stack = append(stack, name)

	var specs []Spec
	for _, member := range f.groups[name] {
		id, args := ParseToken(member)

		if _, isGroup := f.groups[id]; isGroup {
			if len(args) > 0 {
				return nil, fmt.Errorf("%w: [%s] in group [%s]", ErrGroupArguments, member, name)
			}
			nested, err := f.flatten(id, stack)
			if err != nil {
				return nil, err
			}
			specs = append(specs, nested...)
			continue
		}

		if target, ok := f.aliases[id]; ok {
			id = target
		} else if _, ok := f.registry.known[id]; !ok {
			return nil, &UnknownMiddlewareError{Token: id, Group: name}
		}
		specs = append(specs, Spec{Name: id, Args: args})
	}

	f.done[name] = specs
	return specs, nil
}
