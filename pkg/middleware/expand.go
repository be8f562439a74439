package middleware

import (
	"errors"
	"fmt"
)

// Expansion is the deduplicated, unsorted result of expanding a route's
// references. Global holds the global group members; Route holds everything
// the route itself declared, in declaration order.
type Expansion struct {
	Global []Spec
	Route  []Spec
}

// Len returns the total number of specs.
func (e Expansion) Len() int {
	return len(e.Global) + len(e.Route)
}

// Specs returns Global followed by Route.
func (e Expansion) Specs() []Spec {
	out := make([]Spec, 0, e.Len())
	out = append(out, e.Global...)
	return append(out, e.Route...)
}

// ExpandOption configures a single expansion.
type ExpandOption func(*expandOptions)

type expandOptions struct {
	exclude []string
	skipAll bool
}

// SkipAll yields an empty chain regardless of route or global declarations.
func SkipAll() ExpandOption {
	return func(o *expandOptions) {
		o.skipAll = true
	}
}

// Exclude removes middleware from the chain by identifier, alias or group
// name. Every argument variant of an excluded identifier is removed.
// Tokens that name no known identifier, alias or group fail the expansion.
func Exclude(tokens ...string) ExpandOption {
	return func(o *expandOptions) {
		o.exclude = append(o.exclude, tokens...)
	}
}

// Expand resolves refs through aliases and groups into a flat list.
//
// Group references expand in place. A named spec whose name and arguments
// match an earlier spec is dropped; the same name with different arguments
// is kept. Global group members are emitted first and also take part in
// deduplication. All unresolvable tokens, exclusions included, are
// reported together.
func (t *Table) Expand(refs []Ref, opts ...ExpandOption) (Expansion, error) {
	o := &expandOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.skipAll {
		return Expansion{}, nil
	}

	var errs []error
	excluded, err := t.excludedNames(o.exclude)
	if err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]struct{})
	keep := func(s Spec) bool {
		if s.IsInline() {
			return true
		}
		if _, ok := excluded[s.Name]; ok {
			return false
		}
		k := s.Key()
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = struct{}{}
		return true
	}

	var exp Expansion
	for _, s := range t.global {
		if keep(s) {
			exp.Global = append(exp.Global, cloneSpecs([]Spec{s})...)
		}
	}

	for _, ref := range refs {
		if ref.IsInline() {
			exp.Route = append(exp.Route, Spec{Inline: ref.inline, Name: ref.label})
			continue
		}

		specs, err := t.Lookup(ref.token)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, s := range specs {
			if keep(s) {
				exp.Route = append(exp.Route, s)
			}
		}
	}

	if len(errs) > 0 {
		return Expansion{}, errors.Join(errs...)
	}
	return exp, nil
}

// excludedNames resolves exclusion tokens to concrete identifiers.
func (t *Table) excludedNames(tokens []string) (map[string]struct{}, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	var errs []error
	names := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		name, _ := ParseToken(token)
		if members, ok := t.groups[name]; ok {
			for _, m := range members {
				names[m.Name] = struct{}{}
			}
			continue
		}
		if id, ok := t.aliases[name]; ok {
			name = id
		} else if _, ok := t.known[name]; !ok {
			errs = append(errs, fmt.Errorf("exclude: %w", &UnknownMiddlewareError{Token: name}))
			continue
		}
		names[name] = struct{}{}
	}
	return names, errors.Join(errs...)
}
