package middleware

import (
	"fmt"
	"slices"
)

// Table is the validated, immutable middleware configuration produced by
// Registry.Build. All methods are safe for concurrent use.
type Table struct {
	aliases    map[string]string
	groups     map[string][]Spec
	known      map[string]struct{}
	rank       map[string]int
	globalName string
	priority   []string
	global     []Spec
}

// Lookup resolves a single token. A group yields its flattened members in
// declaration order; an alias or identifier yields one spec carrying the
// token's arguments.
func (t *Table) Lookup(token string) ([]Spec, error) {
	name, args := ParseToken(token)

	if members, ok := t.groups[name]; ok {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: [%s]", ErrGroupArguments, token)
		}
		return cloneSpecs(members), nil
	}

	if id, ok := t.aliases[name]; ok {
		return []Spec{{Name: id, Args: args}}, nil
	}

	if _, ok := t.known[name]; ok {
		return []Spec{{Name: name, Args: args}}, nil
	}

	return nil, &UnknownMiddlewareError{Token: name}
}

// Priority returns the priority list with aliases resolved.
func (t *Table) Priority() []string {
	return slices.Clone(t.priority)
}

// Global returns the flattened members of the global group.
func (t *Table) Global() []Spec {
	return cloneSpecs(t.global)
}

// GlobalGroup returns the name of the global group.
func (t *Table) GlobalGroup() string {
	return t.globalName
}

// Group returns the flattened members of a group.
func (t *Table) Group(name string) ([]Spec, bool) {
	members, ok := t.groups[name]
	if !ok {
		return nil, false
	}
	return cloneSpecs(members), true
}

// IsGroup reports whether name is a defined group.
func (t *Table) IsGroup(name string) bool {
	_, ok := t.groups[name]
	return ok
}

// Resolve expands refs and orders the result: global members first, then
// the route's own middleware sorted by priority.
func (t *Table) Resolve(refs []Ref, opts ...ExpandOption) ([]Spec, error) {
	exp, err := t.Expand(refs, opts...)
	if err != nil {
		return nil, err
	}

	return Order(exp.Specs(), t.priority, exp.Global), nil
}

func cloneSpecs(specs []Spec) []Spec {
	if specs == nil {
		return nil
	}
	out := make([]Spec, len(specs))
	for i, s := range specs {
		out[i] = Spec{Inline: s.Inline, Name: s.Name, Args: slices.Clone(s.Args)}
	}
	return out
}
