package middleware

import "slices"

// Sort reorders specs according to priority and returns a new slice.
//
// Only specs whose names both appear in priority are ordered relative to
// each other. When a spec outranks the nearest earlier prioritized spec, it
// is moved directly in front of that spec; specs outside the priority list
// never change their relative order. The input is not modified.
//
// Example: priority [Foo, Bar, Baz] turns [FooBar, Bar, Baz, Foo] into
// [FooBar, Foo, Bar, Baz].
func Sort(specs []Spec, priority []string) []Spec {
	out := slices.Clone(specs)
	if len(priority) == 0 || len(out) < 2 {
		return out
	}

	rank := make(map[string]int, len(priority))
	for i, name := range priority {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}

	for moveOutranking(out, rank) {
	}
	return out
}

// moveOutranking performs one move and reports whether anything changed.
// Each move removes at least one inversion among prioritized specs, so
// repeated calls terminate.
func moveOutranking(specs []Spec, rank map[string]int) bool {
	lastIndex, lastRank := -1, -1

	for i, s := range specs {
		if s.IsInline() {
			continue
		}
		r, ok := rank[s.Name]
		if !ok {
			continue
		}

		if lastIndex >= 0 && r < lastRank {
			moved := specs[i]
			copy(specs[lastIndex+1:i+1], specs[lastIndex:i])
			specs[lastIndex] = moved
			return true
		}
		lastIndex, lastRank = i, r
	}
	return false
}

// Order partitions specs into members of global and the rest, keeps global
// members first in their original relative order, and sorts the rest by
// priority. Membership is decided by name and arguments.
func Order(specs []Spec, priority []string, global []Spec) []Spec {
	members := make(map[string]struct{}, len(global))
	for _, g := range global {
		members[g.Key()] = struct{}{}
	}

	head := make([]Spec, 0, len(global))
	rest := make([]Spec, 0, len(specs))
	for _, s := range specs {
		if _, ok := members[s.Key()]; ok && !s.IsInline() {
			head = append(head, s)
			continue
		}
		rest = append(rest, s)
	}
	return append(head, Sort(rest, priority)...)
}
