// Package group buckets records by a string label.
package group

import "sort"

// Groups maps a label to the set of records carrying it. Records are
// compared with ==, so pointer records group by identity.
type Groups[T comparable] map[string]map[T]struct{}

// By accumulates items into groups keyed by label(item) in a single pass.
// Items whose label is nil belong to no group.
func By[T comparable](items []T, label func(T) *string) Groups[T] {
	groups := make(Groups[T])
	for _, item := range items {
		l := label(item)
		if l == nil {
			continue
		}
		set, ok := groups[*l]
		if !ok {
			set = make(map[T]struct{})
			groups[*l] = set
		}
		set[item] = struct{}{}
	}
	return groups
}

// Get returns the members of the labelled group in no particular order. ok
// is false when no group has the label, which callers must tell apart from
// an existing empty group.
func (g Groups[T]) Get(label string) (members []T, ok bool) {
	set, ok := g[label]
	if !ok {
		return nil, false
	}
	members = make([]T, 0, len(set))
	for item := range set {
		members = append(members, item)
	}
	return members, true
}

// Size returns the cardinality of the labelled group.
func (g Groups[T]) Size(label string) (int, bool) {
	set, ok := g[label]
	return len(set), ok
}

// Labels returns the group labels in ascending order.
func (g Groups[T]) Labels() []string {
	out := make([]string, 0, len(g))
	for l := range g {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Sizes returns every group's cardinality.
func (g Groups[T]) Sizes() map[string]int {
	out := make(map[string]int, len(g))
	for l, set := range g {
		out[l] = len(set)
	}
	return out
}
