package xref

import "sort"

// Set is a deduplicated collection of accession strings.
type Set map[string]struct{}

// NewSet returns a set holding items.
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Add inserts items into the set.
func (s Set) Add(items ...string) {
	for _, it := range items {
		s[it] = struct{}{}
	}
}

// AddAll unions other into s.
func (s Set) AddAll(other Set) {
	for it := range other {
		s[it] = struct{}{}
	}
}

// Has reports membership.
func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}

// Table maps an accession to the set of counterpart accessions.
type Table map[string]Set

// upsert returns the set stored under key, inserting an empty one on miss.
func (t Table) upsert(key string) Set {
	set, ok := t[key]
	if !ok {
		set = make(Set)
		t[key] = set
	}
	return set
}

// Get returns the set for key and whether the key exists.
func (t Table) Get(key string) (Set, bool) {
	set, ok := t[key]
	return set, ok
}

// Keys returns the table keys in ascending order.
func (t Table) Keys() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Merge unions every entry of src into dst.
func Merge(dst, src Table) {
	for k, vs := range src {
		dst.upsert(k).AddAll(vs)
	}
}

// Invert returns the inverse table: every value of t becomes a key pointing
// back at the keys that referenced it. Keys with empty sets contribute
// nothing to the result.
func Invert(t Table) Table {
	out := make(Table, len(t))
	for k, vs := range t {
		for v := range vs {
			out.upsert(v).Add(k)
		}
	}
	return out
}
