package target

import "sort"

// OutputSet is a duplicate-free set of paths relative to the output directory.
type OutputSet map[string]struct{}

// NewOutputSet returns a set holding paths.
func NewOutputSet(paths ...string) OutputSet {
	s := make(OutputSet, len(paths))
	s.Add(paths...)
	return s
}

// Add inserts paths into the set.
func (s OutputSet) Add(paths ...string) {
	for _, p := range paths {
		s[p] = struct{}{}
	}
}

// Has reports whether path is in the set.
func (s OutputSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Union inserts every member of other.
func (s OutputSet) Union(other OutputSet) {
	for p := range other {
		s[p] = struct{}{}
	}
}

// Contains reports whether every member of other is in s.
func (s OutputSet) Contains(other OutputSet) bool {
	for p := range other {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order.
func (s OutputSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
