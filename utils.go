package wilt

import "sort"

func clamp[V float32 | float64 | int](value, min, max V) V {
	if value < min {
		return min
	} else if value > max {
		return max
	}
	return value
}

// Set represents a Set of elements.
type Set[E comparable] map[E]struct{}

// newSet creates a new set.
func newSet[E comparable]() Set[E] {
	return Set[E]{}
}

// Add adds the given element to a set.
func (s Set[E]) Add(element E) {
	s[element] = struct{}{}
}

// Contains returns if the set contains the given element.
func (s Set[E]) Contains(element E) bool {
	_, ok := s[element]
	return ok
}

// Clear clears the set.
func (s Set[E]) Clear() {
	for v := range s {
		delete(s, v)
	}
}

// sortedInts returns the set's contents in ascending order, so callers walking the set are deterministic.
func sortedInts(s Set[int], dst []int) []int {
	dst = dst[:0]
	for v := range s {
		dst = append(dst, v)
	}
	sort.Ints(dst)
	return dst
}
