package pbtree

import "sort"

// Value is the pluggable key projection and total order every element stored
// in a tree must supply. K is the logical key type a caller looks values up
// by; A is the stored element type itself, refined from K by whatever
// tiebreak Value chooses for CompareTo.
//
// CompareKey orders a stored element against a borrowed key the way
// cmp_keys does in the reference design: negative if the element sorts
// before key, zero on a match, positive if after.
//
// CompareTo must be a total order consistent with CompareKey on the key
// projection: for any a, b of type A, a.CompareTo(b) and
// a.CompareKey(b.Key()) must agree in sign whenever they're nonzero.
type Value[K any, A any] interface {
	Key() K
	CompareKey(key K) int
	CompareTo(other A) int
}

// Probe is the result of a binary search over a sorted slice: either an
// exact match at Index, or the insertion point a new element belongs at.
type Probe struct {
	Index int
	Found bool
}

// Found reports an exact match at index i.
func Found(i int) Probe { return Probe{Index: i, Found: true} }

// NotFound reports no match, with i the correct insertion index.
func NotFound(i int) Probe { return Probe{Index: i, Found: false} }

// SearchKey binary-searches a sorted slice of elements for key, using
// CompareKey. Mirrors the reference trait's search_key.
func SearchKey[K any, A Value[K, A]](values []A, key K) Probe {
	n := len(values)
	i := sort.Search(n, func(i int) bool {
		return values[i].CompareKey(key) >= 0
	})
	if i < n && values[i].CompareKey(key) == 0 {
		return Found(i)
	}
	return NotFound(i)
}

// SearchValue binary-searches a sorted slice of elements for a value's
// ordering position, using CompareTo. Mirrors the reference trait's
// search_value.
func SearchValue[K any, A Value[K, A]](values []A, value A) Probe {
	n := len(values)
	i := sort.Search(n, func(i int) bool {
		return values[i].CompareTo(value) >= 0
	})
	if i < n && values[i].CompareTo(value) == 0 {
		return Found(i)
	}
	return NotFound(i)
}
