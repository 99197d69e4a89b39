package store

import (
	"cmp"
	"slices"
)

// Order compares two records, with the same contract as slices.SortFunc.
// It decides the in-memory and on-disk order of a collection, never lookups.
type Order[T Record] func(a, b T) int

// ByIDDesc orders records by identity, highest first.
func ByIDDesc[T Record]() Order[T] {
	return func(a, b T) int { return cmp.Compare(b.Identity(), a.Identity()) }
}

// ByKey orders records by ascending key. Records sharing a key are ordered by
// ascending identity so that the file content stays deterministic.
func ByKey[T Record, K cmp.Ordered](key func(T) K) Order[T] {
	return func(a, b T) int {
		if c := cmp.Compare(key(a), key(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.Identity(), b.Identity())
	}
}

func (o Order[T]) sort(records []T) { slices.SortFunc(records, o) }
