// Copyright (c) 2022 Jonathan S. Shapiro. All rights reserved.
// Use of this source code is governed by terms that can be
// found in the LICENSE file.

// Package collections implements the small, cheaply-snapshottable map type
// the printer uses for its look-ahead tables.
//
// A save-point clones both look-ahead tables (see spec §4.5), so cloning has
// to be cheap. In practice these tables hold only as many entries as there
// are currently-unresolved Info/Condition look-aheads, which is small — so a
// bare Go map copied on clone is fast enough, the same small-map shape the
// teacher's intern package uses, minus its lock (a FastCellMap is never
// shared between goroutines).
package collections

// FastCellMap is a map that supports cheap logical copies.
//
// FastCellMap is not safe for concurrent use; each Printer owns its own
// instances.
type FastCellMap[K comparable, V any] struct {
	entries map[K]V
}

// New returns an empty FastCellMap.
func New[K comparable, V any]() *FastCellMap[K, V] {
	return &FastCellMap[K, V]{entries: make(map[K]V)}
}

// Insert adds or replaces the value stored under key.
func (m *FastCellMap[K, V]) Insert(key K, value V) {
	m.entries[key] = value
}

// Remove deletes key from the map, returning the value that was stored there
// and whether it was present.
func (m *FastCellMap[K, V]) Remove(key K) (V, bool) {
	v, ok := m.entries[key]
	if ok {
		delete(m.entries, key)
	}
	return v, ok
}

// Get returns the value stored under key and whether it was present.
func (m *FastCellMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// ContainsKey reports whether key is present in the map.
func (m *FastCellMap[K, V]) ContainsKey(key K) bool {
	_, ok := m.entries[key]
	return ok
}

// Len returns the number of entries in the map.
func (m *FastCellMap[K, V]) Len() int {
	return len(m.entries)
}

// AnyItem returns an arbitrary value from the map, for use in debug-mode
// "did you forget to resolve this" diagnostics where the exact entry returned
// doesn't matter, only that one exists.
func (m *FastCellMap[K, V]) AnyItem() (V, bool) {
	for _, v := range m.entries {
		return v, true
	}
	var zero V
	return zero, false
}

// CloneMap returns a new FastCellMap holding a logical copy of the current
// entries. Mutating the clone does not affect the original and vice versa.
func (m *FastCellMap[K, V]) CloneMap() *FastCellMap[K, V] {
	clone := make(map[K]V, len(m.entries))
	for k, v := range m.entries {
		clone[k] = v
	}
	return &FastCellMap[K, V]{entries: clone}
}

// ReplaceMap swaps this map's contents in place for other's, without
// allocating a new FastCellMap wrapper.
func (m *FastCellMap[K, V]) ReplaceMap(other *FastCellMap[K, V]) {
	m.entries = other.entries
}
