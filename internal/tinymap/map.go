// Package tinymap provides a small ordered map optimized for very few entries.
//
// Entries are kept sorted by key in a fixed-size inline array, so maps with at
// most InlineCapacity entries never touch the heap. Larger maps spill to a
// dynamically sized backing slice; ShrinkToFit moves a map back to the inline
// representation once it fits again. All lookups are binary searches over the
// sorted entries.
package tinymap

import (
	"cmp"
	"iter"
	"slices"
)

// InlineCapacity is the number of entries a Map can hold without allocating.
const InlineCapacity = 3

type pair[K cmp.Ordered, V any] struct {
	key K
	val V
}

// Map is an associative container whose entries are always sorted by key.
// Keys are unique. The zero value is an empty map ready for use.
type Map[K cmp.Ordered, V any] struct {
	inline [InlineCapacity]pair[K, V]
	n      int          // live entries in inline; meaningless once spilled
	spill  []pair[K, V] // non-nil once the map has grown past InlineCapacity
}

// New returns an empty map. Equivalent to the zero value.
func New[K cmp.Ordered, V any]() Map[K, V] {
	return Map[K, V]{}
}

// entries returns the live sorted entries, whichever representation backs them.
func (m *Map[K, V]) entries() []pair[K, V] {
	if m.spill != nil {
		return m.spill
	}
	return m.inline[:m.n]
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	if m.spill != nil {
		return len(m.spill)
	}
	return m.n
}

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.Len() == 0
}

// Cap returns the number of entries the map can hold without reallocating.
func (m *Map[K, V]) Cap() int {
	if m.spill != nil {
		return cap(m.spill)
	}
	return InlineCapacity
}

// Clear removes all entries. Capacity is retained.
func (m *Map[K, V]) Clear() {
	if m.spill != nil {
		clear(m.spill)
		m.spill = m.spill[:0]
		return
	}
	clear(m.inline[:m.n])
	m.n = 0
}

// ShrinkToFit releases unused backing capacity. If the map fits within
// InlineCapacity it returns to the inline representation. Contents are
// unchanged.
func (m *Map[K, V]) ShrinkToFit() {
	if m.spill == nil {
		return
	}
	if len(m.spill) <= InlineCapacity {
		n := copy(m.inline[:], m.spill)
		clear(m.inline[n:])
		m.n = n
		m.spill = nil
		return
	}
	if cap(m.spill) > len(m.spill) {
		exact := make([]pair[K, V], len(m.spill))
		copy(exact, m.spill)
		m.spill = exact
	}
}

// Clone returns a deep copy that can be mutated independently of m.
func (m *Map[K, V]) Clone() Map[K, V] {
	c := *m
	if m.spill != nil {
		c.spill = make([]pair[K, V], len(m.spill))
		copy(c.spill, m.spill)
	}
	return c
}

// Values returns an in-order iterator over the values. The iterator is
// restartable but is only valid until the map is structurally mutated.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, p := range m.entries() {
			if !yield(p.val) {
				return
			}
		}
	}
}

// All returns an in-order iterator over the (key, value) pairs. The iterator
// is restartable but is only valid until the map is structurally mutated.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, p := range m.entries() {
			if !yield(p.key, p.val) {
				return
			}
		}
	}
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if idx, found := m.search(key); found {
		return m.entries()[idx].val, true
	}
	var zero V
	return zero, false
}

// Insert sets the value for key. If the key was already present the previous
// value is returned with replaced=true; otherwise the entry is inserted at its
// sorted position.
func (m *Map[K, V]) Insert(key K, val V) (prev V, replaced bool) {
	idx, found := m.search(key)
	if found {
		es := m.entries()
		prev = es[idx].val
		es[idx].val = val
		return prev, true
	}
	m.insertAt(idx, pair[K, V]{key: key, val: val})
	return prev, false
}

// Extend inserts every pair from seq with the same semantics as repeated
// Insert calls. The input does not need to be sorted.
func (m *Map[K, V]) Extend(seq iter.Seq2[K, V]) {
	for k, v := range seq {
		m.Insert(k, v)
	}
}

// search binary-searches for key, returning its index if found, or the index
// at which it would be inserted.
func (m *Map[K, V]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(m.entries(), key, func(p pair[K, V], k K) int {
		return cmp.Compare(p.key, k)
	})
}

// insertAt places p at index i, shifting later entries and growing out of the
// inline array if needed. i must be the sorted insertion index for p.key.
func (m *Map[K, V]) insertAt(i int, p pair[K, V]) *pair[K, V] {
	if m.spill == nil {
		if m.n < InlineCapacity {
			copy(m.inline[i+1:m.n+1], m.inline[i:m.n])
			m.inline[i] = p
			m.n++
			return &m.inline[i]
		}
		m.spill = make([]pair[K, V], 0, 2*InlineCapacity)
		m.spill = append(m.spill, m.inline[:i]...)
		m.spill = append(m.spill, p)
		m.spill = append(m.spill, m.inline[i:m.n]...)
		clear(m.inline[:])
		m.n = 0
		return &m.spill[i]
	}
	m.spill = slices.Insert(m.spill, i, p)
	return &m.spill[i]
}
