package tinymap

import "cmp"

// Entry is a handle to a key's slot in a Map, obtained from Map.Entry. It is
// either occupied (the key is present) or vacant (the key is absent, with the
// sorted insertion index already computed). The handle is invalidated by any
// other structural mutation of the map.
type Entry[K cmp.Ordered, V any] struct {
	m        *Map[K, V]
	key      K
	idx      int
	occupied bool
}

// Entry looks up key with a single binary search and returns a handle that
// can modify the existing value or insert a new one without searching again.
func (m *Map[K, V]) Entry(key K) Entry[K, V] {
	idx, found := m.search(key)
	return Entry[K, V]{m: m, key: key, idx: idx, occupied: found}
}

// AndModify applies f to the value in place if the entry is occupied. It is a
// no-op for vacant entries. Returns the handle unchanged for chaining.
func (e Entry[K, V]) AndModify(f func(*V)) Entry[K, V] {
	if e.occupied {
		f(&e.m.entries()[e.idx].val)
	}
	return e
}

// OrInsert returns a pointer to the existing value if the entry is occupied.
// Otherwise it inserts (key, def) at the precomputed sorted index and returns
// a pointer to the new value.
func (e Entry[K, V]) OrInsert(def V) *V {
	if e.occupied {
		return &e.m.entries()[e.idx].val
	}
	p := e.m.insertAt(e.idx, pair[K, V]{key: e.key, val: def})
	return &p.val
}
