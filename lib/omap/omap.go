package omap

import "fmt"

// --------------------------------------------------------------------------
// Ordered Map Type
// --------------------------------------------------------------------------

// OrderedMap is a key/value map that remembers insertion order. Keys must be
// comparable. Setting an existing key updates the value in place and keeps
// the key's original position, matching the iteration contract of ordered
// dictionaries.
type OrderedMap struct {
	keys  []any
	index map[any]int
	vals  []any
}

// New creates an empty ordered map.
func New() *OrderedMap {
	return &OrderedMap{index: make(map[any]int)}
}

// Set stores a value under a key. A new key is appended, an existing key
// keeps its position.
func (m *OrderedMap) Set(key, value any) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
}

// Get returns the value stored under a key.
func (m *OrderedMap) Get(key any) (any, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

// Delete removes a key. Later keys shift forward, preserving relative order.
func (m *OrderedMap) Delete(key any) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
	return true
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []any {
	cp := make([]any, len(m.keys))
	copy(cp, m.keys)
	return cp
}

// Values returns the values in key order.
func (m *OrderedMap) Values() []any {
	cp := make([]any, len(m.vals))
	copy(cp, m.vals)
	return cp
}

// String returns a short human-readable description of the map.
func (m *OrderedMap) String() string {
	return fmt.Sprintf("OrderedMap(%d entries)", len(m.keys))
}
