// Package locked provides mutex-wrapped values and a two-level locked map.
package locked

import "sync"

// Value holds a single value behind an exclusive lock. Access goes through
// Do, which holds the lock for the duration of the callback and releases it
// on every exit path.
type Value[T any] struct {
	mu    sync.Mutex
	inner T
}

func NewValue[T any](inner T) *Value[T] {
	return &Value[T]{inner: inner}
}

// Do runs fn with exclusive access to the wrapped value. At most one
// critical section per Value runs at a time; critical sections on two
// different Values never block each other.
func (v *Value[T]) Do(fn func(*T) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	return fn(&v.inner)
}

// Map is a map of keys to locked Values. The outer lock is held only while
// inspecting or mutating the key set itself, never while a cell's critical
// section runs, so operations on different keys proceed fully concurrently.
type Map[K comparable, V any] struct {
	mu    sync.Mutex
	cells map[K]*Value[V]
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{cells: make(map[K]*Value[V])}
}

// Cell returns the cell for key, inserting a zero-valued cell first if none
// exists. Concurrent callers with the same key get the same cell; the insert
// happens exactly once.
func (m *Map[K, V]) Cell(key K) *Value[V] {
	m.mu.Lock()
	defer m.mu.Unlock()

	cell, ok := m.cells[key]
	if !ok {
		cell = &Value[V]{}
		m.cells[key] = cell
	}

	return cell
}

// Get returns the cell for key, or false if the key has never been seen.
func (m *Map[K, V]) Get(key K) (*Value[V], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cell, ok := m.cells[key]
	return cell, ok
}

// Keys returns a snapshot of the current key set.
func (m *Map[K, V]) Keys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]K, 0, len(m.cells))
	for key := range m.cells {
		keys = append(keys, key)
	}

	return keys
}

// Do runs fn with exclusive access to the value for key, creating a
// zero-valued entry first if none exists.
func (m *Map[K, V]) Do(key K, fn func(*V) error) error {
	return m.Cell(key).Do(fn)
}
