// Package registry maps native object addresses to the bookkeeping
// that the binding layer keeps for each of them.
package registry

import "golang.org/x/exp/maps"

// Entry is the per-object bookkeeping kept in a Store. Delete is
// called exactly once, when the entry is removed from the Store.
type Entry interface {
	Delete()
}

// Store holds the entries of one kind of native object, keyed by the
// object's native address.
type Store[E Entry] struct {
	entries map[uintptr]E
}

func New[E Entry]() *Store[E] {
	return &Store[E]{
		entries: make(map[uintptr]E),
	}
}

// Add stores e under addr. If an entry was already stored under addr,
// it is deleted first.
func (s *Store[E]) Add(addr uintptr, e E) {
	s.Delete(addr)
	s.entries[addr] = e
}

func (s *Store[E]) Get(addr uintptr) (E, bool) {
	e, ok := s.entries[addr]
	return e, ok
}

// Delete removes the entry stored under addr and calls its Delete
// method. It reports whether there was such an entry.
func (s *Store[E]) Delete(addr uintptr) bool {
	e, ok := s.entries[addr]
	if !ok {
		return false
	}

	delete(s.entries, addr)
	e.Delete()
	return true
}

func (s *Store[E]) Len() int {
	return len(s.entries)
}

// Snapshot returns a copy of the entries in s. It is safe to modify s
// while iterating over the copy.
func (s *Store[E]) Snapshot() map[uintptr]E {
	return maps.Clone(s.entries)
}

// Clear deletes every entry in s.
func (s *Store[E]) Clear() {
	for addr := range s.Snapshot() {
		s.Delete(addr)
	}
}
