// Package optimistic applies speculative updates to local state and rolls
// them back when the remote commit fails.
package optimistic

import (
	"context"
	"sync"
)

// Store is a concurrency-safe map of local records. Updates to the same key
// are not serialized against their commits: two in-flight updates race and
// the last write to local state wins.
type Store[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]V
}

// NewStore creates an empty Store.
func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{items: make(map[K]V)}
}

// Get returns the current local value for key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok
}

// Set replaces the local value for key, e.g. after a list reload.
func (s *Store[K, V]) Set(key K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = v
}

// Delete drops key from the store.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Len reports the number of records.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Update captures the current value of key, stores apply(current) as the
// speculative value, then runs commit with that value. If commit fails the
// captured value is restored verbatim (or the key removed, if it was absent)
// and commit's error is returned. A successful commit leaves the speculative
// value in place; nothing is re-fetched.
func (s *Store[K, V]) Update(ctx context.Context, key K, apply func(V) V, commit func(context.Context, V) error) (V, error) {
	s.mu.Lock()
	prev, existed := s.items[key]
	next := apply(prev)
	s.items[key] = next
	s.mu.Unlock()

	if err := commit(ctx, next); err != nil {
		s.mu.Lock()
		if existed {
			s.items[key] = prev
		} else {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return prev, err
	}
	return next, nil
}
