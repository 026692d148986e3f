// Package memory implements an in-memory key-value Storage for tests.
package memory

import (
	"context"
	"sync"
)

// Store keeps values in process memory. Values are copied on the way in and out.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

func New() *Store { return &Store{values: make(map[string][]byte)} }

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.mu.Lock()
	s.values[key] = v
	s.writes++
	s.mu.Unlock()
	return nil
}

// Writes returns how many times Set has been called.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) Close() error { return nil }
