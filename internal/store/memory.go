package store

import (
	"context"
	"sync"
)

// memoryStore is a mutex-guarded in-memory Store used in tests and as a
// fallback when no persistence directory is configured.
type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewMemoryStore() Store {
	return &memoryStore{
		values: make(map[string]string),
	}
}

// Get returns the value for key or ErrNotFound
func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

// Set writes the value for key
func (s *memoryStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	return nil
}

// Remove deletes the key
func (s *memoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	return nil
}
