package store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// Store is the persistence collaborator: a namespaced string key/value store.
// Production uses the Badger-backed implementation, tests use the in-memory
// one, so no component ever depends on ambient browser-style storage.
type Store interface {
	// Get returns the value for key or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key
	Set(ctx context.Context, key string, value string) error

	// Remove deletes the key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
