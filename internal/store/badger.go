package store

import (
	"context"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// badgerStore persists keys in a local Badger database. It backs the
// connection cache and gas-token preferences across restarts.
type badgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at dir
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewBadgerStore(dir string) (Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger store")
	}

	log.Debug().Str("dir", dir).Msg("Opened persistent store")

	return &badgerStore{db: db}, nil
}

// Get returns the value for key or ErrNotFound
func (s *badgerStore) Get(_ context.Context, key string) (string, error) {
	var value string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", errors.Wrap(err, "failed to read key")
	}

	return value, nil
}

// Set writes the value for key
func (s *badgerStore) Set(_ context.Context, key string, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})

	if err != nil {
		return errors.Wrap(err, "failed to write key")
	}

	return nil
}

// Remove deletes the key
func (s *badgerStore) Remove(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})

	if err != nil {
		return errors.Wrap(err, "failed to delete key")
	}

	return nil
}

// Close closes the underlying database
func (s *badgerStore) Close() error {
	return s.db.Close()
}
