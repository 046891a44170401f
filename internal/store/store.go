// Package store persists catalog entities in an embedded Badger database.
//
// Every entity is a JSON row under a typed key prefix. Reverse lookups
// (downloads by content, sessions by user) go through secondary index keys
// so list operations never scan the whole keyspace.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for the persisted entity types.
const (
	tagPrefix      = "tag:"
	contentPrefix  = "content:"
	downloadPrefix = "download:"
	userPrefix     = "user:"
	sessionPrefix  = "session:"

	downloadByContentPrefix = "download:idx:content:"
	sessionByUserPrefix     = "session:idx:user:"
)

// Sentinel errors returned by lookups.
var (
	ErrTagNotFound     = errors.New("tag not found")
	ErrContentNotFound = errors.New("content not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

// Badger wraps a Badger database instance and implements Store.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// compile-time interface check
var _ Store = (*Badger)(nil)

// Open opens (or creates) the database at path.
func Open(path string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Info("database opened", "path", path)

	return &Badger{db: db, logger: logger}, nil
}

// Close gracefully closes the database connection.
func (s *Badger) Close() error {
	s.logger.Info("closing database connection")
	return s.db.Close()
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Badger) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Badger) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Badger) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Badger) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// listPrefix collects every row under prefix into values of type T.
func listPrefix[T any](s *Badger, prefix string) ([]*T, error) {
	var out []*T

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			// Skip index keys that share the entity prefix.
			if isIndexKey(it.Item().Key(), prefix) {
				continue
			}

			var row T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			})
			if err != nil {
				return err
			}
			out = append(out, &row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// indexedIDs collects the trailing id segment of every index key under prefix.
func (s *Badger) indexedIDs(prefix string) ([]string, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// unmarshalInto adapts json unmarshaling to badger's Value callback.
func unmarshalInto(dest any) func([]byte) error {
	return func(val []byte) error {
		return json.Unmarshal(val, dest)
	}
}

// setInTxn marshals value and writes it under key inside an open transaction.
func setInTxn(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return txn.Set(key, data)
}

// isIndexKey reports whether key is a secondary index entry under an
// entity prefix (entity rows are "prefix<id>", indexes "prefixidx:...").
func isIndexKey(key []byte, prefix string) bool {
	rest := key[len(prefix):]
	return len(rest) >= 4 && string(rest[:4]) == "idx:"
}
