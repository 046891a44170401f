package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// CreateUser persists a new user record. User ids come from the identity
// provider; creating an existing id is a conflict.
func (s *Badger) CreateUser(_ context.Context, record *UserRecord) error {
	key := buildKey(userPrefix, record.UserID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if exists {
		return errors.New("user already exists")
	}

	if err := s.set(key, record); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateUsername updates only the username of an existing user record.
func (s *Badger) UpdateUsername(_ context.Context, userID, username string) error {
	return s.mutateUser(userID, func(record *UserRecord) {
		record.Username = username
	})
}

// SetUserLists replaces the persisted bookmark and recent id lists.
func (s *Badger) SetUserLists(_ context.Context, userID string, bookmarks, recent []string) error {
	return s.mutateUser(userID, func(record *UserRecord) {
		record.Bookmarks = bookmarks
		record.Recent = recent
	})
}

// ListUsers returns every persisted user record.
func (s *Badger) ListUsers(_ context.Context) ([]*UserRecord, error) {
	users, err := listPrefix[UserRecord](s, userPrefix)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// mutateUser applies fn to the stored record inside one transaction.
func (s *Badger) mutateUser(userID string, fn func(*UserRecord)) error {
	key := buildKey(userPrefix, userID)

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		var record UserRecord
		if err := item.Value(unmarshalInto(&record)); err != nil {
			return err
		}

		fn(&record)
		return setInTxn(txn, key, &record)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
