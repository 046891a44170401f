package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

// CreateSession persists a new session row and its user index entry.
func (s *Badger) CreateSession(_ context.Context, session *domain.Session) error {
	key := buildKey(sessionPrefix, session.Token)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check session exists: %w", err)
	}
	if exists {
		return errors.New("session already exists")
	}

	indexKey := buildIndexKey(sessionByUserPrefix, session.UserID, session.Token)

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := setInTxn(txn, key, session); err != nil {
			return err
		}
		return txn.Set(indexKey, []byte{})
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// DeleteSession removes a session row and its user index entry.
// Deleting an unknown token is not an error.
func (s *Badger) DeleteSession(_ context.Context, token string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return deleteSessionInTxn(txn, token)
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions removes every session owned by the user.
func (s *Badger) DeleteUserSessions(ctx context.Context, userID string) error {
	tokens, err := s.indexedIDs(sessionByUserPrefix + userID + ":")
	if err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return s.DeleteSessions(ctx, tokens)
}

// DeleteSessions bulk-deletes session rows by token.
func (s *Badger) DeleteSessions(_ context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, token := range tokens {
			if err := deleteSessionInTxn(txn, token); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

// ListSessions returns every persisted session.
func (s *Badger) ListSessions(_ context.Context) ([]*domain.Session, error) {
	sessions, err := listPrefix[domain.Session](s, sessionPrefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListExpiredSessions returns every session with an expiration date at or
// before now. Used by the sweep job.
func (s *Badger) ListExpiredSessions(ctx context.Context, now time.Time) ([]*domain.Session, error) {
	all, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	expired := make([]*domain.Session, 0)
	for _, session := range all {
		if !session.ExpirationDate.After(now) {
			expired = append(expired, session)
		}
	}
	return expired, nil
}

// deleteSessionInTxn removes a session row and its user index entry.
func deleteSessionInTxn(txn *badger.Txn, token string) error {
	key := buildKey(sessionPrefix, token)

	item, err := txn.Get(key)
	if err != nil {
		// Row already gone; nothing to unindex.
		return nil
	}

	var session domain.Session
	if err := item.Value(unmarshalInto(&session)); err != nil {
		return err
	}

	indexKey := buildIndexKey(sessionByUserPrefix, session.UserID, session.Token)

	if err := txn.Delete(indexKey); err != nil {
		return err
	}
	return txn.Delete(key)
}
