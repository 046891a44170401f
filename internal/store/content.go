package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

// CreateContent persists a new content row. Downloads are separate rows and
// are not written here; Tags resolve at load time and never persist.
func (s *Badger) CreateContent(_ context.Context, content *domain.Content) error {
	key := buildKey(contentPrefix, content.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check content exists: %w", err)
	}
	if exists {
		return errors.New("content already exists")
	}

	if err := s.set(key, content); err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// UpdateContent overwrites the full content row.
func (s *Badger) UpdateContent(_ context.Context, content *domain.Content) error {
	key := buildKey(contentPrefix, content.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check content exists: %w", err)
	}
	if !exists {
		return ErrContentNotFound
	}

	if err := s.set(key, content); err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// SetContentTags replaces the persisted tag relation of a content row.
// Used by the periodic sync to push the mirror's tag state.
func (s *Badger) SetContentTags(_ context.Context, contentID string, tagIDs []string) error {
	key := buildKey(contentPrefix, contentID)

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		var row domain.Content
		if err := item.Value(unmarshalInto(&row)); err != nil {
			return err
		}

		row.TagIDs = tagIDs
		return setInTxn(txn, key, &row)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrContentNotFound
	}
	if err != nil {
		return fmt.Errorf("set content tags: %w", err)
	}
	return nil
}

// DeleteContent removes a content row. The caller is responsible for
// deleting the owned download rows first (foreign-key order).
func (s *Badger) DeleteContent(_ context.Context, id string) error {
	key := buildKey(contentPrefix, id)

	if err := s.delete(key); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// ListContent returns every persisted content row, without downloads.
func (s *Badger) ListContent(_ context.Context) ([]*domain.Content, error) {
	rows, err := listPrefix[domain.Content](s, contentPrefix)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return rows, nil
}
