package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

// CreateTag persists a new tag row. Tag ids are caller-chosen; creating an
// id that already exists is a conflict.
func (s *Badger) CreateTag(_ context.Context, tag *domain.Tag) error {
	key := buildKey(tagPrefix, tag.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check tag exists: %w", err)
	}
	if exists {
		return errors.New("tag already exists")
	}

	if err := s.set(key, tag); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// DeleteTag removes a tag row. Deleting an unknown id is not an error.
func (s *Badger) DeleteTag(_ context.Context, id string) error {
	key := buildKey(tagPrefix, id)

	if err := s.delete(key); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// ListTags returns every persisted tag.
func (s *Badger) ListTags(_ context.Context) ([]*domain.Tag, error) {
	tags, err := listPrefix[domain.Tag](s, tagPrefix)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
