package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

// CreateDownloads persists download rows and their content index entries in
// one transaction.
func (s *Badger) CreateDownloads(_ context.Context, downloads []*domain.Download) error {
	if len(downloads) == 0 {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, d := range downloads {
			if err := setInTxn(txn, buildKey(downloadPrefix, d.ID), d); err != nil {
				return err
			}
			indexKey := buildIndexKey(downloadByContentPrefix, d.ContentID, d.ID)
			if err := txn.Set(indexKey, []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create downloads: %w", err)
	}
	return nil
}

// ListDownloadsByContent returns every download owned by the content id.
func (s *Badger) ListDownloadsByContent(_ context.Context, contentID string) ([]*domain.Download, error) {
	ids, err := s.indexedIDs(downloadByContentPrefix + contentID + ":")
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}

	downloads := make([]*domain.Download, 0, len(ids))
	for _, id := range ids {
		var d domain.Download
		err := s.get(buildKey(downloadPrefix, id), &d)
		if err != nil {
			return nil, fmt.Errorf("get download %s: %w", id, err)
		}
		downloads = append(downloads, &d)
	}

	return downloads, nil
}

// DeleteDownloads bulk-deletes download rows by id, along with their index
// entries.
func (s *Badger) DeleteDownloads(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := deleteDownloadInTxn(txn, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete downloads: %w", err)
	}
	return nil
}

// DeleteDownloadsByContent deletes every download owned by the content id.
func (s *Badger) DeleteDownloadsByContent(ctx context.Context, contentID string) error {
	ids, err := s.indexedIDs(downloadByContentPrefix + contentID + ":")
	if err != nil {
		return fmt.Errorf("delete downloads by content: %w", err)
	}
	return s.DeleteDownloads(ctx, ids)
}

// deleteDownloadInTxn removes a download row and its content index entry.
func deleteDownloadInTxn(txn *badger.Txn, id string) error {
	key := buildKey(downloadPrefix, id)

	item, err := txn.Get(key)
	if err != nil {
		// Row already gone; nothing to unindex.
		return nil
	}

	var d domain.Download
	if err := item.Value(unmarshalInto(&d)); err != nil {
		return err
	}

	indexKey := buildIndexKey(downloadByContentPrefix, d.ContentID, d.ID)

	if err := txn.Delete(indexKey); err != nil {
		return err
	}
	return txn.Delete(key)
}
