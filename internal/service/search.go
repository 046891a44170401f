package service

import (
	"github.com/creatorhubapp/creatorhub-server/internal/domain"
	"github.com/creatorhubapp/creatorhub-server/internal/search"
)

// SearchIndexer keeps the full-text index in step with the content mirror.
// Index failures are logged by the content manager, never propagated; the
// index is rebuilt from the mirror on the next startup regardless.
type SearchIndexer interface {
	IndexContent(item *domain.Content) error
	DeleteContent(contentID string) error
	ReindexAll(items []*domain.Content) error
}

// NoopIndexer satisfies SearchIndexer without doing anything. Used in tests
// and wherever search is disabled.
type NoopIndexer struct{}

// IndexContent implements SearchIndexer.
func (NoopIndexer) IndexContent(*domain.Content) error { return nil }

// DeleteContent implements SearchIndexer.
func (NoopIndexer) DeleteContent(string) error { return nil }

// ReindexAll implements SearchIndexer.
func (NoopIndexer) ReindexAll([]*domain.Content) error { return nil }

// BleveIndexer adapts the Bleve index to the SearchIndexer contract.
type BleveIndexer struct {
	index *search.Index
}

// NewBleveIndexer wraps a Bleve index.
func NewBleveIndexer(index *search.Index) *BleveIndexer {
	return &BleveIndexer{index: index}
}

// IndexContent implements SearchIndexer.
func (b *BleveIndexer) IndexContent(item *domain.Content) error {
	return b.index.IndexDocument(search.ContentToDocument(item))
}

// DeleteContent implements SearchIndexer.
func (b *BleveIndexer) DeleteContent(contentID string) error {
	return b.index.DeleteDocument(contentID)
}

// ReindexAll implements SearchIndexer.
func (b *BleveIndexer) ReindexAll(items []*domain.Content) error {
	if err := b.index.Rebuild(); err != nil {
		return err
	}

	docs := make([]*search.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, search.ContentToDocument(item))
	}
	return b.index.IndexDocuments(docs)
}
