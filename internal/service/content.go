// Package service holds the in-process mirrors of the catalog and user state
// and the sync job that reconciles them with the store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
	"github.com/creatorhubapp/creatorhub-server/internal/id"
	"github.com/creatorhubapp/creatorhub-server/internal/store"
)

// UserPruner removes a deleted content id from every user's bookmark and
// recent lists. Implemented by UserManager; wired after construction to
// break the manager cycle.
type UserPruner interface {
	PruneContent(contentID string)
}

// ContentManager is the authoritative in-process cache of content and tags,
// and the sole writer to the content, download and tag rows.
//
// Writes go store-first: the row is persisted, then the mirror is updated.
// Callers never observe an id that exists in the store but not the mirror.
// The lock is not held across store round-trips, so two concurrent writes to
// the same id can race between "store write completed" and "mirror updated";
// accepted for admin-only write traffic, with the hourly sync reconciling
// any drift.
type ContentManager struct {
	store   store.Store
	indexer SearchIndexer
	logger  *slog.Logger

	mu      sync.RWMutex
	tags    map[string]*domain.Tag
	content map[string]*domain.Content
	order   []string // content ids in insertion order, for the random sampler

	pruner UserPruner
}

// NewContentManager creates a content manager with an empty mirror.
// Call Load before serving.
func NewContentManager(st store.Store, indexer SearchIndexer, logger *slog.Logger) *ContentManager {
	if indexer == nil {
		indexer = NoopIndexer{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ContentManager{
		store:   st,
		indexer: indexer,
		logger:  logger,
		tags:    make(map[string]*domain.Tag),
		content: make(map[string]*domain.Content),
	}
}

// SetUserPruner wires the user manager in for bookmark/recent pruning on
// content deletion.
func (m *ContentManager) SetUserPruner(p UserPruner) {
	m.pruner = p
}

// Load builds the mirror from the store: tags first, then content with
// downloads, resolving each item's tags against the freshly built tag map
// and pushing backlinks. Startup-only; the caller terminates the process on
// error since there is no degraded mode without the mirror.
func (m *ContentManager) Load(ctx context.Context) error {
	tags, err := m.store.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}

	items, err := m.store.ListContent(ctx)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	tagMap := make(map[string]*domain.Tag, len(tags))
	for _, tag := range tags {
		tag.Content = nil
		tagMap[tag.ID] = tag
	}

	contentMap := make(map[string]*domain.Content, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		downloads, err := m.store.ListDownloadsByContent(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("load downloads for %s: %w", item.ID, err)
		}
		item.Downloads = downloads

		item.Tags = nil
		for _, tagID := range item.TagIDs {
			if tag, ok := tagMap[tagID]; ok {
				item.Tags = append(item.Tags, tag)
				tag.Content = append(tag.Content, item)
			}
		}

		contentMap[item.ID] = item
		order = append(order, item.ID)
	}

	m.mu.Lock()
	m.tags = tagMap
	m.content = contentMap
	m.order = order
	m.mu.Unlock()

	if err := m.reindexAll(); err != nil {
		m.logger.Warn("failed to build search index", "error", err)
	}

	m.logger.Info("content mirror loaded",
		"content_count", len(contentMap),
		"tag_count", len(tagMap),
	)
	return nil
}

// DownloadParams describes one download option on a create or update call.
type DownloadParams struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

// CreateContentParams carries the fields for a new content item.
type CreateContentParams struct {
	Name      string             `json:"name" validate:"required"`
	Type      domain.ContentType `json:"type" validate:"required"`
	Preview   string             `json:"preview" validate:"omitempty,url"`
	UseCases  []string           `json:"use_cases"`
	TagIDs    []string           `json:"tag_ids"`
	Downloads []DownloadParams   `json:"downloads"`
}

// CreateContent writes a new content row and its downloads to the store,
// then inserts the item into the mirror and appends it to each referenced
// tag's backlink list. Tag ids that are not in the mirror are dropped.
func (m *ContentManager) CreateContent(ctx context.Context, params CreateContentParams) (*domain.Content, error) {
	contentID, err := id.Generate("content")
	if err != nil {
		return nil, fmt.Errorf("generate content id: %w", err)
	}

	item := &domain.Content{
		ID:       contentID,
		Name:     params.Name,
		Type:     params.Type,
		Preview:  params.Preview,
		UseCases: params.UseCases,
		TagIDs:   m.knownTagIDs(params.TagIDs),
	}

	downloads, err := buildDownloads(contentID, params.Downloads)
	if err != nil {
		return nil, err
	}

	if err := m.store.CreateContent(ctx, item); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	if err := m.store.CreateDownloads(ctx, downloads); err != nil {
		return nil, fmt.Errorf("create downloads: %w", err)
	}
	item.Downloads = downloads

	m.mu.Lock()
	item.Tags = nil
	for _, tagID := range item.TagIDs {
		if tag, ok := m.tags[tagID]; ok {
			item.Tags = append(item.Tags, tag)
			tag.Content = append(tag.Content, item)
		}
	}
	m.content[item.ID] = item
	m.order = append(m.order, item.ID)
	m.mu.Unlock()

	if err := m.indexer.IndexContent(item); err != nil {
		m.logger.Warn("failed to index content", "content_id", item.ID, "error", err)
	}

	m.logger.Info("content created", "content_id", item.ID, "name", item.Name)
	return item, nil
}

// UpdateContentParams is a partial patch; nil fields are left untouched.
type UpdateContentParams struct {
	Name      *string             `json:"name" validate:"omitempty,min=1"`
	Type      *domain.ContentType `json:"type"`
	Preview   *string             `json:"preview" validate:"omitempty,url"`
	UseCases  *[]string           `json:"use_cases"`
	TagIDs    *[]string           `json:"tag_ids"`
	Downloads *[]DownloadParams   `json:"downloads"`
}

// UpdateContent applies a partial patch to a content item. Unknown ids are a
// silent no-op; callers wanting a 404 check existence first.
//
// Downloads are diffed by URL: provided downloads whose URL is new are
// created in the store, and the resulting full set is re-fetched. Tag
// backlinks are recomputed across the entire tag mirror afterwards
// (remove-from-all, then add-to-applicable) which keeps the invariant
// simple at O(tags x contents).
func (m *ContentManager) UpdateContent(ctx context.Context, contentID string, params UpdateContentParams) error {
	m.mu.RLock()
	current, ok := m.content[contentID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	updated := &domain.Content{
		ID:       current.ID,
		Name:     current.Name,
		Type:     current.Type,
		Preview:  current.Preview,
		UseCases: current.UseCases,
		TagIDs:   current.TagIDs,
	}
	if params.Name != nil {
		updated.Name = *params.Name
	}
	if params.Type != nil {
		updated.Type = *params.Type
	}
	if params.Preview != nil {
		updated.Preview = *params.Preview
	}
	if params.UseCases != nil {
		updated.UseCases = *params.UseCases
	}
	if params.TagIDs != nil {
		updated.TagIDs = m.knownTagIDs(*params.TagIDs)
	}

	if params.Downloads != nil {
		existing, err := m.store.ListDownloadsByContent(ctx, contentID)
		if err != nil {
			return fmt.Errorf("list downloads: %w", err)
		}
		knownURLs := make(map[string]bool, len(existing))
		for _, d := range existing {
			knownURLs[d.URL] = true
		}

		var fresh []DownloadParams
		for _, d := range *params.Downloads {
			if !knownURLs[d.URL] {
				fresh = append(fresh, d)
			}
		}
		if len(fresh) > 0 {
			downloads, err := buildDownloads(contentID, fresh)
			if err != nil {
				return err
			}
			if err := m.store.CreateDownloads(ctx, downloads); err != nil {
				return fmt.Errorf("create downloads: %w", err)
			}
		}
	}

	if err := m.store.UpdateContent(ctx, updated); err != nil {
		return fmt.Errorf("update content: %w", err)
	}

	downloads, err := m.store.ListDownloadsByContent(ctx, contentID)
	if err != nil {
		return fmt.Errorf("reload downloads: %w", err)
	}
	updated.Downloads = downloads

	m.mu.Lock()
	m.content[contentID] = updated
	m.recomputeBacklinks(updated)
	m.mu.Unlock()

	if err := m.indexer.IndexContent(updated); err != nil {
		m.logger.Warn("failed to reindex content", "content_id", contentID, "error", err)
	}

	m.logger.Info("content updated", "content_id", contentID)
	return nil
}

// DeleteContent removes a content item everywhere: downloads first (they
// reference the content row), then the content row, then the mirror, then
// every tag backlink and every user's bookmark/recent lists. Unknown ids
// are a silent no-op.
func (m *ContentManager) DeleteContent(ctx context.Context, contentID string) error {
	m.mu.RLock()
	_, ok := m.content[contentID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	if err := m.store.DeleteDownloadsByContent(ctx, contentID); err != nil {
		return fmt.Errorf("delete downloads: %w", err)
	}
	if err := m.store.DeleteContent(ctx, contentID); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}

	m.mu.Lock()
	delete(m.content, contentID)
	m.order = removeID(m.order, contentID)
	for _, tag := range m.tags {
		tag.RemoveContent(contentID)
	}
	m.mu.Unlock()

	if m.pruner != nil {
		m.pruner.PruneContent(contentID)
	}

	if err := m.indexer.DeleteContent(contentID); err != nil {
		m.logger.Warn("failed to unindex content", "content_id", contentID, "error", err)
	}

	m.logger.Info("content deleted", "content_id", contentID)
	return nil
}

// AddTag creates a tag. Idempotent by id: an existing id is a silent no-op,
// even under a different name. Duplicate names under distinct ids are
// permitted.
func (m *ContentManager) AddTag(ctx context.Context, tagID, name string) error {
	m.mu.RLock()
	_, ok := m.tags[tagID]
	m.mu.RUnlock()
	if ok {
		return nil
	}

	tag := &domain.Tag{ID: tagID, Name: name}
	if err := m.store.CreateTag(ctx, tag); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}

	m.mu.Lock()
	m.tags[tagID] = tag
	m.mu.Unlock()

	m.logger.Info("tag created", "tag_id", tagID, "name", name)
	return nil
}

// DeleteTag removes a tag and strips its id from every content item's
// TagIDs and resolved tag list. Content itself is never deleted. Unknown
// ids are a silent no-op.
func (m *ContentManager) DeleteTag(ctx context.Context, tagID string) error {
	m.mu.RLock()
	_, ok := m.tags[tagID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	if err := m.store.DeleteTag(ctx, tagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	m.mu.Lock()
	delete(m.tags, tagID)
	var stripped []*domain.Content
	for _, item := range m.content {
		if !item.HasTag(tagID) {
			continue
		}
		item.TagIDs = removeID(item.TagIDs, tagID)
		item.Tags = removeTag(item.Tags, tagID)
		stripped = append(stripped, item)
	}
	m.mu.Unlock()

	// Reindex the items that lost the tag so search stops matching it.
	for _, item := range stripped {
		if err := m.indexer.IndexContent(item); err != nil {
			m.logger.Warn("failed to reindex content", "content_id", item.ID, "error", err)
		}
	}

	m.logger.Info("tag deleted", "tag_id", tagID)
	return nil
}

// GetContent returns the mirrored content item for an id.
func (m *ContentManager) GetContent(contentID string) (*domain.Content, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.content[contentID]
	return item, ok
}

// GetTag returns the mirrored tag for an id.
func (m *ContentManager) GetTag(tagID string) (*domain.Tag, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tag, ok := m.tags[tagID]
	return tag, ok
}

// ListContent returns every mirrored content item in insertion order.
func (m *ContentManager) ListContent() []*domain.Content {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]*domain.Content, 0, len(m.order))
	for _, contentID := range m.order {
		items = append(items, m.content[contentID])
	}
	return items
}

// ListTags returns every mirrored tag.
func (m *ContentManager) ListTags() []*domain.Tag {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags := make([]*domain.Tag, 0, len(m.tags))
	for _, tag := range m.tags {
		tags = append(tags, tag)
	}
	return tags
}

// RandomContent returns up to amount items via a window sampler: pick a
// random start index, shift left by amount (clamped to zero), slice. This
// biases toward insertion-order-adjacent items and is not statistically
// uniform; kept for behavioral parity with the catalog front-end.
func (m *ContentManager) RandomContent(amount int) []*domain.Content {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := len(m.order)
	if size == 0 || amount <= 0 {
		return nil
	}

	start := rand.IntN(size) - amount
	if start < 0 {
		start = 0
	}
	end := min(start+amount, size)

	items := make([]*domain.Content, 0, end-start)
	for _, contentID := range m.order[start:end] {
		items = append(items, m.content[contentID])
	}
	return items
}

// ContentSyncState is the per-item snapshot the sync job pushes to the store.
type ContentSyncState struct {
	ID          string
	TagIDs      []string
	DownloadIDs []string
}

// SyncSnapshot captures the mirror state needed by the hourly sync without
// holding the lock across store round-trips.
func (m *ContentManager) SyncSnapshot() []ContentSyncState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]ContentSyncState, 0, len(m.order))
	for _, contentID := range m.order {
		item := m.content[contentID]
		state := ContentSyncState{
			ID:     item.ID,
			TagIDs: append([]string(nil), item.TagIDs...),
		}
		for _, d := range item.Downloads {
			state.DownloadIDs = append(state.DownloadIDs, d.ID)
		}
		states = append(states, state)
	}
	return states
}

// recomputeBacklinks rebuilds every tag's backlink entry for one content
// item: remove it from all tags, then re-add it to the tags its TagIDs
// name. Caller holds the write lock.
func (m *ContentManager) recomputeBacklinks(item *domain.Content) {
	for _, tag := range m.tags {
		tag.RemoveContent(item.ID)
	}

	item.Tags = nil
	for _, tagID := range item.TagIDs {
		if tag, ok := m.tags[tagID]; ok {
			item.Tags = append(item.Tags, tag)
			tag.Content = append(tag.Content, item)
		}
	}
}

// knownTagIDs filters tag ids down to those present in the mirror.
func (m *ContentManager) knownTagIDs(tagIDs []string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	known := make([]string, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		if _, ok := m.tags[tagID]; ok {
			known = append(known, tagID)
		}
	}
	return known
}

// reindexAll rebuilds the search index from the mirror.
func (m *ContentManager) reindexAll() error {
	return m.indexer.ReindexAll(m.ListContent())
}

func buildDownloads(contentID string, params []DownloadParams) ([]*domain.Download, error) {
	downloads := make([]*domain.Download, 0, len(params))
	for _, p := range params {
		downloadID, err := id.Generate("download")
		if err != nil {
			return nil, fmt.Errorf("generate download id: %w", err)
		}
		downloads = append(downloads, &domain.Download{
			ID:        downloadID,
			Name:      p.Name,
			URL:       p.URL,
			ContentID: contentID,
		})
	}
	return downloads, nil
}

func removeID(ids []string, target string) []string {
	filtered := ids[:0]
	for _, v := range ids {
		if v != target {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func removeTag(tags []*domain.Tag, tagID string) []*domain.Tag {
	filtered := tags[:0]
	for _, t := range tags {
		if t.ID != tagID {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
