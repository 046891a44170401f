package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/creatorhubapp/creatorhub-server/internal/store"
)

// SyncManager reconciles the in-memory mirrors against the store on a fixed
// schedule and as a best-effort flush on shutdown.
//
// Direction note: interactive writes treat the store as authoritative
// (store first, mirror second); the periodic sync treats the mirror as
// authoritative for tag ids, downloads and user lists, since the mirror has
// absorbed every interactive write and a crash between the two steps can
// leave the store behind. Every push is a full overwrite keyed by id, so an
// aborted pass is retried from scratch by the next run with no checkpoint.
type SyncManager struct {
	store    store.Store
	content  *ContentManager
	users    *UserManager
	logger   *slog.Logger
	interval time.Duration
}

// NewSyncManager creates a sync manager.
func NewSyncManager(
	st store.Store,
	content *ContentManager,
	users *UserManager,
	interval time.Duration,
	logger *slog.Logger,
) *SyncManager {
	return &SyncManager{
		store:    st,
		content:  content,
		users:    users,
		logger:   logger,
		interval: interval,
	}
}

// Start runs SyncAll on the configured interval until the context is
// canceled. Failures are logged and self-heal on the next run.
func (m *SyncManager) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.SyncAll(ctx); err != nil {
				m.logger.Error("scheduled sync failed", "error", err)
			}
		}
	}
}

// SyncAll runs the content and user passes sequentially.
func (m *SyncManager) SyncAll(ctx context.Context) error {
	runID := uuid.NewString()
	started := time.Now()
	m.logger.Info("sync started", "run_id", runID)

	if err := m.SyncContent(ctx); err != nil {
		return fmt.Errorf("sync content: %w", err)
	}
	if err := m.SyncUsers(ctx); err != nil {
		return fmt.Errorf("sync users: %w", err)
	}

	m.logger.Info("sync completed",
		"run_id", runID,
		"duration", time.Since(started).String(),
	)
	return nil
}

// SyncContent pushes each mirrored item's state to the store: download rows
// the mirror no longer knows are deleted, and the mirror's tag ids
// overwrite the stored relation.
func (m *SyncManager) SyncContent(ctx context.Context) error {
	for _, state := range m.content.SyncSnapshot() {
		stored, err := m.store.ListDownloadsByContent(ctx, state.ID)
		if err != nil {
			return fmt.Errorf("list downloads for %s: %w", state.ID, err)
		}

		mirrored := make(map[string]bool, len(state.DownloadIDs))
		for _, downloadID := range state.DownloadIDs {
			mirrored[downloadID] = true
		}

		var orphans []string
		for _, d := range stored {
			if !mirrored[d.ID] {
				orphans = append(orphans, d.ID)
			}
		}
		if len(orphans) > 0 {
			if err := m.store.DeleteDownloads(ctx, orphans); err != nil {
				return fmt.Errorf("delete orphaned downloads for %s: %w", state.ID, err)
			}
			m.logger.Debug("deleted orphaned downloads",
				"content_id", state.ID,
				"count", len(orphans),
			)
		}

		if err := m.store.SetContentTags(ctx, state.ID, state.TagIDs); err != nil {
			return fmt.Errorf("push tags for %s: %w", state.ID, err)
		}
	}
	return nil
}

// SyncUsers pushes every mirrored user's bookmark and recent lists to the
// store.
func (m *SyncManager) SyncUsers(ctx context.Context) error {
	for _, state := range m.users.SyncSnapshot() {
		if err := m.store.SetUserLists(ctx, state.UserID, state.Bookmarks, state.Recent); err != nil {
			return fmt.Errorf("push lists for %s: %w", state.UserID, err)
		}
		m.logger.Debug("synced user", "user_id", state.UserID)
	}
	return nil
}
