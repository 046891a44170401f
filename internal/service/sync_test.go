package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

func newSyncFixture(t *testing.T) (*SyncManager, *userManagerFixture) {
	t.Helper()

	fx := newUserManagerFixture(t, time.Hour)
	sm := NewSyncManager(fx.store, fx.content, fx.users, time.Hour, discardLogger())
	return sm, fx
}

func TestSyncContent_DeletesOrphanedDownloads(t *testing.T) {
	sm, fx := newSyncFixture(t)
	ctx := context.Background()

	item, err := fx.content.CreateContent(ctx, CreateContentParams{
		Name: "Forest",
		Type: domain.ContentTypeVideo,
		Downloads: []DownloadParams{
			{Name: "HD", URL: "https://cdn.test/hd.mp4"},
		},
	})
	require.NoError(t, err)

	// A download row the mirror never absorbed.
	require.NoError(t, fx.store.CreateDownloads(ctx, []*domain.Download{
		{ID: "dl-orphan", Name: "stray", URL: "https://cdn.test/stray.mp4", ContentID: item.ID},
	}))

	require.NoError(t, sm.SyncContent(ctx))

	downloads, err := fx.store.ListDownloadsByContent(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.NotEqual(t, "dl-orphan", downloads[0].ID)
}

func TestSyncContent_PushesMirrorTags(t *testing.T) {
	sm, fx := newSyncFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.content.AddTag(ctx, "nature", "Nature"))
	item, err := fx.content.CreateContent(ctx, CreateContentParams{
		Name:   "Forest",
		Type:   domain.ContentTypeImage,
		TagIDs: []string{"nature"},
	})
	require.NoError(t, err)

	// Drift: the store loses the relation, the mirror still has it.
	require.NoError(t, fx.store.SetContentTags(ctx, item.ID, nil))

	require.NoError(t, sm.SyncContent(ctx))

	rows, err := fx.store.ListContent(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"nature"}, rows[0].TagIDs, "mirror is authoritative at sync time")
}

func TestSyncUsers_PushesLists(t *testing.T) {
	sm, fx := newSyncFixture(t)
	ctx := context.Background()

	item, err := fx.content.CreateContent(ctx, CreateContentParams{Name: "A", Type: domain.ContentTypeImage})
	require.NoError(t, err)
	_, err = fx.users.Authenticate(ctx, "u1", "alice")
	require.NoError(t, err)
	_, err = fx.users.ToggleBookmark(ctx, "u1", item.ID)
	require.NoError(t, err)

	// Drift: wipe the stored lists.
	require.NoError(t, fx.store.SetUserLists(ctx, "u1", nil, nil))

	require.NoError(t, sm.SyncUsers(ctx))

	records, err := fx.store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{item.ID}, records[0].Bookmarks)
}

func TestSyncAll_PersistsPruneAfterContentDelete(t *testing.T) {
	sm, fx := newSyncFixture(t)
	ctx := context.Background()

	item, err := fx.content.CreateContent(ctx, CreateContentParams{Name: "A", Type: domain.ContentTypeImage})
	require.NoError(t, err)
	keeper, err := fx.content.CreateContent(ctx, CreateContentParams{Name: "B", Type: domain.ContentTypeImage})
	require.NoError(t, err)

	_, err = fx.users.Authenticate(ctx, "u1", "alice")
	require.NoError(t, err)
	_, err = fx.users.ToggleBookmark(ctx, "u1", item.ID)
	require.NoError(t, err)
	_, err = fx.users.ToggleBookmark(ctx, "u1", keeper.ID)
	require.NoError(t, err)

	// Deleting content prunes the mirror; the sync persists the pruned lists.
	require.NoError(t, fx.content.DeleteContent(ctx, item.ID))
	require.NoError(t, sm.SyncAll(ctx))

	records, err := fx.store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{keeper.ID}, records[0].Bookmarks)
}
