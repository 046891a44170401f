package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	return idx
}

func seedTestIndex(t *testing.T, idx *Index) {
	t.Helper()

	nature := &domain.Tag{ID: "tag-1", Name: "nature"}
	city := &domain.Tag{ID: "tag-2", Name: "city"}

	docs := []*Document{
		ContentToDocument(&domain.Content{
			ID:       "content-1",
			Name:     "Forest Walk",
			Type:     domain.ContentTypeVideo,
			UseCases: []string{"intro backdrop"},
			Tags:     []*domain.Tag{nature},
		}),
		ContentToDocument(&domain.Content{
			ID:   "content-2",
			Name: "Forest Ambience",
			Type: domain.ContentTypeMusic,
			Tags: []*domain.Tag{nature},
		}),
		ContentToDocument(&domain.Content{
			ID:   "content-3",
			Name: "Night Skyline",
			Type: domain.ContentTypeImage,
			Tags: []*domain.Tag{city},
		}),
	}
	require.NoError(t, idx.IndexDocuments(docs))
}

func TestSearch_ByName(t *testing.T) {
	idx := setupTestIndex(t)
	seedTestIndex(t, idx)

	result, err := idx.Search(context.Background(), Params{Query: "forest", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	assert.ElementsMatch(t, []string{"content-1", "content-2"}, ids)
}

func TestSearch_FuzzyMatch(t *testing.T) {
	idx := setupTestIndex(t)
	seedTestIndex(t, idx)

	result, err := idx.Search(context.Background(), Params{Query: "forset", Limit: 10})
	require.NoError(t, err)
	assert.NotZero(t, result.Total, "one-letter typo should still match")
}

func TestSearch_TypeAndTagFilters(t *testing.T) {
	idx := setupTestIndex(t)
	seedTestIndex(t, idx)
	ctx := context.Background()

	result, err := idx.Search(ctx, Params{Query: "forest", Types: []string{"music"}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "content-2", result.Hits[0].ID)

	result, err = idx.Search(ctx, Params{Tags: []string{"city"}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "content-3", result.Hits[0].ID)
	assert.Equal(t, []string{"city"}, result.Hits[0].Tags)
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	idx := setupTestIndex(t)
	seedTestIndex(t, idx)

	result, err := idx.Search(context.Background(), Params{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Total)
}

func TestSearch_Facets(t *testing.T) {
	idx := setupTestIndex(t)
	seedTestIndex(t, idx)

	result, err := idx.Search(context.Background(), Params{Limit: 10, IncludeFacets: true})
	require.NoError(t, err)

	types := make(map[string]int)
	for _, f := range result.Facets.Types {
		types[f.Value] = f.Count
	}
	assert.Equal(t, map[string]int{"image": 1, "video": 1, "music": 1}, types)
}

func TestDeleteDocument(t *testing.T) {
	idx := setupTestIndex(t)
	seedTestIndex(t, idx)

	require.NoError(t, idx.DeleteDocument("content-1"))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestRebuild_EmptiesIndex(t *testing.T) {
	idx := setupTestIndex(t)
	seedTestIndex(t, idx)

	require.NoError(t, idx.Rebuild())

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}
