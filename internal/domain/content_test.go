package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewURL_ExplicitWins(t *testing.T) {
	c := &Content{
		Preview: "https://cdn.test/explicit.png",
		Downloads: []*Download{
			{Name: "HD", URL: "https://cdn.test/hd.png"},
		},
	}
	assert.Equal(t, "https://cdn.test/explicit.png", c.PreviewURL())
}

func TestPreviewURL_PrefersHDDownload(t *testing.T) {
	c := &Content{
		Downloads: []*Download{
			{Name: "Thumbnail", URL: "https://cdn.test/thumb.png"},
			{Name: "HD 1080p", URL: "https://cdn.test/hd.png"},
		},
	}
	assert.Equal(t, "https://cdn.test/hd.png", c.PreviewURL())
}

func TestPreviewURL_FallsBackToFirstDownload(t *testing.T) {
	c := &Content{
		Downloads: []*Download{
			{Name: "Original", URL: "https://cdn.test/orig.png"},
			{Name: "Small", URL: "https://cdn.test/small.png"},
		},
	}
	assert.Equal(t, "https://cdn.test/orig.png", c.PreviewURL())
}

func TestPreviewURL_NoDownloads(t *testing.T) {
	c := &Content{}
	assert.Empty(t, c.PreviewURL())
}

func TestContentType_Valid(t *testing.T) {
	assert.True(t, ContentTypeImage.Valid())
	assert.True(t, ContentTypeVideo.Valid())
	assert.True(t, ContentTypeMusic.Valid())
	assert.False(t, ContentType("gif").Valid())
	assert.False(t, ContentType("").Valid())
}

func TestTag_RemoveContent(t *testing.T) {
	a := &Content{ID: "a"}
	b := &Content{ID: "b"}
	tag := &Tag{ID: "nature", Name: "Nature", Content: []*Content{a, b}}

	tag.RemoveContent("a")
	assert.Equal(t, []*Content{b}, tag.Content)

	// Removing an unlinked id is a no-op.
	tag.RemoveContent("missing")
	assert.Equal(t, []*Content{b}, tag.Content)
}

func TestUser_PruneContent(t *testing.T) {
	a := &Content{ID: "a"}
	b := &Content{ID: "b"}
	u := &User{
		UserID:    "u1",
		Bookmarks: []*Content{a, b},
		Recent:    []*Content{b, a},
	}

	u.PruneContent("b")
	assert.Equal(t, []string{"a"}, u.BookmarkIDs())
	assert.Equal(t, []string{"a"}, u.RecentIDs())
	assert.False(t, u.HasBookmark("b"))
	assert.True(t, u.HasBookmark("a"))
}
