// Package domain defines the entities served by the Creator Hub catalog.
package domain

import "strings"

// ContentType classifies a catalog item.
type ContentType string

const (
	// ContentTypeImage is a still image asset.
	ContentTypeImage ContentType = "image"
	// ContentTypeVideo is a video asset.
	ContentTypeVideo ContentType = "video"
	// ContentTypeMusic is an audio track.
	ContentTypeMusic ContentType = "music"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeImage, ContentTypeVideo, ContentTypeMusic:
		return true
	}
	return false
}

// Content is a browsable catalog item.
//
// Tags is derived state: it always holds exactly the Tag entities whose id
// appears in TagIDs and that currently exist in the content mirror. The two
// must never diverge; the content manager recomputes both on every mutation.
type Content struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     ContentType `json:"type"`
	Preview  string      `json:"preview,omitempty"`
	UseCases []string    `json:"use_cases"`
	TagIDs   []string    `json:"tag_ids"`

	// Downloads are owned exclusively by this content item. Persisted as
	// their own rows, not as part of the content row.
	Downloads []*Download `json:"-"`

	// Tags resolved against the live tag mirror. Not persisted; TagIDs is
	// the stored relation.
	Tags []*Tag `json:"-"`
}

// PreviewURL resolves the preview for this item. An explicit preview wins;
// otherwise the "HD" download is used, falling back to the first download.
func (c *Content) PreviewURL() string {
	if c.Preview != "" {
		return c.Preview
	}
	for _, d := range c.Downloads {
		if strings.Contains(d.Name, "HD") {
			return d.URL
		}
	}
	if len(c.Downloads) > 0 {
		return c.Downloads[0].URL
	}
	return ""
}

// HasTag reports whether the tag id is part of the persisted relation.
func (c *Content) HasTag(tagID string) bool {
	for _, id := range c.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// IsImage reports whether the content is a still image.
func (c *Content) IsImage() bool { return c.Type == ContentTypeImage }

// IsVideo reports whether the content is a video.
func (c *Content) IsVideo() bool { return c.Type == ContentTypeVideo }

// IsMusic reports whether the content is an audio track.
func (c *Content) IsMusic() bool { return c.Type == ContentTypeMusic }

// Download is a single download option for a content item, conventionally
// named after its quality ("HD", "4K", "Thumbnail").
type Download struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	ContentID string `json:"content_id"`
}
