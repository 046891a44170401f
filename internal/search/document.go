// Package search provides full-text search over the content catalog using
// Bleve, with type and tag filtering and fuzzy matching.
package search

import (
	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

// Document is the structure indexed for each piece of content.
//
// Tag names are denormalized into the document so a single query covers both
// the content name and its tags. The index is rebuilt from the content mirror
// on startup, so stale denormalized names never outlive a restart.
type Document struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`      // image, video or music
	UseCases []string `json:"use_cases"` // editorial suggestions, searchable text
	Tags     []string `json:"tags"`      // denormalized tag names
}

// ToMap converts the document to a map with lowercase field names.
// Bleve would otherwise index Go struct field names (capitalized), which
// would not match the mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":   d.ID,
		"name": d.Name,
		"type": d.Type,
	}

	if len(d.UseCases) > 0 {
		m["use_cases"] = d.UseCases
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}

	return m
}

// ContentToDocument converts catalog content to an indexable document.
// Tag names come from the resolved Tags backlinks.
func ContentToDocument(content *domain.Content) *Document {
	doc := &Document{
		ID:       content.ID,
		Name:     content.Name,
		Type:     string(content.Type),
		UseCases: content.UseCases,
	}

	for _, tag := range content.Tags {
		doc.Tags = append(doc.Tags, tag.Name)
	}

	return doc
}
