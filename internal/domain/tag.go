package domain

// Tag groups content items. Tag ids are user-chosen at creation time and
// immutable afterwards. Duplicate names under distinct ids are permitted.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Content is the maintained backlink index: every mirrored content item
	// whose TagIDs contains this tag's id. Never persisted independently of
	// the forward relation it mirrors.
	Content []*Content `json:"-"`
}

// RemoveContent drops the content item with the given id from the backlink
// list. No-op when the item is not linked.
func (t *Tag) RemoveContent(contentID string) {
	filtered := t.Content[:0]
	for _, c := range t.Content {
		if c.ID != contentID {
			filtered = append(filtered, c)
		}
	}
	t.Content = filtered
}
