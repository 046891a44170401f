package domain

import "time"

const (
	// BookmarkLimit caps the number of bookmarks a user may hold.
	BookmarkLimit = 150
	// RecentLimit caps the view-history list, most recent first.
	RecentLimit = 100
)

// User is an account backed by the external identity provider. UserID is
// provider-assigned; Username is refreshed from the provider on every login.
type User struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`

	// Bookmarks and Recent reference content items that are guaranteed to
	// still exist in the content mirror; they are pruned on content deletion.
	Bookmarks []*Content `json:"-"`
	Recent    []*Content `json:"-"`

	// Sessions holds every live session for this user, keyed by token.
	Sessions map[string]*Session `json:"-"`
}

// BookmarkIDs returns the ids of the bookmarked content items.
func (u *User) BookmarkIDs() []string {
	return contentIDs(u.Bookmarks)
}

// RecentIDs returns the ids of the recently viewed content items.
func (u *User) RecentIDs() []string {
	return contentIDs(u.Recent)
}

// HasBookmark reports whether the content id is currently bookmarked.
func (u *User) HasBookmark(contentID string) bool {
	for _, c := range u.Bookmarks {
		if c.ID == contentID {
			return true
		}
	}
	return false
}

// PruneContent removes the content id from both the bookmark and recent
// lists. Called when a content item is deleted from the mirror.
func (u *User) PruneContent(contentID string) {
	u.Bookmarks = removeContent(u.Bookmarks, contentID)
	u.Recent = removeContent(u.Recent, contentID)
}

func contentIDs(items []*Content) []string {
	ids := make([]string, 0, len(items))
	for _, c := range items {
		ids = append(ids, c.ID)
	}
	return ids
}

func removeContent(items []*Content, contentID string) []*Content {
	filtered := items[:0]
	for _, c := range items {
		if c.ID != contentID {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
