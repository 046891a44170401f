package store

import (
	"context"
	"time"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

// UserRecord is the persisted shape of a user. Bookmarks and Recent hold
// content ids; the user manager resolves them against the content mirror.
type UserRecord struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Bookmarks []string  `json:"bookmarks"`
	Recent    []string  `json:"recent"`
}

// Store is the persistence contract required by the managers. Single-row
// operations are atomic; the only multi-row operations are the explicit
// bulk deletes.
type Store interface {
	// Lifecycle
	Close() error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]*domain.Tag, error)

	// Content rows (downloads are separate rows, tags persist as TagIDs)
	CreateContent(ctx context.Context, content *domain.Content) error
	UpdateContent(ctx context.Context, content *domain.Content) error
	SetContentTags(ctx context.Context, contentID string, tagIDs []string) error
	DeleteContent(ctx context.Context, id string) error
	ListContent(ctx context.Context) ([]*domain.Content, error)

	// Downloads
	CreateDownloads(ctx context.Context, downloads []*domain.Download) error
	ListDownloadsByContent(ctx context.Context, contentID string) ([]*domain.Download, error)
	DeleteDownloads(ctx context.Context, ids []string) error
	DeleteDownloadsByContent(ctx context.Context, contentID string) error

	// Users
	CreateUser(ctx context.Context, record *UserRecord) error
	UpdateUsername(ctx context.Context, userID, username string) error
	SetUserLists(ctx context.Context, userID string, bookmarks, recent []string) error
	ListUsers(ctx context.Context) ([]*UserRecord, error)

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteSessions(ctx context.Context, tokens []string) error
	ListSessions(ctx context.Context) ([]*domain.Session, error)
	ListExpiredSessions(ctx context.Context, now time.Time) ([]*domain.Session, error)
}
