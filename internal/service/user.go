package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/creatorhubapp/creatorhub-server/internal/auth"
	"github.com/creatorhubapp/creatorhub-server/internal/domain"
	domainerrors "github.com/creatorhubapp/creatorhub-server/internal/errors"
	"github.com/creatorhubapp/creatorhub-server/internal/identity"
	"github.com/creatorhubapp/creatorhub-server/internal/store"
)

// IdentityClient is the OAuth2 surface the login flow needs.
type IdentityClient interface {
	ExchangeCode(ctx context.Context, code string) (*identity.Token, error)
	Profile(ctx context.Context, accessToken string) (*identity.Profile, error)
	Revoke(ctx context.Context, accessToken string) error
}

// ContentResolver resolves content ids against the content mirror. Used to
// turn persisted bookmark/recent id lists back into live references.
type ContentResolver interface {
	GetContent(contentID string) (*domain.Content, bool)
}

// UserManager is the authoritative in-process cache of users and sessions.
// It owns the OAuth2 login flow, session issuance and revocation, the expiry
// sweep, and bookmark/recent maintenance.
//
// Same locking discipline as ContentManager: the lock guards the maps only
// and is never held across store round-trips.
type UserManager struct {
	store    store.Store
	identity IdentityClient
	tokens   *auth.TokenService
	resolver ContentResolver
	logger   *slog.Logger

	mu       sync.RWMutex
	users    map[string]*domain.User
	sessions map[string]*domain.Session

	sweepInterval time.Duration
}

// NewUserManager creates a user manager with an empty mirror.
// Call Load before serving.
func NewUserManager(
	st store.Store,
	identityClient IdentityClient,
	tokens *auth.TokenService,
	resolver ContentResolver,
	sweepInterval time.Duration,
	logger *slog.Logger,
) *UserManager {
	return &UserManager{
		store:         st,
		identity:      identityClient,
		tokens:        tokens,
		resolver:      resolver,
		logger:        logger,
		users:         make(map[string]*domain.User),
		sessions:      make(map[string]*domain.Session),
		sweepInterval: sweepInterval,
	}
}

// Load builds the user and session mirrors from the store. Bookmark and
// recent ids that no longer resolve against the content mirror are silently
// dropped; that is a defensive filter, not an error. Startup-only; the
// caller terminates the process on error.
func (m *UserManager) Load(ctx context.Context) error {
	records, err := m.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	sessions, err := m.store.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	byUser := make(map[string][]*domain.Session)
	for _, session := range sessions {
		byUser[session.UserID] = append(byUser[session.UserID], session)
	}

	users := make(map[string]*domain.User, len(records))
	for _, record := range records {
		user := &domain.User{
			UserID:    record.UserID,
			Username:  record.Username,
			CreatedAt: record.CreatedAt,
			Bookmarks: m.resolveContent(record.Bookmarks),
			Recent:    m.resolveContent(record.Recent),
			Sessions:  make(map[string]*domain.Session),
		}
		for _, session := range byUser[record.UserID] {
			user.Sessions[session.Token] = session
		}
		users[user.UserID] = user
	}

	index := make(map[string]*domain.Session, len(sessions))
	for _, session := range sessions {
		index[session.Token] = session
	}

	m.mu.Lock()
	m.users = users
	m.sessions = index
	m.mu.Unlock()

	m.logger.Info("user mirror loaded",
		"user_count", len(users),
		"session_count", len(index),
	)
	return nil
}

// UserFromOAuth2 runs the provider side of a login: exchange the
// authorization code, fetch the profile, revoke the access token. The
// provider tokens are never retained; a revoke failure is logged since the
// token expires on its own.
func (m *UserManager) UserFromOAuth2(ctx context.Context, code string) (*identity.Profile, error) {
	token, err := m.identity.ExchangeCode(ctx, code)
	if err != nil {
		return nil, domainerrors.Provider("code exchange failed").WithCause(err)
	}

	profile, err := m.identity.Profile(ctx, token.AccessToken)
	if err != nil {
		return nil, domainerrors.Provider("profile fetch failed").WithCause(err)
	}

	if err := m.identity.Revoke(ctx, token.AccessToken); err != nil {
		m.logger.Warn("failed to revoke provider token", "user_id", profile.ID, "error", err)
	}

	return profile, nil
}

// Authenticate finishes a login for a provider account: refreshes the
// username if it changed, creates the user on first login, and always
// issues a fresh session. Returns the opaque credential handed to the
// client.
func (m *UserManager) Authenticate(ctx context.Context, userID, username string) (string, error) {
	m.mu.RLock()
	user, exists := m.users[userID]
	m.mu.RUnlock()

	if exists {
		if user.Username != username {
			if err := m.store.UpdateUsername(ctx, userID, username); err != nil {
				return "", fmt.Errorf("update username: %w", err)
			}
			m.mu.Lock()
			user.Username = username
			m.mu.Unlock()
		}
	} else {
		record := &store.UserRecord{
			UserID:    userID,
			Username:  username,
			CreatedAt: time.Now().UTC(),
		}
		if err := m.store.CreateUser(ctx, record); err != nil {
			return "", fmt.Errorf("create user: %w", err)
		}

		user = &domain.User{
			UserID:    record.UserID,
			Username:  record.Username,
			CreatedAt: record.CreatedAt,
			Sessions:  make(map[string]*domain.Session),
		}
		m.mu.Lock()
		m.users[userID] = user
		m.mu.Unlock()

		m.logger.Info("user created", "user_id", userID, "username", username)
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	session := &domain.Session{
		Token:          token,
		UserID:         userID,
		ExpirationDate: time.Now().Add(m.tokens.SessionDuration()),
	}
	if err := m.store.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	m.mu.Lock()
	m.sessions[token] = session
	user.Sessions[token] = session
	m.mu.Unlock()

	credential, err := m.tokens.IssueCredential(token, userID)
	if err != nil {
		return "", fmt.Errorf("issue credential: %w", err)
	}

	m.logger.Info("session issued", "user_id", userID)
	return credential, nil
}

// Session returns the session for a token if it is valid: indexed globally,
// indexed on its owner, and not expired. Expired-but-indexed sessions are
// invalid and wait for the next sweep.
func (m *UserManager) Session(token string) (*domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[token]
	if !ok || session.IsExpired() {
		return nil, false
	}
	user, ok := m.users[session.UserID]
	if !ok {
		return nil, false
	}
	if _, ok := user.Sessions[token]; !ok {
		return nil, false
	}
	return session, true
}

// GetUser returns the mirrored user for an id.
func (m *UserManager) GetUser(userID string) (*domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[userID]
	return user, ok
}

// DeleteSession revokes one session: store row first, then both indices.
// Unknown tokens are a silent no-op.
func (m *UserManager) DeleteSession(ctx context.Context, token string) error {
	if err := m.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	m.mu.Lock()
	m.removeSessionLocked(token)
	m.mu.Unlock()

	return nil
}

// DeleteUserSessions revokes every session a user owns (logout-all).
func (m *UserManager) DeleteUserSessions(ctx context.Context, userID string) error {
	if err := m.store.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}

	m.mu.Lock()
	if user, ok := m.users[userID]; ok {
		for token := range user.Sessions {
			delete(m.sessions, token)
		}
		user.Sessions = make(map[string]*domain.Session)
	}
	m.mu.Unlock()

	m.logger.Info("all sessions revoked", "user_id", userID)
	return nil
}

// StartSweeper purges expired sessions on a fixed schedule until the
// context is canceled. Errors are logged, never propagated; the next run
// retries from scratch.
func (m *UserManager) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Sweep(ctx); err != nil {
				m.logger.Error("session sweep failed", "error", err)
			}
		}
	}
}

// Sweep removes every expired session from both indices and the store.
func (m *UserManager) Sweep(ctx context.Context) error {
	expired, err := m.store.ListExpiredSessions(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("list expired sessions: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(expired))
	m.mu.Lock()
	for _, session := range expired {
		m.removeSessionLocked(session.Token)
		tokens = append(tokens, session.Token)
	}
	m.mu.Unlock()

	if err := m.store.DeleteSessions(ctx, tokens); err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}

	m.logger.Info("swept expired sessions", "count", len(tokens))
	return nil
}

// HandleView prepends the content to the user's view history and truncates
// it to the cap, most recent first. Unknown users or content ids are a
// silent no-op.
func (m *UserManager) HandleView(ctx context.Context, userID, contentID string) error {
	item, ok := m.resolver.GetContent(contentID)
	if !ok {
		return nil
	}

	m.mu.Lock()
	user, ok := m.users[userID]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	user.Recent = append([]*domain.Content{item}, user.Recent...)
	if len(user.Recent) > domain.RecentLimit {
		user.Recent = user.Recent[:domain.RecentLimit]
	}
	bookmarks, recent := user.BookmarkIDs(), user.RecentIDs()
	m.mu.Unlock()

	if err := m.store.SetUserLists(ctx, userID, bookmarks, recent); err != nil {
		return fmt.Errorf("persist view history: %w", err)
	}
	return nil
}

// ToggleBookmark adds or removes a bookmark depending on current
// membership. Returns whether the content is bookmarked afterwards. Adding
// past the cap is a capacity error, not a silent drop.
func (m *UserManager) ToggleBookmark(ctx context.Context, userID, contentID string) (bool, error) {
	item, ok := m.resolver.GetContent(contentID)
	if !ok {
		return false, domainerrors.NotFound("content not found")
	}

	m.mu.Lock()
	user, ok := m.users[userID]
	if !ok {
		m.mu.Unlock()
		return false, domainerrors.NotFound("user not found")
	}

	var bookmarked bool
	if user.HasBookmark(contentID) {
		filtered := user.Bookmarks[:0]
		for _, c := range user.Bookmarks {
			if c.ID != contentID {
				filtered = append(filtered, c)
			}
		}
		user.Bookmarks = filtered
	} else {
		if len(user.Bookmarks) >= domain.BookmarkLimit {
			m.mu.Unlock()
			return false, domainerrors.BookmarkLimit("bookmark limit reached")
		}
		user.Bookmarks = append(user.Bookmarks, item)
		bookmarked = true
	}
	bookmarks, recent := user.BookmarkIDs(), user.RecentIDs()
	m.mu.Unlock()

	if err := m.store.SetUserLists(ctx, userID, bookmarks, recent); err != nil {
		return bookmarked, fmt.Errorf("persist bookmarks: %w", err)
	}
	return bookmarked, nil
}

// resolveContent maps content ids to live mirror references, dropping ids
// that no longer resolve.
func (m *UserManager) resolveContent(contentIDs []string) []*domain.Content {
	items := make([]*domain.Content, 0, len(contentIDs))
	for _, contentID := range contentIDs {
		if item, ok := m.resolver.GetContent(contentID); ok {
			items = append(items, item)
		}
	}
	return items
}

// removeSessionLocked drops a token from the global index and its owner's
// map. Caller holds the write lock.
func (m *UserManager) removeSessionLocked(token string) {
	session, ok := m.sessions[token]
	if !ok {
		return
	}
	delete(m.sessions, token)
	if user, ok := m.users[session.UserID]; ok {
		delete(user.Sessions, token)
	}
}

// PruneContent implements UserPruner: drops a deleted content id from every
// user's bookmark and recent lists. Mirror-only; the hourly sync pushes the
// pruned lists to the store.
func (m *UserManager) PruneContent(contentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		user.PruneContent(contentID)
	}
}

// UserSyncState is the per-user snapshot the sync job pushes to the store.
type UserSyncState struct {
	UserID    string
	Bookmarks []string
	Recent    []string
}

// SyncSnapshot captures the list state needed by the hourly sync without
// holding the lock across store round-trips.
func (m *UserManager) SyncSnapshot() []UserSyncState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]UserSyncState, 0, len(m.users))
	for _, user := range m.users {
		states = append(states, UserSyncState{
			UserID:    user.UserID,
			Bookmarks: user.BookmarkIDs(),
			Recent:    user.RecentIDs(),
		})
	}
	return states
}
