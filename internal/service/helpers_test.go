package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/creatorhubapp/creatorhub-server/internal/auth"
	"github.com/creatorhubapp/creatorhub-server/internal/domain"
	"github.com/creatorhubapp/creatorhub-server/internal/identity"
	"github.com/creatorhubapp/creatorhub-server/internal/store"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestStore(t *testing.T) *store.Badger {
	t.Helper()

	s, err := store.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestContentManager(t *testing.T) (*ContentManager, *store.Badger) {
	t.Helper()

	st := newTestStore(t)
	cm := NewContentManager(st, NoopIndexer{}, discardLogger())
	require.NoError(t, cm.Load(context.Background()))

	return cm, st
}

// recordingIndexer captures which content ids the manager indexes and
// unindexes.
type recordingIndexer struct {
	indexed []string
	deleted []string
}

func (r *recordingIndexer) IndexContent(item *domain.Content) error {
	r.indexed = append(r.indexed, item.ID)
	return nil
}

func (r *recordingIndexer) DeleteContent(contentID string) error {
	r.deleted = append(r.deleted, contentID)
	return nil
}

func (r *recordingIndexer) ReindexAll([]*domain.Content) error { return nil }

// fakeIdentity is a scripted identity provider for login-flow tests.
type fakeIdentity struct {
	profile     *identity.Profile
	exchangeErr error
	revoked     []string
}

func (f *fakeIdentity) ExchangeCode(_ context.Context, code string) (*identity.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &identity.Token{AccessToken: "access-" + code}, nil
}

func (f *fakeIdentity) Profile(_ context.Context, _ string) (*identity.Profile, error) {
	return f.profile, nil
}

func (f *fakeIdentity) Revoke(_ context.Context, accessToken string) error {
	f.revoked = append(f.revoked, accessToken)
	return nil
}

type userManagerFixture struct {
	users    *UserManager
	content  *ContentManager
	store    *store.Badger
	identity *fakeIdentity
	tokens   *auth.TokenService
}

func newUserManagerFixture(t *testing.T, sessionDuration time.Duration) *userManagerFixture {
	t.Helper()

	st := newTestStore(t)
	cm := NewContentManager(st, NoopIndexer{}, discardLogger())
	require.NoError(t, cm.Load(context.Background()))

	tokens, err := auth.NewTokenService(testKeyHex, sessionDuration)
	require.NoError(t, err)

	idp := &fakeIdentity{profile: &identity.Profile{ID: "provider-1", Username: "alice"}}
	um := NewUserManager(st, idp, tokens, cm, 6*time.Hour, discardLogger())
	require.NoError(t, um.Load(context.Background()))
	cm.SetUserPruner(um)

	return &userManagerFixture{
		users:    um,
		content:  cm,
		store:    st,
		identity: idp,
		tokens:   tokens,
	}
}

// sessionTokenFromCredential unwraps the opaque credential issued at login.
func sessionTokenFromCredential(t *testing.T, tokens *auth.TokenService, credential string) string {
	t.Helper()

	require.True(t, strings.HasPrefix(credential, "v4.local."))
	claims, err := tokens.VerifyCredential(credential)
	require.NoError(t, err)
	return claims.SessionToken
}
