package api

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorhubapp/creatorhub-server/internal/auth"
	"github.com/creatorhubapp/creatorhub-server/internal/domain"
	"github.com/creatorhubapp/creatorhub-server/internal/http/response"
	"github.com/creatorhubapp/creatorhub-server/internal/identity"
	"github.com/creatorhubapp/creatorhub-server/internal/search"
	"github.com/creatorhubapp/creatorhub-server/internal/service"
	"github.com/creatorhubapp/creatorhub-server/internal/store"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type testServer struct {
	server  *Server
	content *service.ContentManager
	users   *service.UserManager
}

// newTestServer wires a full server against a throwaway store and a scripted
// identity provider.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := store.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	idx, err := search.NewIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer"}`))
		case "/users/@me":
			_, _ = w.Write([]byte(`{"id":"provider-1","username":"alice"}`))
		case "/oauth2/token/revoke":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(provider.Close)

	idClient := identity.New(identity.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://hub.test/callback",
		APIBase:      provider.URL,
	}, logger)
	t.Cleanup(idClient.Close)

	tokens, err := auth.NewTokenService(testKeyHex, time.Hour)
	require.NoError(t, err)

	cm := service.NewContentManager(st, service.NewBleveIndexer(idx), logger)
	require.NoError(t, cm.Load(context.Background()))
	um := service.NewUserManager(st, idClient, tokens, cm, 6*time.Hour, logger)
	require.NoError(t, um.Load(context.Background()))
	cm.SetUserPruner(um)

	srv := NewServer(cm, um, tokens, idx, Options{AllowedOrigins: []string{"*"}}, logger)

	return &testServer{server: srv, content: cm, users: um}
}

func (ts *testServer) do(t *testing.T, method, path, body, credential string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

// login runs the OAuth2 callback and returns the issued credential.
func (ts *testServer) login(t *testing.T) string {
	t.Helper()

	rec := ts.do(t, http.MethodGet, "/api/v1/auth/callback?code=the-code", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data struct {
			Credential string `json:"credential"`
			UserID     string `json:"user_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Credential)
	return envelope.Data.Credential
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
}

func TestCatalogReads(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.content.AddTag(ctx, "nature", "Nature"))
	item, err := ts.content.CreateContent(ctx, service.CreateContentParams{
		Name:   "Forest",
		Type:   domain.ContentTypeImage,
		TagIDs: []string{"nature"},
		Downloads: []service.DownloadParams{
			{Name: "HD", URL: "https://cdn.test/hd.png"},
		},
	})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/v1/content", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), item.ID)
	assert.Contains(t, rec.Body.String(), `"preview":"https://cdn.test/hd.png"`)

	rec = ts.do(t, http.MethodGet, "/api/v1/content/"+item.ID, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/content/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/tags", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nature")

	rec = ts.do(t, http.MethodGet, "/api/v1/tags/nature", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRandomContent(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	for range 3 {
		_, err := ts.content.CreateContent(ctx, service.CreateContentParams{Name: "X", Type: domain.ContentTypeMusic})
		require.NoError(t, err)
	}

	rec := ts.do(t, http.MethodGet, "/api/v1/content/random?amount=2", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/content/random?amount=nope", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := ts.content.CreateContent(ctx, service.CreateContentParams{Name: "Forest Walk", Type: domain.ContentTypeVideo})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/v1/content/search?q=forest", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Forest Walk")
}

func TestLoginAndSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	credential := ts.login(t)

	// Authenticated user state.
	rec := ts.do(t, http.MethodGet, "/api/v1/user/me", "", credential)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")

	// Missing or garbage credentials are rejected.
	rec = ts.do(t, http.MethodGet, "/api/v1/user/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/v1/user/me", "", "v4.local.garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout revokes the session behind the credential.
	rec = ts.do(t, http.MethodPost, "/api/v1/auth/logout", "", credential)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/v1/user/me", "", credential)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutAll(t *testing.T) {
	ts := newTestServer(t)

	first := ts.login(t)
	second := ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/logout-all", "", first)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	for _, credential := range []string{first, second} {
		rec = ts.do(t, http.MethodGet, "/api/v1/user/me", "", credential)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestBookmarkAndViewEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	item, err := ts.content.CreateContent(ctx, service.CreateContentParams{Name: "A", Type: domain.ContentTypeImage})
	require.NoError(t, err)
	credential := ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/user/bookmarks", `{"content_id":"`+item.ID+`"}`, credential)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bookmarked":true`)

	rec = ts.do(t, http.MethodPost, "/api/v1/user/views", `{"content_id":"`+item.ID+`"}`, credential)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/user/me", "", credential)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), item.ID)

	// Unknown content is a domain not-found.
	rec = ts.do(t, http.MethodPost, "/api/v1/user/bookmarks", `{"content_id":"ghost"}`, credential)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Validation failures are 400s.
	rec = ts.do(t, http.MethodPost, "/api/v1/user/bookmarks", `{}`, credential)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)
	credential := ts.login(t)

	// Admin routes require a session.
	rec := ts.do(t, http.MethodPost, "/api/v1/admin/tags", `{"id":"nature","name":"Nature"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/admin/tags", `{"id":"nature","name":"Nature"}`, credential)
	assert.Equal(t, http.StatusCreated, rec.Code)

	body := `{"name":"Forest","type":"image","tag_ids":["nature"],"downloads":[{"name":"HD","url":"https://cdn.test/hd.png"}]}`
	rec = ts.do(t, http.MethodPost, "/api/v1/admin/content", body, credential)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data ContentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	contentID := created.Data.ID
	require.NotEmpty(t, contentID)

	rec = ts.do(t, http.MethodPatch, "/api/v1/admin/content/"+contentID, `{"name":"Forest Walk"}`, credential)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Forest Walk")

	rec = ts.do(t, http.MethodPatch, "/api/v1/admin/content/missing", `{"name":"X"}`, credential)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/admin/content", `{"name":"Bad","type":"hologram"}`, credential)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/v1/admin/content/"+contentID, "", credential)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := ts.content.GetContent(contentID)
	assert.False(t, ok)

	rec = ts.do(t, http.MethodDelete, "/api/v1/admin/tags/nature", "", credential)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
