package identity

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://hub.test/callback",
		APIBase:      srv.URL,
	}, slog.New(slog.DiscardHandler))
	t.Cleanup(c.Close)

	return c
}

func TestExchangeCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/oauth2/token", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "https://hub.test/callback", r.PostForm.Get("redirect_uri"))

		out, err := json.Marshal(map[string]any{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"token_type":    "Bearer",
			"expires_in":    604800,
		})
		require.NoError(t, err)
		_, _ = w.Write(out)
	}))

	token, err := c.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "at-1", token.AccessToken)
	assert.Equal(t, "rt-1", token.RefreshToken)
}

func TestExchangeCode_EmptyToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := c.ExchangeCode(context.Background(), "the-code")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestProfile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/@me", r.URL.Path)
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"1234","username":"alice"}`))
	}))

	profile, err := c.Profile(context.Background(), "at-1")
	require.NoError(t, err)
	assert.Equal(t, "1234", profile.ID)
	assert.Equal(t, "alice", profile.Username)
}

func TestProfile_Unauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Profile(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	var idErr *Error
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, "profile", idErr.Op)
}

func TestRevoke(t *testing.T) {
	var revoked string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth2/token/revoke", r.URL.Path)
		require.NoError(t, r.ParseForm())
		revoked = r.PostForm.Get("token")
		_, _ = w.Write([]byte(`{}`))
	}))

	require.NoError(t, c.Revoke(context.Background(), "at-1"))
	assert.Equal(t, "at-1", revoked)
}

func TestErrorStatusMapping(t *testing.T) {
	for _, tc := range []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusBadGateway, ErrServer},
	} {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))

		_, err := c.ExchangeCode(context.Background(), "code")
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}
