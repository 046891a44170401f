// Package identity talks to the Discord OAuth2 API. It exchanges login codes
// for access tokens, fetches the profile behind a token, and revokes tokens
// once the profile has been read.
package identity

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/creatorhubapp/creatorhub-server/internal/ratelimit"
)

const (
	// Discord allows far more, but logins are rare enough that a
	// conservative limit keeps us clear of 429s.
	defaultRPS   = 5.0
	defaultBurst = 10

	defaultTimeout = 30 * time.Second

	// DefaultAPIBase is the production Discord API root.
	DefaultAPIBase = "https://discord.com/api/v10"
)

// Rate-limit keys, one bucket per endpoint.
const (
	keyToken   = "token"
	keyProfile = "profile"
	keyRevoke  = "revoke"
)

// Profile is the subset of the provider account we keep.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Token is the result of an authorization-code exchange. The tokens are used
// once to fetch the profile and are then revoked, never persisted.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Config carries the OAuth2 application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	APIBase      string // defaults to DefaultAPIBase when empty
}

// Client is a rate-limited Discord OAuth2 client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger

	clientID     string
	clientSecret string
	redirectURL  string
	apiBase      string
}

// New creates a new identity client.
func New(cfg Config, logger *slog.Logger) *Client {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}

	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:      ratelimit.New(defaultRPS, defaultBurst),
		logger:       logger,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  cfg.RedirectURL,
		apiBase:      strings.TrimSuffix(apiBase, "/"),
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// ExchangeCode trades an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.redirectURL},
	}

	body, err := c.postForm(ctx, keyToken, "/oauth2/token", form)
	if err != nil {
		return nil, wrapError("exchangeCode", err)
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, wrapError("exchangeCode", fmt.Errorf("parse token response: %w", err))
	}
	if token.AccessToken == "" {
		return nil, wrapError("exchangeCode", ErrNoToken)
	}

	return &token, nil
}

// Profile fetches the account behind an access token.
func (c *Client) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	if err := c.limiter.Wait(ctx, keyProfile); err != nil {
		return nil, wrapError("profile", fmt.Errorf("rate limit wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/users/@me", nil)
	if err != nil {
		return nil, wrapError("profile", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := c.do(req)
	if err != nil {
		return nil, wrapError("profile", err)
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, wrapError("profile", fmt.Errorf("parse profile response: %w", err))
	}
	if profile.ID == "" {
		return nil, wrapError("profile", ErrNoProfile)
	}

	return &profile, nil
}

// Revoke invalidates an access token with the provider. Tokens are revoked
// right after login so a server compromise cannot leak usable provider
// credentials.
func (c *Client) Revoke(ctx context.Context, accessToken string) error {
	form := url.Values{
		"token":           {accessToken},
		"token_type_hint": {"access_token"},
	}

	if _, err := c.postForm(ctx, keyRevoke, "/oauth2/token/revoke", form); err != nil {
		return wrapError("revoke", err)
	}
	return nil
}

// postForm executes a rate-limited, client-authenticated form POST.
func (c *Client) postForm(ctx context.Context, limitKey, path string, form url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, limitKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	return c.do(req)
}

// do executes a request and maps error statuses to sentinels.
func (c *Client) do(req *http.Request) ([]byte, error) {
	c.logger.Debug("identity request",
		"method", req.Method,
		"path", req.URL.Path,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
