// Package auth provides session credentials and token utilities.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	tokenIssuer   = "creatorhub-server"
	tokenAudience = "creatorhub-web"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32 // 256 bits
	keyHexSize   = 64 // 32 bytes as hex string

	// Session tokens carry 256 bits of entropy.
	sessionTokenSize = 32
)

// TokenService issues and verifies the opaque credential handed to the web
// client after login. The credential is a PASETO v4.local token wrapping the
// session token and user id; the session token itself is what the store and
// the mirrors index.
type TokenService struct {
	symmetricKey    paseto.V4SymmetricKey
	sessionDuration time.Duration
}

// SessionClaims are the claims carried inside a session credential.
type SessionClaims struct {
	SessionToken string `json:"session_token"`
	UserID       string `json:"user_id"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
}

// NewTokenService creates a token service from a 64-hex-character key.
func NewTokenService(keyHex string, sessionDuration time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey:    key,
		sessionDuration: sessionDuration,
	}, nil
}

// IssueCredential creates an encrypted credential for a session.
// The credential expires together with the session it wraps.
func (s *TokenService) IssueCredential(sessionToken, userID string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(userID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.sessionDuration))

	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("session_token", sessionToken)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("user_id", userID)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyCredential verifies and parses a session credential.
// Returns the claims if valid, or an error if invalid or expired.
func (s *TokenService) VerifyCredential(credential string) (*SessionClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid credential: %w", err)
	}

	var claims SessionClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	return &claims, nil
}

// SessionDuration returns the configured session lifetime.
func (s *TokenService) SessionDuration() time.Duration {
	return s.sessionDuration
}

// NewSessionToken creates a cryptographically random opaque session token.
// NOTE: this is NOT a PASETO token, it's just random bytes stored in the
// database and in the session indices.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	return hex.EncodeToString(b), nil
}
