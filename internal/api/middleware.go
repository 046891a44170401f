package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/creatorhubapp/creatorhub-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID       contextKey = "user_id"
	contextKeySessionToken contextKey = "session_token"
)

// requireAuth validates the bearer credential and attaches the user context.
// The credential is verified cryptographically first, then the wrapped
// session token is checked against the live mirror; a session that is
// expired but not yet swept is rejected here.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		claims, err := s.tokens.VerifyCredential(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired credential", s.logger)
			return
		}

		session, ok := s.users.Session(claims.SessionToken)
		if !ok {
			response.Unauthorized(w, "Session revoked or expired", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, session.UserID)
		ctx = context.WithValue(ctx, contextKeySessionToken, session.Token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// getSessionToken extracts the session token from request context.
// Returns empty string if not available.
func getSessionToken(ctx context.Context) string {
	if token, ok := ctx.Value(contextKeySessionToken).(string); ok {
		return token
	}
	return ""
}
