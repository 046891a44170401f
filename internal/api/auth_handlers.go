package api

import (
	"net/http"

	"github.com/creatorhubapp/creatorhub-server/internal/http/response"
)

// loginResponse carries the session credential issued on a successful login.
type loginResponse struct {
	Credential string `json:"credential"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
}

// handleOAuthCallback finishes the provider login: the front-end lands here
// with the authorization code, and gets back the session credential.
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		response.BadRequest(w, "Missing authorization code", s.logger)
		return
	}

	profile, err := s.users.UserFromOAuth2(r.Context(), code)
	if err != nil {
		s.logger.Error("oauth2 login failed", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	credential, err := s.users.Authenticate(r.Context(), profile.ID, profile.Username)
	if err != nil {
		s.logger.Error("authentication failed", "user_id", profile.ID, "error", err)
		response.InternalError(w, "Login failed", s.logger)
		return
	}

	response.Success(w, loginResponse{
		Credential: credential,
		UserID:     profile.ID,
		Username:   profile.Username,
	}, s.logger)
}

// handleLogout revokes the calling session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := getSessionToken(r.Context())

	if err := s.users.DeleteSession(r.Context(), token); err != nil {
		s.logger.Error("logout failed", "error", err)
		response.InternalError(w, "Logout failed", s.logger)
		return
	}

	response.NoContent(w)
}

// handleLogoutAll revokes every session the calling user owns.
func (s *Server) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	if err := s.users.DeleteUserSessions(r.Context(), userID); err != nil {
		s.logger.Error("logout-all failed", "user_id", userID, "error", err)
		response.InternalError(w, "Logout failed", s.logger)
		return
	}

	response.NoContent(w)
}

// handleGetCurrentUser returns the calling user's state payload.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.users.GetUser(getUserID(r.Context()))
	if !ok {
		response.NotFound(w, "User not found", s.logger)
		return
	}

	response.Success(w, toUserResponse(user), s.logger)
}
