package api

import (
	"net/http"

	"github.com/creatorhubapp/creatorhub-server/internal/http/response"
)

type contentRef struct {
	ContentID string `json:"content_id" validate:"required"`
}

// handleToggleBookmark adds or removes a bookmark for the calling user.
func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	var payload contentRef
	if err := s.decodeAndValidate(r, &payload); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	userID := getUserID(r.Context())
	bookmarked, err := s.users.ToggleBookmark(r.Context(), userID, payload.ContentID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{"bookmarked": bookmarked}, s.logger)
}

// handleTrackView records a content view in the calling user's history.
func (s *Server) handleTrackView(w http.ResponseWriter, r *http.Request) {
	var payload contentRef
	if err := s.decodeAndValidate(r, &payload); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	userID := getUserID(r.Context())
	if err := s.users.HandleView(r.Context(), userID, payload.ContentID); err != nil {
		s.logger.Error("view tracking failed", "user_id", userID, "error", err)
		response.InternalError(w, "Failed to record view", s.logger)
		return
	}

	response.NoContent(w)
}
