package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/creatorhubapp/creatorhub-server/internal/http/response"
	"github.com/creatorhubapp/creatorhub-server/internal/service"
)

// handleCreateContent creates a catalog item.
func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var params service.CreateContentParams
	if err := s.decodeAndValidate(r, &params); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}
	if !params.Type.Valid() {
		response.BadRequest(w, "type must be image, video or music", s.logger)
		return
	}

	item, err := s.content.CreateContent(r.Context(), params)
	if err != nil {
		s.logger.Error("content creation failed", "error", err)
		response.InternalError(w, "Failed to create content", s.logger)
		return
	}

	response.Created(w, toContentResponse(item), s.logger)
}

// handleUpdateContent applies a partial patch to a catalog item. The mirror
// treats unknown ids as a no-op, so existence is checked here to surface a
// proper 404.
func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "id")
	if _, ok := s.content.GetContent(contentID); !ok {
		response.NotFound(w, "Content not found", s.logger)
		return
	}

	var params service.UpdateContentParams
	if err := s.decodeAndValidate(r, &params); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}
	if params.Type != nil && !params.Type.Valid() {
		response.BadRequest(w, "type must be image, video or music", s.logger)
		return
	}

	if err := s.content.UpdateContent(r.Context(), contentID, params); err != nil {
		s.logger.Error("content update failed", "content_id", contentID, "error", err)
		response.InternalError(w, "Failed to update content", s.logger)
		return
	}

	item, _ := s.content.GetContent(contentID)
	response.Success(w, toContentResponse(item), s.logger)
}

// handleDeleteContent removes a catalog item and everything hanging off it.
func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "id")

	if err := s.content.DeleteContent(r.Context(), contentID); err != nil {
		s.logger.Error("content deletion failed", "content_id", contentID, "error", err)
		response.InternalError(w, "Failed to delete content", s.logger)
		return
	}

	response.NoContent(w)
}

type createTagRequest struct {
	ID   string `json:"id" validate:"required,min=1,max=64"`
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// handleCreateTag creates a tag. Creating an id that already exists is a
// no-op by design, so the response is 201 either way.
func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var payload createTagRequest
	if err := s.decodeAndValidate(r, &payload); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	if err := s.content.AddTag(r.Context(), payload.ID, payload.Name); err != nil {
		s.logger.Error("tag creation failed", "tag_id", payload.ID, "error", err)
		response.InternalError(w, "Failed to create tag", s.logger)
		return
	}

	tag, _ := s.content.GetTag(payload.ID)
	response.Created(w, toTagResponse(tag), s.logger)
}

// handleDeleteTag removes a tag and its references from all content.
func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "id")

	if err := s.content.DeleteTag(r.Context(), tagID); err != nil {
		s.logger.Error("tag deletion failed", "tag_id", tagID, "error", err)
		response.InternalError(w, "Failed to delete tag", s.logger)
		return
	}

	response.NoContent(w)
}
