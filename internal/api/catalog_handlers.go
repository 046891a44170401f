package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/creatorhubapp/creatorhub-server/internal/http/response"
	"github.com/creatorhubapp/creatorhub-server/internal/search"
)

const (
	defaultRandomAmount = 8
	maxRandomAmount     = 50

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// handleListContent returns every catalog item, served from the mirror.
func (s *Server) handleListContent(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, toContentResponses(s.content.ListContent()), s.logger)
}

// handleGetContent returns a single catalog item.
func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	item, ok := s.content.GetContent(chi.URLParam(r, "id"))
	if !ok {
		response.NotFound(w, "Content not found", s.logger)
		return
	}
	response.Success(w, toContentResponse(item), s.logger)
}

// handleRandomContent returns a window-sampled selection of the catalog.
func (s *Server) handleRandomContent(w http.ResponseWriter, r *http.Request) {
	amount := defaultRandomAmount
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, "amount must be a positive integer", s.logger)
			return
		}
		amount = min(parsed, maxRandomAmount)
	}

	response.Success(w, toContentResponses(s.content.RandomContent(amount)), s.logger)
}

// handleSearchContent runs a full-text query over the catalog index.
func (s *Server) handleSearchContent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := search.DefaultParams()
	params.Query = query.Get("q")
	params.Limit = defaultSearchLimit

	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, "limit must be a positive integer", s.logger)
			return
		}
		params.Limit = min(parsed, maxSearchLimit)
	}
	if raw := query.Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(w, "offset must be a non-negative integer", s.logger)
			return
		}
		params.Offset = parsed
	}
	if types := query.Get("types"); types != "" {
		params.Types = strings.Split(types, ",")
	}
	if tags := query.Get("tags"); tags != "" {
		params.Tags = strings.Split(tags, ",")
	}

	result, err := s.search.Search(r.Context(), params)
	if err != nil {
		s.logger.Error("search failed", "query", params.Query, "error", err)
		response.InternalError(w, "Search failed", s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleListTags returns every tag with its content ids.
func (s *Server) handleListTags(w http.ResponseWriter, _ *http.Request) {
	tags := s.content.ListTags()
	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, toTagResponse(tag))
	}
	response.Success(w, responses, s.logger)
}

// handleGetTag returns a single tag.
func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	tag, ok := s.content.GetTag(chi.URLParam(r, "id"))
	if !ok {
		response.NotFound(w, "Tag not found", s.logger)
		return
	}
	response.Success(w, toTagResponse(tag), s.logger)
}
