package api

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/creatorhubapp/creatorhub-server/internal/domain"
)

// TagRef is the embedded tag shape on content responses.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DownloadResponse is one download option on a content response.
type DownloadResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ContentResponse is the wire shape of a catalog item.
type ContentResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Type      domain.ContentType `json:"type"`
	Preview   string             `json:"preview"`
	UseCases  []string           `json:"use_cases"`
	Tags      []TagRef           `json:"tags"`
	Downloads []DownloadResponse `json:"downloads"`
}

// TagResponse is the wire shape of a tag, with the ids of its content.
type TagResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ContentIDs []string `json:"content_ids"`
}

// UserResponse is the per-user state payload for the front-end.
type UserResponse struct {
	UserID    string            `json:"user_id"`
	Username  string            `json:"username"`
	CreatedAt time.Time         `json:"created_at"`
	Bookmarks []ContentResponse `json:"bookmarks"`
	Recent    []ContentResponse `json:"recent"`
}

func toContentResponse(item *domain.Content) ContentResponse {
	resp := ContentResponse{
		ID:        item.ID,
		Name:      item.Name,
		Type:      item.Type,
		Preview:   item.PreviewURL(),
		UseCases:  item.UseCases,
		Tags:      make([]TagRef, 0, len(item.Tags)),
		Downloads: make([]DownloadResponse, 0, len(item.Downloads)),
	}
	for _, tag := range item.Tags {
		resp.Tags = append(resp.Tags, TagRef{ID: tag.ID, Name: tag.Name})
	}
	for _, d := range item.Downloads {
		resp.Downloads = append(resp.Downloads, DownloadResponse{ID: d.ID, Name: d.Name, URL: d.URL})
	}
	return resp
}

func toContentResponses(items []*domain.Content) []ContentResponse {
	responses := make([]ContentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toContentResponse(item))
	}
	return responses
}

func toTagResponse(tag *domain.Tag) TagResponse {
	resp := TagResponse{
		ID:         tag.ID,
		Name:       tag.Name,
		ContentIDs: make([]string, 0, len(tag.Content)),
	}
	for _, item := range tag.Content {
		resp.ContentIDs = append(resp.ContentIDs, item.ID)
	}
	return resp
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		Bookmarks: toContentResponses(user.Bookmarks),
		Recent:    toContentResponses(user.Recent),
	}
}

// decodeAndValidate unmarshals the request body into dst and runs struct
// validation on it.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			field := validationErrs[0]
			return fmt.Errorf("invalid field %q: failed %q validation", field.Field(), field.Tag())
		}
		return err
	}
	return nil
}
