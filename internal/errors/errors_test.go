package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs_MatchesByCode(t *testing.T) {
	err := NotFound("content not found")
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))
}

func TestWithCause_UnwrapsAndFormats(t *testing.T) {
	cause := New("connection refused")
	err := Internal("store write failed").WithCause(cause)

	assert.Equal(t, "store write failed: connection refused", err.Error())
	assert.Equal(t, cause, Unwrap(err))
	assert.True(t, Is(err, ErrInternal))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeConflict, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeValidation, http.StatusBadRequest},
		{CodeBookmarkLimit, http.StatusBadRequest},
		{CodeProvider, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{Code("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.code.HTTPStatus())
		})
	}
}

func TestWrappedErrorSurvivesFmtErrorf(t *testing.T) {
	err := fmt.Errorf("handling request: %w", BookmarkLimit("limit reached"))
	assert.True(t, Is(err, ErrBookmarkLimit))

	var domainErr *Error
	assert.True(t, As(err, &domainErr))
	assert.Equal(t, CodeBookmarkLimit, domainErr.Code)
}
