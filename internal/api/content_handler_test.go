package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArticleSource struct {
	text string
	err  error
}

func (s *fakeArticleSource) ArticleText(ctx context.Context, url string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func TestGetContent(t *testing.T) {
	t.Run("returns fetched content", func(t *testing.T) {
		handler := NewContentHandler(&fakeArticleSource{text: "article body"})

		req := httptest.NewRequest(http.MethodGet, "/api/content?url=https%3A%2F%2Fexample.com%2Fa", nil)
		rec := httptest.NewRecorder()
		handler.GetContent(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response ContentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "https://example.com/a", response.URL)
		assert.Equal(t, "article body", response.Content)
	})

	t.Run("missing url parameter", func(t *testing.T) {
		handler := NewContentHandler(&fakeArticleSource{})

		req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
		rec := httptest.NewRecorder()
		handler.GetContent(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("fetch failure maps to 404", func(t *testing.T) {
		handler := NewContentHandler(&fakeArticleSource{err: errors.New("connection refused")})

		req := httptest.NewRequest(http.MethodGet, "/api/content?url=https%3A%2F%2Fexample.com%2Fa", nil)
		rec := httptest.NewRecorder()
		handler.GetContent(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused",
			"raw error must not leak to the client")
	})
}
