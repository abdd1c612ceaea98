package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/sift-api/internal/api/shared"
)

// ArticleSource fetches the readable text of a URL on demand.
type ArticleSource interface {
	ArticleText(ctx context.Context, url string) (string, error)
}

// ContentHandler serves on-demand article content fetches.
type ContentHandler struct {
	source ArticleSource
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(source ArticleSource) *ContentHandler {
	return &ContentHandler{source: source}
}

// GetContent handles GET /api/content?url=... requests.
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing url query parameter")
		return
	}

	content, err := h.source.ArticleText(r.Context(), rawURL)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound,
			"Content not found or failed to fetch", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ContentResponse{
		URL:     rawURL,
		Content: content,
	})
}
