package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/sift-api/internal/api/shared"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness checks.
type HealthHandler struct {
	cache Pinger
}

// NewHealthHandler creates a new HealthHandler. A nil cache skips the
// dependency check.
func NewHealthHandler(cache Pinger) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Check handles GET /api/health requests.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
				"Result cache unavailable", err)
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "Server is running",
	})
}
