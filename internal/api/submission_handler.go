package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/sift-api/internal/api/shared"
	"github.com/phrazzld/sift-api/internal/service"
)

// Submitter is the service surface the submission handler needs.
type Submitter interface {
	Submit(ctx context.Context, urls []string) *service.SubmissionResult
}

// SubmissionHandler handles URL submission requests.
type SubmissionHandler struct {
	service   Submitter
	validator *validator.Validate
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(service Submitter) *SubmissionHandler {
	return &SubmissionHandler{
		service:   service,
		validator: validator.New(),
	}
}

// SubmitURLs handles POST /api/submit requests. Triage happens
// synchronously; accepted URLs continue through the pipeline, so the
// batch is answered with 202 Accepted.
func (h *SubmissionHandler) SubmitURLs(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result := h.service.Submit(r.Context(), req.URLs)
	shared.RespondWithJSON(w, r, http.StatusAccepted, result)
}
