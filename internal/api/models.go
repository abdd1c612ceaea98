package api

// SubmissionRequest represents the request body for submitting URLs.
type SubmissionRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,required,url"`
}

// ContentResponse represents the response for a content fetch.
type ContentResponse struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
