package analysis

import "errors"

// Common errors returned by analysis and evaluation backends
var (
	// ErrNoContent is returned when a URL yields no extractable content.
	// Distinct from a transient error, though the processing stage counts
	// both against the same retry ceiling.
	ErrNoContent = errors.New("no content found at url")

	// ErrAnalysisFailed is returned when content analysis fails for any
	// general reason
	ErrAnalysisFailed = errors.New("failed to analyze url content")

	// ErrEvaluationFailed is returned when the evaluation service fails
	ErrEvaluationFailed = errors.New("failed to evaluate processed result")

	// ErrInvalidResponse is returned when a backend response cannot be
	// parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry
	ErrTransientFailure = errors.New("transient error during analysis")

	// ErrInvalidConfig is returned when a backend configuration is invalid
	ErrInvalidConfig = errors.New("invalid backend configuration")
)
