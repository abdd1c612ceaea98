package domain

import "errors"

// Common domain validation errors
var (
	// ErrEmptyURL is returned when a result or task has no URL
	ErrEmptyURL = errors.New("url cannot be empty")

	// ErrInvalidResult is returned when a processed result fails validation
	ErrInvalidResult = errors.New("invalid processed result")

	// ErrInvalidScores is returned when evaluation scores are out of bounds
	ErrInvalidScores = errors.New("invalid evaluation scores")
)
