package domain

import (
	"fmt"
	"math"
)

// Score bounds for individual evaluation scores and the overall score.
const (
	MinScore = 1
	MaxScore = 10
)

// ProcessedResult holds the analysis output for a single URL. OverallScore
// stays nil until the result has passed through evaluation at least once.
type ProcessedResult struct {
	// URL is the address the content was fetched from
	URL string `json:"url"`

	// Summary is the generated summary of the page content
	Summary string `json:"summary"`

	// Keywords is the extracted keyword list, formatted as numbered lines
	Keywords string `json:"keywords"`

	// Sentiment is the one-word sentiment classification
	Sentiment string `json:"sentiment"`

	// OverallScore is set on first successful evaluation and only ever
	// improves across cache writes
	OverallScore *float64 `json:"overall_score,omitempty"`

	// Content optionally carries the full article text
	Content *string `json:"content,omitempty"`
}

// Validate checks that the result satisfies its invariants.
func (r *ProcessedResult) Validate() error {
	if r.URL == "" {
		return ErrEmptyURL
	}
	if r.Summary == "" {
		return fmt.Errorf("%w: summary is empty", ErrInvalidResult)
	}
	if r.OverallScore != nil {
		if *r.OverallScore < MinScore || *r.OverallScore > MaxScore {
			return fmt.Errorf("%w: overall score %.1f outside [%d,%d]",
				ErrInvalidResult, *r.OverallScore, MinScore, MaxScore)
		}
	}
	return nil
}

// EvaluationScores is the full evaluation verdict for one processed result.
// The three component scores each range 1-10; OverallScore is their rounded
// arithmetic mean.
type EvaluationScores struct {
	URL                  string  `json:"url"`
	SummaryQuality       int     `json:"summary_quality"`
	SummaryExplanation   string  `json:"summary_explanation"`
	KeywordsRelevance    int     `json:"keywords_relevance"`
	KeywordsExplanation  string  `json:"keywords_explanation"`
	SentimentAlignment   int     `json:"sentiment_alignment"`
	SentimentExplanation string  `json:"sentiment_explanation"`
	OverallScore         float64 `json:"overall_score"`
}

// Validate checks that all component scores are within bounds.
func (s *EvaluationScores) Validate() error {
	for _, score := range []int{s.SummaryQuality, s.KeywordsRelevance, s.SentimentAlignment} {
		if score < MinScore || score > MaxScore {
			return fmt.Errorf("%w: component score %d outside [%d,%d]",
				ErrInvalidScores, score, MinScore, MaxScore)
		}
	}
	if s.OverallScore < MinScore || s.OverallScore > MaxScore {
		return fmt.Errorf("%w: overall score %.1f outside [%d,%d]",
			ErrInvalidScores, s.OverallScore, MinScore, MaxScore)
	}
	return nil
}

// OverallFrom computes the overall score as the arithmetic mean of the three
// component scores, rounded to one decimal place.
func OverallFrom(summaryQuality, keywordsRelevance, sentimentAlignment int) float64 {
	mean := float64(summaryQuality+keywordsRelevance+sentimentAlignment) / 3.0
	return math.Round(mean*10) / 10
}

// BetterThan reports whether candidate should replace existing under the
// upsert-if-better rule: a missing existing score always loses, and a present
// candidate score wins only when strictly greater.
func (r *ProcessedResult) BetterThan(existing *ProcessedResult) bool {
	if existing == nil {
		return true
	}
	if existing.OverallScore == nil {
		return true
	}
	return r.OverallScore != nil && *r.OverallScore > *existing.OverallScore
}
