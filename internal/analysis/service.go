package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/sift-api/internal/content"
	"github.com/phrazzld/sift-api/internal/domain"
)

// Completer is the minimal surface an LLM backend must provide. Each
// backend under internal/platform adapts its SDK to this single call.
type Completer interface {
	// Complete sends one prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ContentSource supplies the readable text of a URL. Satisfied by
// content.Fetcher.
type ContentSource interface {
	ArticleText(ctx context.Context, url string) (string, error)
}

// chunkSize bounds how much article text a single summarization prompt
// sees. Longer articles are summarized per chunk and the partial
// summaries combined.
const chunkSize = 4000

// Service implements Analyzer and Evaluator on top of any Completer.
// It owns the prompts and response parsing; the backend only moves text.
type Service struct {
	completer Completer
	source    ContentSource
	logger    *slog.Logger
}

// NewService wires an analysis service over the given backend.
func NewService(completer Completer, source ContentSource, logger *slog.Logger) *Service {
	return &Service{
		completer: completer,
		source:    source,
		logger:    logger.With("component", "analysis"),
	}
}

// Analyze fetches the URL and produces a summary, keyword list, and
// sentiment classification. The result carries no score; that is the
// evaluation stage's job.
func (s *Service) Analyze(ctx context.Context, url string) (*domain.ProcessedResult, error) {
	text, err := s.source.ArticleText(ctx, url)
	if err != nil {
		if errors.Is(err, content.ErrNoContent) {
			return nil, fmt.Errorf("%w: %s", ErrNoContent, url)
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrTransientFailure, url, err)
	}

	s.logger.Debug("content fetched", "url", url, "content_length", len(text))

	summary, err := s.summarize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: summarize %s: %v", ErrAnalysisFailed, url, err)
	}

	keywords, err := s.completer.Complete(ctx, keywordsPrompt(summary))
	if err != nil {
		return nil, fmt.Errorf("%w: extract keywords for %s: %v", ErrAnalysisFailed, url, err)
	}

	sentimentRaw, err := s.completer.Complete(ctx, sentimentPrompt(summary))
	if err != nil {
		return nil, fmt.Errorf("%w: classify sentiment for %s: %v", ErrAnalysisFailed, url, err)
	}

	result := &domain.ProcessedResult{
		URL:       url,
		Summary:   strings.TrimSpace(summary),
		Keywords:  strings.TrimSpace(keywords),
		Sentiment: normalizeSentiment(sentimentRaw),
		Content:   &text,
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return result, nil
}

// summarize runs a map-reduce summary: each chunk is summarized on its
// own, then the partials are combined. Short articles take one pass.
func (s *Service) summarize(ctx context.Context, text string) (string, error) {
	chunks := splitChunks(text, chunkSize)
	if len(chunks) == 1 {
		return s.completer.Complete(ctx, summaryPrompt(chunks[0]))
	}

	partials := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		partial, err := s.completer.Complete(ctx, summaryPrompt(chunk))
		if err != nil {
			return "", err
		}
		partials = append(partials, strings.TrimSpace(partial))
	}
	return s.completer.Complete(ctx, combinePrompt(partials))
}

// Evaluate scores a processed result on three axes and computes the
// overall score as their rounded mean. Responses that do not parse
// cleanly are salvaged leniently rather than failing the evaluation.
func (s *Service) Evaluate(ctx context.Context, result *domain.ProcessedResult) (*domain.EvaluationScores, error) {
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	summaryRaw, err := s.completer.Complete(ctx, summaryQualityPrompt(result.Summary))
	if err != nil {
		return nil, fmt.Errorf("%w: summary quality for %s: %v", ErrEvaluationFailed, result.URL, err)
	}
	keywordsRaw, err := s.completer.Complete(ctx, keywordsRelevancePrompt(result.Summary, result.Keywords))
	if err != nil {
		return nil, fmt.Errorf("%w: keywords relevance for %s: %v", ErrEvaluationFailed, result.URL, err)
	}
	sentimentRaw, err := s.completer.Complete(ctx, sentimentAlignmentPrompt(result.Summary, result.Sentiment))
	if err != nil {
		return nil, fmt.Errorf("%w: sentiment alignment for %s: %v", ErrEvaluationFailed, result.URL, err)
	}

	summaryVerdict := parseVerdict(summaryRaw)
	keywordsVerdict := parseVerdict(keywordsRaw)
	sentimentVerdict := parseVerdict(sentimentRaw)

	scores := &domain.EvaluationScores{
		URL:                  result.URL,
		SummaryQuality:       summaryVerdict.Score,
		SummaryExplanation:   summaryVerdict.Explanation,
		KeywordsRelevance:    keywordsVerdict.Score,
		KeywordsExplanation:  keywordsVerdict.Explanation,
		SentimentAlignment:   sentimentVerdict.Score,
		SentimentExplanation: sentimentVerdict.Explanation,
		OverallScore: domain.OverallFrom(
			summaryVerdict.Score, keywordsVerdict.Score, sentimentVerdict.Score),
	}
	if err := scores.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	s.logger.Debug("result evaluated",
		"url", result.URL,
		"overall_score", scores.OverallScore)
	return scores, nil
}

// normalizeSentiment reduces a model response to the single expected
// word. Anything unrecognized passes through trimmed; validation of the
// downstream scores handles drift.
func normalizeSentiment(raw string) string {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return ""
	}
	word := strings.Trim(fields[0], ".,!:;\"'")
	switch strings.ToLower(word) {
	case "positive":
		return "Positive"
	case "negative":
		return "Negative"
	case "neutral":
		return "Neutral"
	}
	return word
}

// splitChunks breaks text into pieces of at most size characters,
// preferring paragraph boundaries.
func splitChunks(text string, size int) []string {
	if len(text) <= size {
		return []string{text}
	}

	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		if current.Len() > 0 && current.Len()+len(p)+2 > size {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		// A single oversized paragraph is split hard.
		for len(p) > size {
			chunks = append(chunks, p[:size])
			p = p[size:]
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
