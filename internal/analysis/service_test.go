package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sift-api/internal/content"
	"github.com/phrazzld/sift-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedCompleter answers prompts by matching on prompt content.
type scriptedCompleter struct {
	prompts []string
	err     error

	respond func(prompt string) string
}

func (c *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.respond(prompt), nil
}

type fakeSource struct {
	text string
	err  error
}

func (s *fakeSource) ArticleText(ctx context.Context, url string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func analysisResponder(prompt string) string {
	switch {
	case strings.Contains(prompt, "Extract 5-10 important keywords"):
		return "1. Go\n2. Queues\n3. Pipelines"
	case strings.Contains(prompt, "Reply with exactly one word"):
		return "Neutral."
	default:
		return "A short summary of the article."
	}
}

func TestServiceAnalyze(t *testing.T) {
	t.Run("produces a complete unscored result", func(t *testing.T) {
		completer := &scriptedCompleter{respond: analysisResponder}
		source := &fakeSource{text: "Some article text about queues."}
		svc := NewService(completer, source, testLogger())

		result, err := svc.Analyze(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, "https://example.com/a", result.URL)
		assert.Equal(t, "A short summary of the article.", result.Summary)
		assert.Equal(t, "1. Go\n2. Queues\n3. Pipelines", result.Keywords)
		assert.Equal(t, "Neutral", result.Sentiment, "trailing punctuation is stripped")
		assert.Nil(t, result.OverallScore)
		require.NotNil(t, result.Content)
		assert.Equal(t, "Some article text about queues.", *result.Content)

		assert.Len(t, completer.prompts, 3, "summary, keywords, sentiment")
	})

	t.Run("maps missing content to ErrNoContent", func(t *testing.T) {
		source := &fakeSource{err: fmt.Errorf("%w: https://example.com/a", content.ErrNoContent)}
		svc := NewService(&scriptedCompleter{respond: analysisResponder}, source, testLogger())

		_, err := svc.Analyze(context.Background(), "https://example.com/a")
		assert.ErrorIs(t, err, ErrNoContent)
	})

	t.Run("maps fetch failures to ErrTransientFailure", func(t *testing.T) {
		source := &fakeSource{err: errors.New("connection refused")}
		svc := NewService(&scriptedCompleter{respond: analysisResponder}, source, testLogger())

		_, err := svc.Analyze(context.Background(), "https://example.com/a")
		assert.ErrorIs(t, err, ErrTransientFailure)
	})

	t.Run("wraps backend failures as ErrAnalysisFailed", func(t *testing.T) {
		completer := &scriptedCompleter{err: errors.New("model overloaded")}
		svc := NewService(completer, &fakeSource{text: "text"}, testLogger())

		_, err := svc.Analyze(context.Background(), "https://example.com/a")
		assert.ErrorIs(t, err, ErrAnalysisFailed)
	})

	t.Run("long articles are summarized per chunk then combined", func(t *testing.T) {
		paragraphs := make([]string, 8)
		for i := range paragraphs {
			paragraphs[i] = strings.Repeat("word ", 200)
		}
		completer := &scriptedCompleter{respond: analysisResponder}
		source := &fakeSource{text: strings.Join(paragraphs, "\n\n")}
		svc := NewService(completer, source, testLogger())

		_, err := svc.Analyze(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		combined := 0
		for _, p := range completer.prompts {
			if strings.Contains(p, "partial summaries of sections") {
				combined++
			}
		}
		assert.Equal(t, 1, combined, "one combine pass")
		assert.Greater(t, len(completer.prompts), 4, "multiple chunk summaries plus keywords and sentiment")
	})
}

func TestServiceEvaluate(t *testing.T) {
	result := &domain.ProcessedResult{
		URL:       "https://example.com/a",
		Summary:   "A short summary.",
		Keywords:  "1. Go",
		Sentiment: "Neutral",
	}

	t.Run("computes scores and rounded overall", func(t *testing.T) {
		completer := &scriptedCompleter{respond: func(prompt string) string {
			switch {
			case strings.Contains(prompt, "Rate this summary quality"):
				return `{"score": 8, "explanation": "clear"}`
			case strings.Contains(prompt, "keywords match"):
				return `{"score": 7, "explanation": "relevant"}`
			default:
				return `{"score": 9, "explanation": "tone matches"}`
			}
		}}
		svc := NewService(completer, &fakeSource{}, testLogger())

		scores, err := svc.Evaluate(context.Background(), result)
		require.NoError(t, err)

		assert.Equal(t, 8, scores.SummaryQuality)
		assert.Equal(t, 7, scores.KeywordsRelevance)
		assert.Equal(t, 9, scores.SentimentAlignment)
		assert.Equal(t, "https://example.com/a", scores.URL)
		assert.InDelta(t, 8.0, scores.OverallScore, 0.001)
		assert.Equal(t, "clear", scores.SummaryExplanation)
	})

	t.Run("salvages messy responses instead of failing", func(t *testing.T) {
		completer := &scriptedCompleter{respond: func(prompt string) string {
			return "I would rate this 6 overall."
		}}
		svc := NewService(completer, &fakeSource{}, testLogger())

		scores, err := svc.Evaluate(context.Background(), result)
		require.NoError(t, err)
		assert.Equal(t, 6, scores.SummaryQuality)
		assert.InDelta(t, 6.0, scores.OverallScore, 0.001)
	})

	t.Run("backend failure wraps ErrEvaluationFailed", func(t *testing.T) {
		completer := &scriptedCompleter{err: errors.New("model overloaded")}
		svc := NewService(completer, &fakeSource{}, testLogger())

		_, err := svc.Evaluate(context.Background(), result)
		assert.ErrorIs(t, err, ErrEvaluationFailed)
	})

	t.Run("invalid input result is rejected", func(t *testing.T) {
		svc := NewService(&scriptedCompleter{respond: analysisResponder}, &fakeSource{}, testLogger())

		_, err := svc.Evaluate(context.Background(), &domain.ProcessedResult{URL: ""})
		assert.ErrorIs(t, err, ErrEvaluationFailed)
	})
}
