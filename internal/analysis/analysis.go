package analysis

import (
	"context"

	"github.com/phrazzld/sift-api/internal/domain"
)

// Analyzer defines the boundary to the content analysis service. Given a
// URL it fetches the content and produces a summary, keyword list, and
// sentiment classification. Implementations live under internal/platform,
// one per backend, selected once at startup by configuration.
type Analyzer interface {
	// Analyze processes a URL into a ProcessedResult without a score.
	// Returns ErrNoContent (wrapped) when the page has no extractable
	// content, or ErrTransientFailure for errors that may resolve on retry.
	Analyze(ctx context.Context, url string) (*domain.ProcessedResult, error)
}

// Evaluator defines the boundary to the evaluation service. Given a
// processed result it produces three component scores with explanations
// and the overall score.
type Evaluator interface {
	// Evaluate scores the given result. The returned scores satisfy
	// EvaluationScores.Validate.
	Evaluate(ctx context.Context, result *domain.ProcessedResult) (*domain.EvaluationScores, error)
}
