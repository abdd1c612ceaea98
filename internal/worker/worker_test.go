package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/phrazzld/sift-api/internal/domain"
	"github.com/phrazzld/sift-api/internal/queue"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePublisher records everything published. Like the real publisher, a
// processing-task publish also records the matching queued status event.
type fakePublisher struct {
	mu              sync.Mutex
	processingTasks []queue.ProcessingTask
	evaluationTasks []queue.EvaluationTask
	events          []queue.StatusEvent

	failProcessing bool
	failEvaluation bool
	failStatus     bool
}

func (p *fakePublisher) PublishProcessingTask(ctx context.Context, task queue.ProcessingTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failProcessing {
		return errors.New("broker unavailable")
	}
	p.processingTasks = append(p.processingTasks, task)
	p.events = append(p.events, queue.NewStatusEvent(
		task.RequestID, task.URL, domain.StatusQueued, "URL task queued for processing"))
	return nil
}

func (p *fakePublisher) PublishEvaluationTask(ctx context.Context, task queue.EvaluationTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failEvaluation {
		return errors.New("broker unavailable")
	}
	p.evaluationTasks = append(p.evaluationTasks, task)
	return nil
}

func (p *fakePublisher) PublishStatus(ctx context.Context, event queue.StatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failStatus {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) statuses() []domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Status, len(p.events))
	for i, e := range p.events {
		out[i] = e.Status
	}
	return out
}

// fakeAnalyzer returns a canned result or error.
type fakeAnalyzer struct {
	result *domain.ProcessedResult
	err    error
	calls  int
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, url string) (*domain.ProcessedResult, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	result := *a.result
	result.URL = url
	return &result, nil
}

// fakeEvalService returns canned scores or an error.
type fakeEvalService struct {
	scores *domain.EvaluationScores
	err    error
}

func (s *fakeEvalService) Evaluate(ctx context.Context, result *domain.ProcessedResult) (*domain.EvaluationScores, error) {
	if s.err != nil {
		return nil, s.err
	}
	scores := *s.scores
	scores.URL = result.URL
	return &scores, nil
}

// fakeCache records upserts and can fail.
type fakeCache struct {
	upserts []*domain.ProcessedResult
	err     error
}

func (c *fakeCache) UpsertIfBetter(ctx context.Context, url string, candidate *domain.ProcessedResult) error {
	if c.err != nil {
		return c.err
	}
	c.upserts = append(c.upserts, candidate)
	return nil
}

func sampleResult() *domain.ProcessedResult {
	return &domain.ProcessedResult{
		Summary:   "a concise summary",
		Keywords:  "1. go\n2. queues",
		Sentiment: "Neutral",
	}
}

func sampleScores(summary, keywords, sentiment int) *domain.EvaluationScores {
	return &domain.EvaluationScores{
		SummaryQuality:       summary,
		SummaryExplanation:   "clear",
		KeywordsRelevance:    keywords,
		KeywordsExplanation:  "relevant",
		SentimentAlignment:   sentiment,
		SentimentExplanation: "aligned",
		OverallScore:         domain.OverallFrom(summary, keywords, sentiment),
	}
}
