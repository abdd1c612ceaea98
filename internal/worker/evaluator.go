package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sift-api/internal/analysis"
	"github.com/phrazzld/sift-api/internal/domain"
	"github.com/phrazzld/sift-api/internal/queue"
)

// Evaluator is the evaluation-stage consumer. For each dequeued task it
// calls the evaluation service, caches accepted results, and sends
// sub-threshold results back through processing at decayed priority.
type Evaluator struct {
	service   analysis.Evaluator
	publisher Publisher
	cache     ResultCache

	// threshold is the minimum overall score for acceptance
	threshold float64

	// maxRetries is the ceiling stamped onto requeued processing tasks
	maxRetries int

	// maxReprocessCycles bounds the sub-threshold loop; zero means
	// unbounded, the behavior the pipeline originally shipped with
	maxReprocessCycles int

	logger *slog.Logger
}

// NewEvaluator creates the evaluation-stage consumer.
func NewEvaluator(
	service analysis.Evaluator,
	publisher Publisher,
	cache ResultCache,
	threshold float64,
	maxRetries int,
	maxReprocessCycles int,
	logger *slog.Logger,
) *Evaluator {
	return &Evaluator{
		service:            service,
		publisher:          publisher,
		cache:              cache,
		threshold:          threshold,
		maxRetries:         maxRetries,
		maxReprocessCycles: maxReprocessCycles,
		logger:             logger.With("component", "evaluator"),
	}
}

// Handle processes one evaluation_tasks delivery. An evaluation-service
// failure is terminal for the delivery by policy: the failure is assumed
// likely deterministic, so only a failed status is emitted and no retry is
// attempted. A sub-threshold score is not an error; it requeues the URL for
// reprocessing, bounded only by maxReprocessCycles when configured.
func (e *Evaluator) Handle(ctx context.Context, body []byte) queue.Decision {
	var task queue.EvaluationTask
	if err := json.Unmarshal(body, &task); err != nil {
		e.logger.Error("malformed evaluation task, dropping",
			"error", err,
			"body_size", len(body))
		return queue.Drop
	}

	url := task.Result.URL
	logger := e.logger.With(
		"url", url,
		"request_id", task.RequestID,
		"retry_count", task.RetryCount)
	logger.Info("evaluating url result")

	if err := e.publisher.PublishStatus(ctx, queue.NewStatusEvent(
		task.RequestID, url, domain.StatusEvaluating, "URL evaluation initiated.")); err != nil {
		logger.Error("failed to publish evaluating status", "error", err)
		return queue.NackRequeue
	}

	scores, err := e.service.Evaluate(ctx, &task.Result)
	if err == nil {
		err = scores.Validate()
	}
	if err != nil {
		logger.Error("evaluation failed", "error", err)
		detail := fmt.Sprintf("Error during evaluation: %v", err)
		if pubErr := e.publisher.PublishStatus(ctx, queue.NewStatusEvent(
			task.RequestID, url, domain.StatusFailed, detail)); pubErr != nil {
			logger.Error("failed to publish failed status", "error", pubErr)
			return queue.NackRequeue
		}
		return queue.Ack
	}

	result := task.Result
	result.OverallScore = &scores.OverallScore
	logger.Info("url evaluated", "overall_score", scores.OverallScore)

	if scores.OverallScore >= e.threshold {
		return e.accept(ctx, logger, task, &result, scores.OverallScore)
	}
	return e.reprocess(ctx, logger, task, scores.OverallScore)
}

// accept writes the result through the cache and emits the terminal
// completed status carrying the full result.
func (e *Evaluator) accept(ctx context.Context, logger *slog.Logger, task queue.EvaluationTask, result *domain.ProcessedResult, score float64) queue.Decision {
	if err := e.cache.UpsertIfBetter(ctx, result.URL, result); err != nil {
		logger.Error("failed to cache evaluated result", "error", err)
		return queue.NackRequeue
	}

	detail := fmt.Sprintf("URL successfully evaluated and approved (score: %.1f).", score)
	event := queue.NewStatusEvent(task.RequestID, result.URL, domain.StatusCompleted, detail).
		WithResult(result)
	if err := e.publisher.PublishStatus(ctx, event); err != nil {
		logger.Error("failed to publish completed status", "error", err)
		return queue.NackRequeue
	}

	logger.Info("url accepted", "score", score)
	return queue.Ack
}

// reprocess sends a sub-threshold URL back through processing with decayed
// priority, or fails it once the configured cycle bound is exceeded.
func (e *Evaluator) reprocess(ctx context.Context, logger *slog.Logger, task queue.EvaluationTask, score float64) queue.Decision {
	cycle := task.ReprocessCycles + 1
	url := task.Result.URL

	if e.maxReprocessCycles > 0 && cycle > e.maxReprocessCycles {
		detail := fmt.Sprintf(
			"URL failed evaluation (score: %.1f) after %d reprocessing cycles.",
			score, e.maxReprocessCycles)
		if err := e.publisher.PublishStatus(ctx, queue.NewStatusEvent(
			task.RequestID, url, domain.StatusFailed, detail)); err != nil {
			logger.Error("failed to publish failed status", "error", err)
			return queue.NackRequeue
		}
		logger.Warn("reprocess cycle bound exceeded", "cycles", e.maxReprocessCycles)
		return queue.Ack
	}

	detail := fmt.Sprintf(
		"URL failed evaluation (score: %.1f), re-queuing (attempt: %d).", score, cycle)
	if err := e.publisher.PublishStatus(ctx, queue.NewStatusEvent(
		task.RequestID, url, domain.StatusReprocessing, detail)); err != nil {
		logger.Error("failed to publish reprocessing status", "error", err)
		return queue.NackRequeue
	}

	requeued := queue.ProcessingTask{
		URL:             url,
		Priority:        queue.ClampPriority(task.Priority - EvaluationRetryDecay),
		RetryCount:      task.RetryCount + 1,
		MaxRetries:      e.maxRetries,
		RequestID:       task.RequestID,
		ReprocessCycles: cycle,
	}
	if err := e.publisher.PublishProcessingTask(ctx, requeued); err != nil {
		logger.Error("failed to requeue processing task", "error", err)
		return queue.NackRequeue
	}

	logger.Info("url sent back for reprocessing",
		"new_priority", requeued.Priority,
		"cycle", cycle)
	return queue.Ack
}
