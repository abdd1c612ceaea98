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

// Processor is the processing-stage consumer. For each dequeued task it
// calls the content analysis service and either forwards the result to
// evaluation or requeues the task with decayed priority until the retry
// ceiling is hit.
type Processor struct {
	analyzer   analysis.Analyzer
	publisher  Publisher
	maxRetries int
	logger     *slog.Logger
}

// NewProcessor creates the processing-stage consumer. maxRetries is the
// configured ceiling stamped onto tasks it republishes; the ceiling
// carried by each incoming task is what bounds that task's own retries.
func NewProcessor(analyzer analysis.Analyzer, publisher Publisher, maxRetries int, logger *slog.Logger) *Processor {
	return &Processor{
		analyzer:   analyzer,
		publisher:  publisher,
		maxRetries: maxRetries,
		logger:     logger.With("component", "processor"),
	}
}

// Handle processes one url_tasks delivery. Retry is an explicit decision
// made here: a failed attempt publishes a fresh task (or a terminal status)
// and the delivery itself is always resolved, never left to transport
// redelivery. Only a failure to reach the broker returns NackRequeue.
func (p *Processor) Handle(ctx context.Context, body []byte) queue.Decision {
	var task queue.ProcessingTask
	if err := json.Unmarshal(body, &task); err != nil {
		// Protocol error: resolve the message so it cannot poison the loop.
		p.logger.Error("malformed processing task, dropping",
			"error", err,
			"body_size", len(body))
		return queue.Drop
	}

	logger := p.logger.With(
		"url", task.URL,
		"request_id", task.RequestID,
		"retry_count", task.RetryCount)
	logger.Info("processing url")

	if err := p.publisher.PublishStatus(ctx, queue.NewStatusEvent(
		task.RequestID, task.URL, domain.StatusProcessing, "URL processing initiated.")); err != nil {
		logger.Error("failed to publish processing status", "error", err)
		return queue.NackRequeue
	}

	result, err := p.analyzer.Analyze(ctx, task.URL)
	if err != nil {
		return p.handleFailure(ctx, logger, task, err)
	}

	if err := p.publisher.PublishStatus(ctx, queue.NewStatusEvent(
		task.RequestID, task.URL, domain.StatusProcessed,
		"URL content processed and sent for evaluation.")); err != nil {
		logger.Error("failed to publish processed status", "error", err)
		return queue.NackRequeue
	}

	// The evaluation task inherits the processing priority; its retry
	// count starts fresh at zero. Only the cycle counter carries over.
	evalTask := queue.EvaluationTask{
		Result:          *result,
		Priority:        task.Priority,
		RetryCount:      0,
		MaxRetries:      task.MaxRetries,
		RequestID:       task.RequestID,
		ReprocessCycles: task.ReprocessCycles,
	}
	if err := p.publisher.PublishEvaluationTask(ctx, evalTask); err != nil {
		logger.Error("failed to publish evaluation task", "error", err)
		return queue.NackRequeue
	}

	logger.Info("url processed and queued for evaluation")
	return queue.Ack
}

// handleFailure routes a failed analysis attempt: requeue with decayed
// priority while the ceiling allows, terminal failed status otherwise.
// Content-unavailable and transient errors are treated uniformly today.
func (p *Processor) handleFailure(ctx context.Context, logger *slog.Logger, task queue.ProcessingTask, cause error) queue.Decision {
	logger.Error("url analysis failed", "error", cause)

	retryCount := task.RetryCount + 1
	if retryCount <= task.MaxRetries {
		requeued := queue.ProcessingTask{
			URL:             task.URL,
			Priority:        queue.ClampPriority(task.Priority - ProcessingRetryDecay),
			RetryCount:      retryCount,
			MaxRetries:      p.maxRetries,
			RequestID:       task.RequestID,
			ReprocessCycles: task.ReprocessCycles,
		}
		if err := p.publisher.PublishProcessingTask(ctx, requeued); err != nil {
			logger.Error("failed to requeue processing task", "error", err)
			return queue.NackRequeue
		}
		logger.Info("processing task requeued",
			"new_priority", requeued.Priority,
			"new_retry_count", retryCount)
		return queue.Ack
	}

	detail := fmt.Sprintf("Processing failed after %d retries: %v", task.MaxRetries, cause)
	if err := p.publisher.PublishStatus(ctx, queue.NewStatusEvent(
		task.RequestID, task.URL, domain.StatusFailed, detail)); err != nil {
		logger.Error("failed to publish failed status", "error", err)
		return queue.NackRequeue
	}

	logger.Warn("processing retries exhausted", "max_retries", task.MaxRetries)
	return queue.Ack
}
