package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sift-api/internal/domain"
)

// Broker is the publish half of the broker client, as seen by the publisher.
type Broker interface {
	// Publish sends a persistent message to the named queue. Priority is
	// ignored by queues declared without a priority range.
	Publish(ctx context.Context, queueName string, body []byte, priority uint8) error
}

// Publisher serializes pipeline messages and sends them through the broker.
// Publishing a processing task also emits the matching "queued" status event
// so every enqueue is observable by subscribers.
type Publisher struct {
	broker Broker
	logger *slog.Logger
}

// NewPublisher creates a Publisher backed by the given broker.
func NewPublisher(broker Broker, logger *slog.Logger) *Publisher {
	return &Publisher{
		broker: broker,
		logger: logger.With("component", "queue_publisher"),
	}
}

// PublishProcessingTask enqueues a processing task at its own priority and
// emits a "queued" status event for the request.
func (p *Publisher) PublishProcessingTask(ctx context.Context, task ProcessingTask) error {
	task.Priority = ClampPriority(task.Priority)

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal processing task: %w", err)
	}

	if err := p.broker.Publish(ctx, QueueURLTasks, body, uint8(task.Priority)); err != nil {
		return fmt.Errorf("failed to publish processing task: %w", err)
	}

	p.logger.Info("processing task published",
		"url", task.URL,
		"request_id", task.RequestID,
		"priority", task.Priority,
		"retry_count", task.RetryCount)

	return p.PublishStatus(ctx, NewStatusEvent(
		task.RequestID, task.URL, domain.StatusQueued, "URL task queued for processing"))
}

// PublishEvaluationTask enqueues an evaluation task at its own priority.
func (p *Publisher) PublishEvaluationTask(ctx context.Context, task EvaluationTask) error {
	task.Priority = ClampPriority(task.Priority)

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation task: %w", err)
	}

	if err := p.broker.Publish(ctx, QueueEvaluationTasks, body, uint8(task.Priority)); err != nil {
		return fmt.Errorf("failed to publish evaluation task: %w", err)
	}

	p.logger.Info("evaluation task published",
		"url", task.Result.URL,
		"request_id", task.RequestID,
		"priority", task.Priority)

	return nil
}

// PublishStatus sends a status event to the plain status queue.
func (p *Publisher) PublishStatus(ctx context.Context, event StatusEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	if err := p.broker.Publish(ctx, QueueStatusUpdates, body, 0); err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	p.logger.Debug("status event published",
		"request_id", event.RequestID,
		"status", event.Status)

	return nil
}
