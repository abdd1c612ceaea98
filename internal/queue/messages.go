package queue

import (
	"time"

	"github.com/phrazzld/sift-api/internal/domain"
)

// Queue names. The two task queues are durable and priority-capable
// (x-max-priority 10); the status queue is durable and plain FIFO.
const (
	QueueURLTasks        = "url_tasks"
	QueueEvaluationTasks = "evaluation_tasks"
	QueueStatusUpdates   = "status_updates"
)

// Priority bounds for task messages.
const (
	MinPriority = 1
	MaxPriority = 10
)

// ProcessingTask asks the processing stage to analyze one URL. A requeue
// after a failure is always a new ProcessingTask with an incremented
// RetryCount, never a transport-level redelivery.
type ProcessingTask struct {
	URL        string `json:"url"`
	Priority   int    `json:"priority"`
	RetryCount int    `json:"retry_count"`
	MaxRetries int    `json:"max_retries"`
	RequestID  string `json:"request_id"`

	// ReprocessCycles counts completed sub-threshold evaluation cycles.
	// It is separate from RetryCount, which resets each time the task
	// re-enters a stage.
	ReprocessCycles int `json:"reprocess_cycles,omitempty"`
}

// EvaluationTask carries a processed result to the evaluation stage. The
// full payload travels with the task so evaluation never re-fetches content.
type EvaluationTask struct {
	Result     domain.ProcessedResult `json:"result"`
	Priority   int                    `json:"priority"`
	RetryCount int                    `json:"retry_count"`
	MaxRetries int                    `json:"max_retries"`
	RequestID  string                 `json:"request_id"`

	// ReprocessCycles counts completed sub-threshold evaluation cycles.
	ReprocessCycles int `json:"reprocess_cycles,omitempty"`
}

// StatusEvent records one pipeline transition for a request. Events are
// consumed once by the status relay and are not persisted.
type StatusEvent struct {
	RequestID string                  `json:"request_id"`
	URL       string                  `json:"url,omitempty"`
	Status    domain.Status           `json:"status"`
	Detail    string                  `json:"detail,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
	Result    *domain.ProcessedResult `json:"result,omitempty"`
}

// NewStatusEvent builds a StatusEvent stamped with the current UTC time.
func NewStatusEvent(requestID, url string, status domain.Status, detail string) StatusEvent {
	return StatusEvent{
		RequestID: requestID,
		URL:       url,
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}

// WithResult attaches a processed result to the event.
func (e StatusEvent) WithResult(result *domain.ProcessedResult) StatusEvent {
	e.Result = result
	return e
}

// ClampPriority bounds a priority value to the valid range. Decayed
// priorities are floored at MinPriority and never raised.
func ClampPriority(p int) int {
	if p < MinPriority {
		return MinPriority
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}
