package worker

import (
	"context"

	"github.com/phrazzld/sift-api/internal/domain"
	"github.com/phrazzld/sift-api/internal/queue"
)

// Priority decay applied when a task is requeued after a failure. A failed
// processing attempt decays less than a failed evaluation so a URL that
// merely hit a flaky fetch keeps more of its urgency than one producing
// low-quality output.
const (
	// ProcessingRetryDecay lowers priority on a failed processing attempt
	ProcessingRetryDecay = 2

	// EvaluationRetryDecay lowers priority on a sub-threshold evaluation
	EvaluationRetryDecay = 3
)

// Publisher is the slice of the queue publisher the consumers use.
type Publisher interface {
	// PublishProcessingTask enqueues a task and emits its queued status
	PublishProcessingTask(ctx context.Context, task queue.ProcessingTask) error

	// PublishEvaluationTask enqueues an evaluation task
	PublishEvaluationTask(ctx context.Context, task queue.EvaluationTask) error

	// PublishStatus emits a status event
	PublishStatus(ctx context.Context, event queue.StatusEvent) error
}

// ResultCache is the write half of the result cache the evaluation
// consumer uses.
type ResultCache interface {
	// UpsertIfBetter stores the candidate under the upsert-if-better rule
	UpsertIfBetter(ctx context.Context, url string, candidate *domain.ProcessedResult) error
}
