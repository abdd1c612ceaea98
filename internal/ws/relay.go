package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/phrazzld/sift-api/internal/domain"
	"github.com/phrazzld/sift-api/internal/queue"
)

// StatusFrame is the JSON shape pushed to live subscribers.
type StatusFrame struct {
	Type      string                  `json:"type"`
	RequestID string                  `json:"request_id"`
	URL       string                  `json:"url,omitempty"`
	Status    domain.Status           `json:"status"`
	Detail    string                  `json:"detail,omitempty"`
	Timestamp string                  `json:"timestamp"`
	Result    *domain.ProcessedResult `json:"result,omitempty"`
}

// frameType is the discriminator clients switch on.
const frameType = "status_update"

// publisher is the fan-out half of the Registry the relay depends on.
type publisher interface {
	Publish(requestID string, message interface{})
}

// Relay is the dedicated consumer that drains the status queue and pushes
// each event into the subscriber registry. It runs independently of the
// pipeline consumers so a slow or unreachable client never blocks pipeline
// progress.
type Relay struct {
	registry publisher
	logger   *slog.Logger
}

// NewRelay creates a Relay fanning out to the given registry.
func NewRelay(registry publisher, logger *slog.Logger) *Relay {
	return &Relay{
		registry: registry,
		logger:   logger.With("component", "status_relay"),
	}
}

// Handle processes one status-queue delivery. Malformed bodies are dropped
// so they cannot loop; fan-out failures are per-connection and handled by
// the registry, so a handled event is always acked.
func (r *Relay) Handle(ctx context.Context, body []byte) queue.Decision {
	var event queue.StatusEvent
	if err := json.Unmarshal(body, &event); err != nil {
		r.logger.Error("malformed status event, dropping",
			"error", err,
			"body_size", len(body))
		return queue.Drop
	}

	r.registry.Publish(event.RequestID, FrameFrom(event))

	r.logger.Debug("status event relayed",
		"request_id", event.RequestID,
		"status", event.Status)
	return queue.Ack
}

// FrameFrom converts a wire status event into the subscriber frame.
func FrameFrom(event queue.StatusEvent) StatusFrame {
	return StatusFrame{
		Type:      frameType,
		RequestID: event.RequestID,
		URL:       event.URL,
		Status:    event.Status,
		Detail:    event.Detail,
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Result:    event.Result,
	}
}
