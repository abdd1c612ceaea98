package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sift-api/internal/domain"
	"github.com/phrazzld/sift-api/internal/queue"
)

// recordingPublisher captures fan-out calls.
type recordingPublisher struct {
	requestIDs []string
	messages   []interface{}
}

func (p *recordingPublisher) Publish(requestID string, message interface{}) {
	p.requestIDs = append(p.requestIDs, requestID)
	p.messages = append(p.messages, message)
}

func TestRelayHandle(t *testing.T) {
	t.Run("fans out a decoded event and acks", func(t *testing.T) {
		pub := &recordingPublisher{}
		relay := NewRelay(pub, testLogger())

		score := 8.5
		event := queue.StatusEvent{
			RequestID: "req-1",
			URL:       "https://example.com/a",
			Status:    domain.StatusCompleted,
			Detail:    "approved",
			Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Result:    &domain.ProcessedResult{URL: "https://example.com/a", Summary: "s", OverallScore: &score},
		}
		body, err := json.Marshal(event)
		require.NoError(t, err)

		decision := relay.Handle(context.Background(), body)
		assert.Equal(t, queue.Ack, decision)

		require.Len(t, pub.messages, 1)
		assert.Equal(t, "req-1", pub.requestIDs[0])

		frame, ok := pub.messages[0].(StatusFrame)
		require.True(t, ok)
		assert.Equal(t, "status_update", frame.Type)
		assert.Equal(t, domain.StatusCompleted, frame.Status)
		assert.Equal(t, "https://example.com/a", frame.URL)
		assert.Equal(t, "2025-06-01T12:00:00Z", frame.Timestamp)
		require.NotNil(t, frame.Result)
		assert.Equal(t, 8.5, *frame.Result.OverallScore)
	})

	t.Run("drops a malformed body without panicking", func(t *testing.T) {
		pub := &recordingPublisher{}
		relay := NewRelay(pub, testLogger())

		decision := relay.Handle(context.Background(), []byte("{not json"))
		assert.Equal(t, queue.Drop, decision)
		assert.Empty(t, pub.messages)
	})
}

func TestFrameWireShape(t *testing.T) {
	frame := FrameFrom(queue.StatusEvent{
		RequestID: "req-1",
		Status:    domain.StatusQueued,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})

	body, err := json.Marshal(frame)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "status_update", raw["type"])
	assert.Equal(t, "queued", raw["status"])
	// Empty optional fields stay off the wire.
	assert.NotContains(t, raw, "url")
	assert.NotContains(t, raw, "detail")
	assert.NotContains(t, raw, "result")
}
