package queue

import "context"

// Decision tells the broker client how to resolve a delivery after the
// handler returns. Business-level retries are never expressed through
// transport redelivery; a handler that wants a retry publishes a new task
// and still returns Ack.
type Decision int

const (
	// Ack resolves the delivery as handled.
	Ack Decision = iota

	// NackRequeue returns the delivery to the queue after a transport-level
	// failure, such as a publish that could not reach the broker.
	NackRequeue

	// Drop resolves the delivery without requeueing. Used for malformed
	// messages that would otherwise loop forever.
	Drop
)

// Handler processes one delivered message body and decides its fate.
// Implementations must tolerate redelivery: the broker guarantees
// at-least-once, not exactly-once.
type Handler func(ctx context.Context, body []byte) Decision
