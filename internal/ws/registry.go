package ws

import (
	"log/slog"
	"sync"
)

// Conn is the slice of a websocket connection the registry needs. The
// gorilla *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	// WriteJSON sends v as a JSON text message.
	WriteJSON(v interface{}) error

	// Close closes the underlying network connection.
	Close() error
}

// Registry maintains the live subscriber set per request and fans status
// frames out to all of them. It is the sole mutator of the subscriber map;
// a single mutex guards it because connection add/remove races with fan-out.
type Registry struct {
	mu          sync.Mutex
	subscribers map[string]map[Conn]struct{}
	logger      *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		subscribers: make(map[string]map[Conn]struct{}),
		logger:      logger.With("component", "subscriber_registry"),
	}
}

// Subscribe registers a connection under a request ID, creating the set if
// absent. The transport handshake must already be complete.
func (r *Registry) Subscribe(requestID string, conn Conn) {
	r.mu.Lock()
	set, ok := r.subscribers[requestID]
	if !ok {
		set = make(map[Conn]struct{})
		r.subscribers[requestID] = set
	}
	set[conn] = struct{}{}
	count := len(set)
	r.mu.Unlock()

	r.logger.Info("subscriber added",
		"request_id", requestID,
		"subscriber_count", count)
}

// Unsubscribe removes a connection; the set entry is deleted once empty.
func (r *Registry) Unsubscribe(requestID string, conn Conn) {
	r.mu.Lock()
	if set, ok := r.subscribers[requestID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.subscribers, requestID)
		}
	}
	remaining := len(r.subscribers[requestID])
	r.mu.Unlock()

	r.logger.Info("subscriber removed",
		"request_id", requestID,
		"subscriber_count", remaining)
}

// Publish delivers the message to every live subscriber of the request.
// A snapshot of the set is taken under the lock and delivery happens
// outside it, so a slow connection never blocks subscription changes.
// Connections whose delivery fails are pruned in a second locked pass.
func (r *Registry) Publish(requestID string, message interface{}) {
	r.mu.Lock()
	set, ok := r.subscribers[requestID]
	if !ok || len(set) == 0 {
		r.mu.Unlock()
		r.logger.Debug("no subscribers for request", "request_id", requestID)
		return
	}
	snapshot := make([]Conn, 0, len(set))
	for conn := range set {
		snapshot = append(snapshot, conn)
	}
	r.mu.Unlock()

	var dead []Conn
	for _, conn := range snapshot {
		if err := conn.WriteJSON(message); err != nil {
			r.logger.Warn("subscriber delivery failed, pruning",
				"request_id", requestID,
				"error", err)
			dead = append(dead, conn)
		}
	}

	if len(dead) == 0 {
		return
	}

	r.mu.Lock()
	if set, ok := r.subscribers[requestID]; ok {
		for _, conn := range dead {
			delete(set, conn)
		}
		if len(set) == 0 {
			delete(r.subscribers, requestID)
		}
	}
	r.mu.Unlock()

	for _, conn := range dead {
		_ = conn.Close()
	}
}

// SubscriberCount returns the number of live subscribers for a request.
func (r *Registry) SubscriberCount(requestID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers[requestID])
}
