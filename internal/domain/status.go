package domain

// Status identifies a pipeline state transition for a submitted URL.
type Status string

// Possible status values, in rough pipeline order. Cached and Rejected are
// entry shortcuts that never reach the queues.
const (
	StatusQueued       Status = "queued"
	StatusProcessing   Status = "processing"
	StatusProcessed    Status = "processed"
	StatusEvaluating   Status = "evaluating"
	StatusReprocessing Status = "reprocessing"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
	StatusRejected     Status = "rejected"
	StatusCached       Status = "cached"
)

// IsTerminal reports whether no further status events follow for the request.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusRejected, StatusCached:
		return true
	}
	return false
}

// IsValid reports whether s is one of the known status values.
func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusProcessed, StatusEvaluating,
		StatusReprocessing, StatusCompleted, StatusFailed, StatusRejected, StatusCached:
		return true
	}
	return false
}
