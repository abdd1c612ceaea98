// Package service holds the submission boundary: the synchronous work done
// for each submitted URL before it enters the asynchronous pipeline.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/phrazzld/sift-api/internal/domain"
	"github.com/phrazzld/sift-api/internal/queue"
)

// submitPriority is the priority stamped onto fresh submissions; retries
// decay from here.
const submitPriority = queue.MaxPriority

// CacheReader is the read side of the result cache needed at submission.
type CacheReader interface {
	Get(ctx context.Context, rawURL string) (*domain.ProcessedResult, error)
}

// Publisher is the broker surface needed at submission.
type Publisher interface {
	PublishProcessingTask(ctx context.Context, task queue.ProcessingTask) error
	PublishStatus(ctx context.Context, event queue.StatusEvent) error
}

// ReachabilityChecker probes whether a URL responds with a usable page.
type ReachabilityChecker interface {
	IsReachable(ctx context.Context, rawURL string) bool
}

// URLStatus is the synchronous per-URL outcome of a submission.
type URLStatus struct {
	URL       string                  `json:"url"`
	RequestID string                  `json:"request_id"`
	Status    domain.Status           `json:"status"`
	Detail    string                  `json:"detail,omitempty"`
	Result    *domain.ProcessedResult `json:"result,omitempty"`
}

// SubmissionResult is the outcome of one batch submission.
type SubmissionResult struct {
	BatchID  string      `json:"request_id"`
	Statuses []URLStatus `json:"statuses"`
}

// SubmissionService triages submitted URLs: cached results are returned
// immediately, unusable URLs are rejected, and the rest are queued for
// processing. Each URL gets its own request ID for status fan-out.
type SubmissionService struct {
	cache          CacheReader
	publisher      Publisher
	reachability   ReachabilityChecker
	allowedDomains map[string]struct{}
	maxRetries     int
	logger         *slog.Logger
}

// NewSubmissionService wires the submission boundary. An empty
// allowedDomains list disables the domain allowlist; maxRetries is the
// retry ceiling stamped onto every queued task.
func NewSubmissionService(
	cache CacheReader,
	publisher Publisher,
	reachability ReachabilityChecker,
	allowedDomains []string,
	maxRetries int,
	logger *slog.Logger,
) *SubmissionService {
	allowed := make(map[string]struct{}, len(allowedDomains))
	for _, domainName := range allowedDomains {
		allowed[domainName] = struct{}{}
	}
	return &SubmissionService{
		cache:          cache,
		publisher:      publisher,
		reachability:   reachability,
		allowedDomains: allowed,
		maxRetries:     maxRetries,
		logger:         logger.With("component", "submission_service"),
	}
}

// Submit triages each URL in the batch and returns the synchronous
// outcome per URL. Every outcome is also published as a status event so
// websocket subscribers see the same transitions.
func (s *SubmissionService) Submit(ctx context.Context, urls []string) *SubmissionResult {
	batchID := uuid.New().String()
	logger := s.logger.With("batch_id", batchID)
	logger.Info("received url submission", "url_count", len(urls))

	statuses := make([]URLStatus, 0, len(urls))
	for _, rawURL := range urls {
		statuses = append(statuses, s.submitOne(ctx, logger, rawURL))
	}

	return &SubmissionResult{BatchID: batchID, Statuses: statuses}
}

func (s *SubmissionService) submitOne(ctx context.Context, logger *slog.Logger, rawURL string) URLStatus {
	requestID := uuid.New().String()
	logger = logger.With("url", rawURL, "request_id", requestID)

	if detail, ok := s.checkAllowed(rawURL); !ok {
		logger.Warn("url rejected", "reason", detail)
		return s.terminal(ctx, logger, rawURL, requestID, domain.StatusRejected, detail, nil)
	}

	existing, err := s.cache.Get(ctx, rawURL)
	if err != nil {
		logger.Error("cache lookup failed", "error", err)
		detail := fmt.Sprintf("Error initiating processing: %v", err)
		return s.terminal(ctx, logger, rawURL, requestID, domain.StatusFailed, detail, nil)
	}
	if existing != nil {
		logger.Info("cache hit")
		return s.terminal(ctx, logger, rawURL, requestID, domain.StatusCached,
			"Result retrieved from cache.", existing)
	}

	if !s.reachability.IsReachable(ctx, rawURL) {
		detail := "URL not reachable or returned 404"
		logger.Warn("url rejected", "reason", detail)
		return s.terminal(ctx, logger, rawURL, requestID, domain.StatusRejected, detail, nil)
	}

	task := queue.ProcessingTask{
		URL:        rawURL,
		Priority:   submitPriority,
		RetryCount: 0,
		MaxRetries: s.maxRetries,
		RequestID:  requestID,
	}
	if err := s.publisher.PublishProcessingTask(ctx, task); err != nil {
		logger.Error("failed to queue url task", "error", err)
		detail := fmt.Sprintf("Error initiating processing: %v", err)
		return s.terminal(ctx, logger, rawURL, requestID, domain.StatusFailed, detail, nil)
	}

	logger.Info("url queued for processing")
	return URLStatus{
		URL:       rawURL,
		RequestID: requestID,
		Status:    domain.StatusQueued,
		Detail:    "URL queued for processing",
	}
}

// checkAllowed applies the domain allowlist and basic URL hygiene.
func (s *SubmissionService) checkAllowed(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Sprintf("Invalid URL format: %s", rawURL), false
	}
	if len(s.allowedDomains) == 0 {
		return "", true
	}
	if _, ok := s.allowedDomains[parsed.Host]; !ok {
		return fmt.Sprintf("Domain %s not allowed", parsed.Host), false
	}
	return "", true
}

// terminal publishes a status event for an outcome decided synchronously
// and returns the matching entry. Event publication is best effort: the
// caller still gets the outcome if the broker is down.
func (s *SubmissionService) terminal(
	ctx context.Context,
	logger *slog.Logger,
	rawURL, requestID string,
	status domain.Status,
	detail string,
	result *domain.ProcessedResult,
) URLStatus {
	event := queue.NewStatusEvent(requestID, rawURL, status, detail)
	if result != nil {
		event = event.WithResult(result)
	}
	if err := s.publisher.PublishStatus(ctx, event); err != nil {
		logger.Error("failed to publish status event", "status", status, "error", err)
	}

	return URLStatus{
		URL:       rawURL,
		RequestID: requestID,
		Status:    status,
		Detail:    detail,
		Result:    result,
	}
}
