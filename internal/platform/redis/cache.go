package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/sift-api/internal/domain"
)

// keyPrefix namespaces result entries in the shared keyspace.
const keyPrefix = "url_result:"

// Commands is the slice of the Redis client surface the cache uses.
// *redis.Client satisfies it.
type Commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// ResultCache maps a URL to its best-known processed result. Writes follow
// the upsert-if-better rule: a stored score, once present, never decreases.
type ResultCache struct {
	client Commands
	logger *slog.Logger
}

// NewResultCache creates a ResultCache on an established Redis client.
func NewResultCache(client Commands, logger *slog.Logger) *ResultCache {
	return &ResultCache{
		client: client,
		logger: logger.With("component", "result_cache"),
	}
}

// Key returns the cache key for a URL.
func Key(url string) string {
	return keyPrefix + url
}

// Get returns the stored result for the URL, or (nil, nil) when absent.
func (c *ResultCache) Get(ctx context.Context, url string) (*domain.ProcessedResult, error) {
	data, err := c.client.Get(ctx, Key(url)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry for %s: %w", url, err)
	}

	var result domain.ProcessedResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry for %s: %w", url, err)
	}

	return &result, nil
}

// UpsertIfBetter stores the candidate when no entry exists, when the
// existing entry has no score, or when the candidate's score is strictly
// greater. Concurrent qualifying writers race last-writer-wins; writes are
// infrequent and idempotent in effect, so the store's per-key atomicity is
// relied upon rather than reimplemented.
func (c *ResultCache) UpsertIfBetter(ctx context.Context, url string, candidate *domain.ProcessedResult) error {
	existing, err := c.Get(ctx, url)
	if err != nil {
		return err
	}

	if !candidate.BetterThan(existing) {
		c.logger.Debug("cache entry kept, candidate not better",
			"url", url)
		return nil
	}

	data, err := json.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry for %s: %w", url, err)
	}

	if err := c.client.Set(ctx, Key(url), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry for %s: %w", url, err)
	}

	c.logger.Info("cache entry updated", "url", url)
	return nil
}

// Ping verifies the cache is reachable.
func (c *ResultCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache unreachable: %w", err)
	}
	return nil
}

// Close releases the underlying client, best-effort.
func (c *ResultCache) Close() {
	if err := c.client.Close(); err != nil {
		c.logger.Warn("error closing cache client", "error", err)
	}
}
