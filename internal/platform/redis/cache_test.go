package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sift-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCommands backs the cache with an in-memory map.
type fakeCommands struct {
	entries map[string]string
	getErr  error
	setErr  error
	sets    int
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{entries: make(map[string]string)}
}

func (f *fakeCommands) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.entries[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCommands) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.entries[key] = string(v)
	case string:
		f.entries[key] = v
	}
	f.sets++
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCommands) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCommands) Close() error { return nil }

func resultWithScore(score float64) *domain.ProcessedResult {
	return &domain.ProcessedResult{
		URL:          "https://example.com/a",
		Summary:      "a summary",
		Keywords:     "1. go",
		Sentiment:    "Neutral",
		OverallScore: &score,
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "url_result:https://example.com/a", Key("https://example.com/a"))
}

func TestResultCacheGet(t *testing.T) {
	t.Run("miss returns nil without error", func(t *testing.T) {
		cache := NewResultCache(newFakeCommands(), testLogger())

		got, err := cache.Get(context.Background(), "https://example.com/a")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("hit decodes the stored result", func(t *testing.T) {
		fake := newFakeCommands()
		cache := NewResultCache(fake, testLogger())
		stored := resultWithScore(8.0)
		require.NoError(t, cache.UpsertIfBetter(context.Background(), stored.URL, stored))

		got, err := cache.Get(context.Background(), stored.URL)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, stored.Summary, got.Summary)
		require.NotNil(t, got.OverallScore)
		assert.Equal(t, 8.0, *got.OverallScore)
	})

	t.Run("corrupt entry is an error", func(t *testing.T) {
		fake := newFakeCommands()
		fake.entries[Key("https://example.com/a")] = "{not json"
		cache := NewResultCache(fake, testLogger())

		_, err := cache.Get(context.Background(), "https://example.com/a")
		assert.Error(t, err)
	})

	t.Run("store error propagates", func(t *testing.T) {
		fake := newFakeCommands()
		fake.getErr = errors.New("connection reset")
		cache := NewResultCache(fake, testLogger())

		_, err := cache.Get(context.Background(), "https://example.com/a")
		assert.Error(t, err)
	})
}

func TestUpsertIfBetter(t *testing.T) {
	t.Run("stored score equals the max of the sequence", func(t *testing.T) {
		fake := newFakeCommands()
		cache := NewResultCache(fake, testLogger())
		ctx := context.Background()
		url := "https://example.com/a"

		for _, score := range []float64{5.0, 3.0, 8.0, 8.0, 6.5} {
			require.NoError(t, cache.UpsertIfBetter(ctx, url, resultWithScore(score)))
		}

		got, err := cache.Get(ctx, url)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.OverallScore)
		assert.Equal(t, 8.0, *got.OverallScore)

		// Only the first entry and the strict improvement were written.
		assert.Equal(t, 2, fake.sets)
	})

	t.Run("scored candidate replaces an unscored entry", func(t *testing.T) {
		fake := newFakeCommands()
		cache := NewResultCache(fake, testLogger())
		ctx := context.Background()
		url := "https://example.com/a"

		unscored := resultWithScore(0)
		unscored.OverallScore = nil
		require.NoError(t, cache.UpsertIfBetter(ctx, url, unscored))
		require.NoError(t, cache.UpsertIfBetter(ctx, url, resultWithScore(2.0)))

		got, err := cache.Get(ctx, url)
		require.NoError(t, err)
		require.NotNil(t, got.OverallScore)
		assert.Equal(t, 2.0, *got.OverallScore)
	})

	t.Run("unscored candidate never displaces a scored entry", func(t *testing.T) {
		fake := newFakeCommands()
		cache := NewResultCache(fake, testLogger())
		ctx := context.Background()
		url := "https://example.com/a"

		require.NoError(t, cache.UpsertIfBetter(ctx, url, resultWithScore(1.0)))
		unscored := resultWithScore(0)
		unscored.OverallScore = nil
		require.NoError(t, cache.UpsertIfBetter(ctx, url, unscored))

		got, err := cache.Get(ctx, url)
		require.NoError(t, err)
		require.NotNil(t, got.OverallScore)
	})

	t.Run("read failure aborts the write", func(t *testing.T) {
		fake := newFakeCommands()
		fake.getErr = errors.New("connection reset")
		cache := NewResultCache(fake, testLogger())

		err := cache.UpsertIfBetter(context.Background(), "https://example.com/a", resultWithScore(9.0))
		assert.Error(t, err)
		assert.Zero(t, fake.sets)
	})

	t.Run("write failure propagates", func(t *testing.T) {
		fake := newFakeCommands()
		fake.setErr = errors.New("readonly replica")
		cache := NewResultCache(fake, testLogger())

		err := cache.UpsertIfBetter(context.Background(), "https://example.com/a", resultWithScore(9.0))
		assert.Error(t, err)
	})
}
