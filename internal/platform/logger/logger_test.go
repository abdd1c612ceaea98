package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sift-api/internal/config"
)

func TestSetup(t *testing.T) {
	t.Run("returns a logger honoring the configured level", func(t *testing.T) {
		logger := Setup(config.ServerConfig{Port: 8000, LogLevel: "warn"})
		require.NotNil(t, logger)

		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	})

	t.Run("falls back to info on an unknown level", func(t *testing.T) {
		logger := Setup(config.ServerConfig{Port: 8000, LogLevel: "verbose"})
		require.NotNil(t, logger)

		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("sets the default logger", func(t *testing.T) {
		logger := Setup(config.ServerConfig{Port: 8000, LogLevel: "debug"})
		assert.Equal(t, logger, slog.Default())
	})
}
