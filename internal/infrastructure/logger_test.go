package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenpulse/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	t.Run("console output", func(t *testing.T) {
		logger, closer, err := InitializeLogger(config.LoggingConfig{
			Level:  "debug",
			Format: "text",
			Output: "console",
		})
		require.NoError(t, err)
		defer closer()

		assert.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("file output creates the log file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")
		logger, closer, err := InitializeLogger(config.LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: path,
		})
		require.NoError(t, err)
		defer closer()

		logger.Info("pipeline started", "run_id", "test")
		_, err = os.Stat(path)
		assert.NoError(t, err)
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}
