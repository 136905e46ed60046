package infrastructure

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radpulse/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"INFO", "INFO"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.level).String())
		})
	}
}

func TestInitializeLogger_FileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "radpulse.log")

	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logPath,
	})
	require.NoError(t, err)
	t.Cleanup(func() { CloseLogFile() })

	logger.Info("dataset loaded", "rows", 42)
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "dataset loaded", entry["msg"])
	assert.Equal(t, float64(42), entry["rows"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestInitializeLogger_LevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "radpulse.log")

	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "warn",
		Output:   "file",
		FilePath: logPath,
	})
	require.NoError(t, err)
	t.Cleanup(func() { CloseLogFile() })

	logger.Info("should be filtered")
	logger.Warn("should be written")
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should be filtered")
	assert.Contains(t, string(data), "should be written")
}

func TestRunIDHandler_InjectsRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "radpulse.log")

	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logPath,
	})
	require.NoError(t, err)
	t.Cleanup(func() { CloseLogFile() })

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "stage complete")
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "run-123", entry["run_id"])
}

func TestRunIDContext(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "abc")
		assert.Equal(t, "abc", GetRunID(ctx))
	})

	t.Run("absent returns empty", func(t *testing.T) {
		assert.Equal(t, "", GetRunID(context.Background()))
	})

	t.Run("ensure generates when missing", func(t *testing.T) {
		ctx := EnsureRunID(context.Background())
		assert.NotEmpty(t, GetRunID(ctx))
	})

	t.Run("ensure preserves existing", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "keep-me")
		assert.Equal(t, "keep-me", GetRunID(EnsureRunID(ctx)))
	})
}

func TestGenerateRunID_Unique(t *testing.T) {
	a := GenerateRunID()
	b := GenerateRunID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
