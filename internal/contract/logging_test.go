package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "warn")

	logger.Info("hidden")
	logger.Warn("chart failed", "chart", "dialect")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "chart failed", entry["msg"])
	assert.Equal(t, "dialect", entry["chart"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "text", "debug")

	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	logger.Debug("pivoted", "labels", 3)
	assert.Contains(t, buf.String(), "msg=pivoted")
	assert.Contains(t, buf.String(), "labels=3")
	assert.Contains(t, buf.String(), "source=")
}
