package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, closer := New(Config{Level: "info"}, &buf)
	defer func() { _ = closer.Close() }()

	l.Debug("hidden")
	l.Info("ロゴを検出", "brand", "Nike")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ロゴを検出", rec["msg"])
	assert.Equal(t, "Nike", rec["brand"])
}

func TestNew_TextWithFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, closer := New(Config{Format: "text", File: path}, &buf)

	l.Warn("recognition cache write failed", "key", "brands:x")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "level=WARN")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "recognition cache write failed")
}
