package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: "settle", Output: &buf})

	l.Info("processed file", "file", "trip.csv")
	out := buf.String()
	assert.Contains(t, out, "component=settle")
	assert.Contains(t, out, "file=trip.csv")

	buf.Reset()
	l.WithComponent("rates").Warn("fetch failed")
	assert.Contains(t, buf.String(), "component=rates")
}

func TestLogger_ContextMethodsCarryComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: "settle", Output: &buf})
	ctx := context.Background()

	l.DebugContext(ctx, "d")
	l.InfoContext(ctx, "i")
	l.WarnContext(ctx, "w")
	l.ErrorContext(ctx, "e")

	assert.Equal(t, 4, bytes.Count(buf.Bytes(), []byte("component=settle")))
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Component: "x", Output: &buf})

	l.Info("hidden")
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input: %q", tt.input)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
