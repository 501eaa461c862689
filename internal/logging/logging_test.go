package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetupLoggerConsoleOnly(t *testing.T) {
	var out bytes.Buffer
	logger, cleanup := SetupLogger(&out, slog.LevelInfo, "")
	defer cleanup()

	logger.Debug("hidden")
	logger.Info("indexes loaded", "table", "users")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "indexes loaded")
	assert.Contains(t, out.String(), "table=users")
}

func TestMultiHandlerFanOut(t *testing.T) {
	var verbose, quiet bytes.Buffer
	handler := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	logger := slog.New(handler).With("session", "abc")

	logger.Debug("cache hit")
	logger.Warn("invalid payload")

	assert.Contains(t, verbose.String(), "cache hit")
	assert.Contains(t, verbose.String(), "invalid payload")
	assert.NotContains(t, quiet.String(), "cache hit")
	assert.Contains(t, quiet.String(), "invalid payload")
	assert.Contains(t, quiet.String(), "session=abc")

	grouped := slog.New(handler.WithGroup("engine"))
	grouped.Warn("disabled", "name", "ARCHIVE")
	assert.Contains(t, quiet.String(), "engine.name=ARCHIVE")
}
