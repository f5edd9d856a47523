package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogger_WritesAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	logger.Info("hidden %d", 1)
	assert.Empty(t, buf.String())

	logger.Warn("plugin %q not found", "blocks")
	out := buf.String()
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, `plugin \"blocks\" not found`)
	assert.Contains(t, out, "app=test")
}

func TestLogger_Fields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	logger := FromLogrus(base)

	logger.WithComponent("bootstrap").WithField("editor", "e1").Debug("init")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "init", entry.Message)
	assert.Equal(t, "bootstrap", entry.Data["component"])
	assert.Equal(t, "e1", entry.Data["editor"])
}

func TestLogger_WithError(t *testing.T) {
	base, hook := test.NewNullLogger()
	logger := FromLogrus(base)

	logger.WithError(errors.New("boom")).Error("render failed")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "boom")
}

func TestLogger_SetLevel(t *testing.T) {
	base, hook := test.NewNullLogger()
	logger := FromLogrus(base)

	logger.SetLevel(LevelError)
	logger.Warn("dropped")
	assert.Empty(t, hook.AllEntries())

	logger.Error("kept")
	assert.Len(t, hook.AllEntries(), 1)
}

func TestNullLogger(t *testing.T) {
	// Must not panic.
	NullLogger.Debug("x")
	NullLogger.WithComponent("c").Warn("y")
	NullLogger.WithError(errors.New("z")).Error("z")
}

func TestDefault(t *testing.T) {
	l := Default()
	require.NotNil(t, l)

	custom := New(Config{Output: &bytes.Buffer{}})
	SetDefault(custom)
	t.Cleanup(func() { SetDefault(l) })

	assert.Same(t, custom, Default())
}
