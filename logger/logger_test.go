package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAddsSubsystemAndValues(t *testing.T) { //nolint:paralleltest // replaces the default logger
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "vrbutton-test",
		JSON:      true,
		Output:    &buf,
	})

	ctx := With(t.Context(), "button", "ok")
	Get(ctx).Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "vrbutton-test", record["subsystem"])
	assert.Equal(t, "ok", record["button"])
	assert.Equal(t, "hello", record["msg"])
}

func TestSubsystemOverride(t *testing.T) { //nolint:paralleltest // replaces the default logger
	ConfigureLoggingWithOptions(Options{Subsystem: "default"})

	assert.Equal(t, "default", GetSubsystem(t.Context()))
	assert.Equal(t, "scene", GetSubsystem(WithSubsystem(t.Context(), "scene")))
}

func TestMuted(t *testing.T) { //nolint:paralleltest // replaces the default logger
	var buf bytes.Buffer

	ConfigureLoggingWithOptions(Options{Subsystem: "muted", Output: &buf})

	Get(WithMuted(t.Context(), true)).Error("should not appear")
	assert.Empty(t, buf.String())

	Get(WithMuted(t.Context(), false)).Info("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestFanout(t *testing.T) { //nolint:paralleltest // replaces the default logger
	var console, extra bytes.Buffer

	ConfigureLoggingWithOptions(Options{
		Subsystem: "fanout",
		Output:    &console,
		MinLevel:  slog.LevelInfo,
		Handlers: []slog.Handler{
			slog.NewTextHandler(&extra, &slog.HandlerOptions{Level: slog.LevelDebug}),
		},
	})

	Get(t.Context()).Debug("debug only extra")
	Get(t.Context()).Info("both")

	assert.NotContains(t, console.String(), "debug only extra")
	assert.Contains(t, extra.String(), "debug only extra")
	assert.Equal(t, 1, strings.Count(console.String(), "both"))
	assert.Equal(t, 1, strings.Count(extra.String(), "both"))
}
