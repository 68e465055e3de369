package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web-perf/react-vr-dbmonster/envutil"
	"github.com/web-perf/react-vr-dbmonster/logger"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Parallel()

	ctx := logger.WithSubsystem(t.Context(), "vrbutton")
	ctx = envutil.WithEnvOverride(ctx, "OTEL_ENABLED", "true")
	ctx = envutil.WithEnvOverride(ctx, "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://collector:4318")
	ctx = envutil.WithEnvOverride(ctx, "OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", "http://collector:4318/v1/logs")
	ctx = envutil.WithEnvOverride(ctx, "OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "2s")

	cfg, err := LoadConfigFromEnv(ctx, "test")
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "vrbutton", cfg.ServiceName)
	assert.Equal(t, defaultServiceVersion, cfg.ServiceVersion)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "http://collector:4318", cfg.Endpoint)
	assert.Equal(t, "http://collector:4318/v1/logs", cfg.LogsEndpoint)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoadConfigFromEnvBadTimeout(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverride(t.Context(), "OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "soon")

	_, err := LoadConfigFromEnv(ctx, "test")
	require.ErrorIs(t, err, envutil.ErrBadEnvVar)
}

//nolint:paralleltest // Initialize replaces global providers
func TestInitializeDisabled(t *testing.T) {
	handler, err := Initialize(t.Context(), &Config{Enabled: false, Endpoint: "http://collector:4318"})
	require.NoError(t, err)
	assert.Nil(t, handler)

	handler, err = Initialize(t.Context(), &Config{Enabled: true})
	require.NoError(t, err)
	assert.Nil(t, handler)

	require.NoError(t, Shutdown(t.Context()))
}

//nolint:paralleltest // Initialize replaces global providers
func TestInitializeWithLogs(t *testing.T) {
	handler, err := Initialize(t.Context(), &Config{
		ServiceName:  "vrbutton-test",
		Enabled:      true,
		Endpoint:     "http://127.0.0.1:4318",
		LogsEndpoint: "http://127.0.0.1:4318/v1/logs",
		Timeout:      time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, handler)

	require.NoError(t, Shutdown(t.Context()))
	require.NoError(t, Shutdown(t.Context()))
}
