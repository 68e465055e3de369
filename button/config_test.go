package button

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web-perf/react-vr-dbmonster/envutil"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(strings.NewReader(`
name: play
disabled: true
longClickDelay: 750ms
`))
	require.NoError(t, err)

	assert.Equal(t, Config{Name: "play", Disabled: true, LongClickDelay: 750 * time.Millisecond}, cfg)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(strings.NewReader("name: play\nonClick: launch\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "button.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: stop\nlongClickDelayMs: 900\n"), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 900*time.Millisecond, cfg.ResolvedDelay(t.Context()))

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultLongClickDelay(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverride(t.Context(), EnvLongClickDelay, "not-a-duration")
	assert.Equal(t, time.Duration(0), DefaultLongClickDelay(ctx))

	ctx = envutil.WithEnvOverride(t.Context(), EnvLongClickDelay, "2s")
	assert.Equal(t, 2*time.Second, DefaultLongClickDelay(ctx))
}
