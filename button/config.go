package button

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/web-perf/react-vr-dbmonster/envutil"
	"gopkg.in/yaml.v3"
)

// EnvLongClickDelay names the environment variable holding the process-wide default
// long-click delay (a Go duration such as "750ms").
const EnvLongClickDelay = "VRBUTTON_LONG_CLICK_DELAY"

// ErrInvalidConfig is returned when a button config cannot be decoded.
var ErrInvalidConfig = errors.New("invalid button config")

// Config is the static configuration of a button.
type Config struct {
	Name     string `json:"name"     yaml:"name"`
	Disabled bool   `json:"disabled" yaml:"disabled"`

	// LongClickDelay is how long the primary control must be held for a long click.
	// Zero means unspecified; values under the 10ms floor are clamped.
	LongClickDelay time.Duration `json:"longClickDelay,omitempty" yaml:"longClickDelay,omitempty"`

	// LongClickDelayMs is the same setting in milliseconds. It is used only when
	// LongClickDelay is zero.
	LongClickDelayMs int `json:"longClickDelayMs,omitempty" yaml:"longClickDelayMs,omitempty"`
}

// DefaultLongClickDelay reads EnvLongClickDelay. It returns zero, meaning the built-in
// default, when the variable is unset or malformed.
func DefaultLongClickDelay(ctx context.Context) time.Duration {
	return envutil.Duration(ctx, EnvLongClickDelay).ValueOrElse(0)
}

// ResolvedDelay returns the configured delay, falling back to DefaultLongClickDelay.
// The result may still be zero or below the floor; the long-press timer clamps it.
func (c Config) ResolvedDelay(ctx context.Context) time.Duration {
	if c.LongClickDelay != 0 {
		return c.LongClickDelay
	}

	if c.LongClickDelayMs != 0 {
		return time.Duration(c.LongClickDelayMs) * time.Millisecond
	}

	return DefaultLongClickDelay(ctx)
}

// LoadConfig decodes a YAML button config. Unknown fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}

		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// LoadConfigFile reads and decodes a YAML button config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return Config{}, fmt.Errorf("failed to read button config: %w", err)
	}

	cfg, err := LoadConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
