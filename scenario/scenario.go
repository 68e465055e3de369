// Package scenario replays scripted button interactions on a virtual clock and checks the
// outcome against expectations.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/web-perf/react-vr-dbmonster/button"
	"github.com/web-perf/react-vr-dbmonster/input"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidScenario is returned for documents that cannot be replayed.
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrInvalidStep is returned for a step that sets zero or several actions.
	ErrInvalidStep = errors.New("step must set exactly one of focus, input, wait or disabled")
)

// Focus step values.
const (
	FocusEnter = "enter"
	FocusExit  = "exit"
)

// Scenario is one scripted interaction with a single button.
type Scenario struct {
	Name   string        `yaml:"name"`
	Button button.Config `yaml:"button"`
	Steps  []Step        `yaml:"steps"`
	Expect Expect        `yaml:"expect"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// Step is one action. Exactly one field is set.
type Step struct {
	Focus    string        `yaml:"focus,omitempty"`
	Input    *input.Raw    `yaml:"input,omitempty"`
	Wait     time.Duration `yaml:"wait,omitempty"`
	Disabled *bool         `yaml:"disabled,omitempty"`
}

// Expect lists the assertions made after the last step. Nil fields are not checked.
type Expect struct {
	State       string `yaml:"state,omitempty"`
	Clicks      *int   `yaml:"clicks,omitempty"`
	LongClicks  *int   `yaml:"longClicks,omitempty"`
	Enters      *int   `yaml:"enters,omitempty"`
	Exits       *int   `yaml:"exits,omitempty"`
	Diagnostics *int   `yaml:"diagnostics,omitempty"`
}

// Validate checks the structure of the scenario without running it.
func (s Scenario) Validate() error {
	var errs []error

	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalidScenario, s.Name, err)
	}

	return nil
}

func (s Step) validate() error {
	set := 0

	if s.Focus != "" {
		set++

		if s.Focus != FocusEnter && s.Focus != FocusExit {
			return fmt.Errorf("%w: focus %q", ErrInvalidStep, s.Focus)
		}
	}

	if s.Input != nil {
		set++

		if _, err := input.Decode(*s.Input); err != nil {
			return err
		}
	}

	if s.Wait != 0 {
		set++

		if s.Wait < 0 {
			return fmt.Errorf("%w: negative wait %s", ErrInvalidStep, s.Wait)
		}
	}

	if s.Disabled != nil {
		set++
	}

	if set != 1 {
		return ErrInvalidStep
	}

	return nil
}

func (s Step) String() string {
	switch {
	case s.Focus != "":
		return "focus " + s.Focus
	case s.Input != nil:
		if ev, err := input.Decode(*s.Input); err == nil {
			return ev.String()
		}

		return "input " + s.Input.Device + " " + s.Input.Phase
	case s.Wait != 0:
		return "wait " + s.Wait.String()
	case s.Disabled != nil:
		return fmt.Sprintf("disabled %t", *s.Disabled)
	default:
		return "empty step"
	}
}

// Load decodes one YAML scenario and validates it. Unknown fields are rejected.
func Load(r io.Reader) (Scenario, error) {
	var sc Scenario

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&sc); err != nil {
		return Scenario{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}

	return sc, nil
}

// LoadFile reads a scenario file. The name defaults to the file name without extension.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}

	sc, err := Load(bytes.NewReader(data))
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}

	sc.Path = path

	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return sc, nil
}

// LoadFiles loads every path in order, stopping at the first error.
func LoadFiles(paths []string) ([]Scenario, error) {
	out := make([]Scenario, 0, len(paths))

	for _, p := range paths {
		sc, err := LoadFile(p)
		if err != nil {
			return nil, err
		}

		out = append(out, sc)
	}

	return out, nil
}
