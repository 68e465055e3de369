package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/web-perf/react-vr-dbmonster/button"
	"github.com/web-perf/react-vr-dbmonster/input"
	"github.com/web-perf/react-vr-dbmonster/logger"
	"github.com/web-perf/react-vr-dbmonster/longpress"
	"github.com/web-perf/react-vr-dbmonster/statemachine"
	smtest "github.com/web-perf/react-vr-dbmonster/statemachine/testing"
)

// ErrExpectationFailed is wrapped by every mismatch reported by Result.Check.
var ErrExpectationFailed = errors.New("expectation failed")

// Result is the observable outcome of a replay.
type Result struct {
	Name        string
	FinalState  statemachine.State
	Calls       []string
	Diagnostics []statemachine.Diagnostic
	Elapsed     time.Duration

	// Err is set when the replay itself could not complete.
	Err error
}

// Count returns how many times the named callback ran.
func (r Result) Count(name string) int {
	n := 0

	for _, c := range r.Calls {
		if c == name {
			n++
		}
	}

	return n
}

// Check compares the result with the expectations and returns every mismatch joined.
func (r Result) Check(exp Expect) error {
	if r.Err != nil {
		return r.Err
	}

	var errs []error

	if exp.State != "" {
		want, err := statemachine.ParseState(exp.State)

		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%w: %w", ErrExpectationFailed, err))
		case want != r.FinalState:
			errs = append(errs, fmt.Errorf("%w: state is %s, want %s", ErrExpectationFailed, r.FinalState, want))
		}
	}

	counts := []struct {
		label string
		want  *int
		got   int
	}{
		{"clicks", exp.Clicks, r.Count(smtest.CallClick)},
		{"long clicks", exp.LongClicks, r.Count(smtest.CallLongClick)},
		{"enters", exp.Enters, r.Count(smtest.CallEnter)},
		{"exits", exp.Exits, r.Count(smtest.CallExit)},
		{"diagnostics", exp.Diagnostics, len(r.Diagnostics)},
	}

	for _, c := range counts {
		if c.want != nil && *c.want != c.got {
			errs = append(errs, fmt.Errorf("%w: %d %s, want %d", ErrExpectationFailed, c.got, c.label, *c.want))
		}
	}

	return errors.Join(errs...)
}

// Run replays a scenario against a fresh button whose long-press delay is measured on a
// virtual clock, so waits take no real time.
func Run(ctx context.Context, sc Scenario) Result {
	result := Result{Name: sc.Name}

	if err := sc.Validate(); err != nil {
		result.Err = err

		return result
	}

	ctx = logger.With(ctx, "scenario", sc.Name)

	clock := longpress.NewManualScheduler()
	recorder := smtest.NewRecorder[input.Event]()
	diagnostics := &statemachine.DiagnosticLog{}

	cfg := sc.Button
	if cfg.Name == "" {
		cfg.Name = sc.Name
	}

	btn, err := button.New(ctx, cfg, recorder.Callbacks(),
		button.WithScheduler(clock),
		button.WithReporter(diagnostics),
	)
	if err != nil {
		result.Err = err

		return result
	}

	defer func() { _ = btn.Close() }()

	for i, step := range sc.Steps {
		if err := apply(ctx, btn, clock, step); err != nil {
			result.Err = fmt.Errorf("step %d (%s): %w", i+1, step, err)

			break
		}
	}

	state, err := btn.State(ctx)
	if err != nil && result.Err == nil {
		result.Err = err
	}

	result.FinalState = state
	result.Calls = recorder.Names()
	result.Diagnostics = diagnostics.All()
	result.Elapsed = clock.Elapsed()

	logger.Get(ctx).Debug("scenario replayed",
		"state", state.String(),
		"calls", len(result.Calls),
		"diagnostics", len(result.Diagnostics),
		"elapsed", result.Elapsed)

	return result
}

func apply(ctx context.Context, btn *button.Button, clock *longpress.ManualScheduler, step Step) error {
	switch {
	case step.Focus == FocusEnter:
		return btn.Enter(ctx, nil)
	case step.Focus == FocusExit:
		return btn.Exit(ctx, nil)
	case step.Input != nil:
		ev, err := input.Decode(*step.Input)
		if err != nil {
			return err
		}

		return btn.HandleInput(ctx, ev)
	case step.Wait != 0:
		clock.Advance(step.Wait)

		// Timer fires were posted to the button's loop; a round trip drains them.
		_, err := btn.State(ctx)

		return err
	case step.Disabled != nil:
		return btn.SetDisabled(ctx, *step.Disabled)
	default:
		return ErrInvalidStep
	}
}

// RunAll replays scenarios concurrently on a pool of workers and returns the results in
// input order. Each scenario gets its own button and loop.
func RunAll(ctx context.Context, scenarios []Scenario, workers int) ([]Result, error) {
	if len(scenarios) == 0 {
		return nil, nil
	}

	pool := pond.NewResultPool[Result](max(workers, 1), pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()

	for _, sc := range scenarios {
		group.Submit(func() Result {
			return Run(ctx, sc)
		})
	}

	results, err := group.Wait()
	if err != nil {
		return results, fmt.Errorf("replaying scenarios: %w", err)
	}

	return results, nil
}

// Verify runs every scenario and checks it against its own expectations. It returns the
// results and a joined error naming each failing scenario.
func Verify(ctx context.Context, scenarios []Scenario, workers int) ([]Result, error) {
	results, err := RunAll(ctx, scenarios, workers)
	if err != nil {
		return results, err
	}

	var errs []error

	for i, res := range results {
		if err := res.Check(scenarios[i].Expect); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, err))
		}
	}

	return results, errors.Join(errs...)
}
