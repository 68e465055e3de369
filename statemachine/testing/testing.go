// Package testing provides helpers for driving interaction state machines in tests.
package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
	"github.com/web-perf/react-vr-dbmonster/longpress"
	"github.com/web-perf/react-vr-dbmonster/statemachine"
)

// Callback names recorded by Recorder.
const (
	CallEnter     = "enter"
	CallExit      = "exit"
	CallClick     = "click"
	CallLongClick = "long_click"
)

// Call is one recorded callback invocation.
type Call[P any] struct {
	Name    string
	Payload P
}

// Recorder builds a callback set that records every invocation. It is safe for
// concurrent use, so it can observe callbacks running on an event loop goroutine.
type Recorder[P any] struct {
	mu    sync.Mutex
	calls []Call[P]
}

// NewRecorder returns an empty recorder.
func NewRecorder[P any]() *Recorder[P] {
	return &Recorder[P]{}
}

func (r *Recorder[P]) record(name string) statemachine.Callback[P] {
	return func(_ context.Context, payload P) {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.calls = append(r.calls, Call[P]{Name: name, Payload: payload})
	}
}

// Callbacks returns a callback set with all four callbacks recording.
func (r *Recorder[P]) Callbacks() statemachine.Callbacks[P] {
	return statemachine.Callbacks[P]{
		OnEnter:     r.record(CallEnter),
		OnExit:      r.record(CallExit),
		OnClick:     r.record(CallClick),
		OnLongClick: r.record(CallLongClick),
	}
}

// Calls returns a copy of the recorded calls in invocation order.
func (r *Recorder[P]) Calls() []Call[P] {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Call[P], len(r.calls))
	copy(out, r.calls)

	return out
}

// Names returns the recorded callback names in invocation order.
func (r *Recorder[P]) Names() []string {
	calls := r.Calls()

	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Name
	}

	return names
}

// Count returns how many times the named callback ran.
func (r *Recorder[P]) Count(name string) int {
	n := 0

	for _, c := range r.Calls() {
		if c.Name == name {
			n++
		}
	}

	return n
}

// Harness bundles a machine with a virtual clock, a recorder and a diagnostic log.
type Harness[P any] struct {
	Machine     *statemachine.Machine[P]
	Clock       *longpress.ManualScheduler
	Recorder    *Recorder[P]
	Diagnostics *statemachine.DiagnosticLog
}

// NewHarness creates a machine logging to the test output. Extra options are applied after
// the harness defaults, so they may replace the scheduler, reporter or logger.
func NewHarness[P any](t *testing.T, opts ...statemachine.Option) *Harness[P] {
	t.Helper()

	h := &Harness[P]{
		Clock:       longpress.NewManualScheduler(),
		Recorder:    NewRecorder[P](),
		Diagnostics: &statemachine.DiagnosticLog{},
	}

	all := append([]statemachine.Option{
		statemachine.WithName(t.Name()),
		statemachine.WithScheduler(h.Clock),
		statemachine.WithReporter(h.Diagnostics),
		statemachine.WithLogger(statemachine.NewSlogLogger(slogt.New(t))),
	}, opts...)

	h.Machine = statemachine.NewMachine(h.Recorder.Callbacks(), all...)

	t.Cleanup(h.Machine.Close)

	return h
}

// Send delivers signals in order with the zero payload.
func (h *Harness[P]) Send(ctx context.Context, signals ...statemachine.Signal) {
	var zero P

	for _, s := range signals {
		h.Machine.Receive(ctx, s, zero)
	}
}

// Advance moves the virtual clock.
func (h *Harness[P]) Advance(d time.Duration) {
	h.Clock.Advance(d)
}

// RequireState fails the test unless the machine is in want.
func (h *Harness[P]) RequireState(t *testing.T, want statemachine.State) {
	t.Helper()

	require.Equal(t, want, h.Machine.State(), "machine state")
}
