package button

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web-perf/react-vr-dbmonster/envutil"
	"github.com/web-perf/react-vr-dbmonster/eventloop"
	"github.com/web-perf/react-vr-dbmonster/input"
	"github.com/web-perf/react-vr-dbmonster/longpress"
	"github.com/web-perf/react-vr-dbmonster/statemachine"
	smtest "github.com/web-perf/react-vr-dbmonster/statemachine/testing"
)

type fixture struct {
	button      *Button
	clock       *longpress.ManualScheduler
	recorder    *smtest.Recorder[input.Event]
	diagnostics *statemachine.DiagnosticLog
}

func newFixture(t *testing.T, cfg Config, callbacks *Callbacks) *fixture {
	t.Helper()

	f := &fixture{
		clock:       longpress.NewManualScheduler(),
		recorder:    smtest.NewRecorder[input.Event](),
		diagnostics: &statemachine.DiagnosticLog{},
	}

	cbs := f.recorder.Callbacks()
	if callbacks != nil {
		cbs = *callbacks
	}

	if cfg.Name == "" {
		cfg.Name = t.Name()
	}

	b, err := New(t.Context(), cfg, cbs,
		WithScheduler(f.clock),
		WithReporter(f.diagnostics),
		WithLogger(statemachine.NewSlogLogger(slogt.New(t))),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = b.Close() })

	f.button = b

	return f
}

func (f *fixture) requireState(t *testing.T, want statemachine.State) {
	t.Helper()

	got, err := f.button.State(t.Context())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

var (
	mouseDown = input.MouseEvent{Button: 0, Phase: input.MouseDown}
	mouseUp   = input.MouseEvent{Button: 0, Phase: input.MouseUp}
	spaceDown = input.KeyboardEvent{Code: "Space", Phase: input.KeyDown}
	spaceUp   = input.KeyboardEvent{Code: "Space", Phase: input.KeyUp}
)

func TestClick(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{}, nil)
	ctx := t.Context()

	require.NoError(t, f.button.Enter(ctx, nil))
	require.NoError(t, f.button.HandleInput(ctx, mouseDown))
	require.NoError(t, f.button.HandleInput(ctx, mouseUp))

	f.requireState(t, statemachine.FocusIn)
	assert.Equal(t, []string{smtest.CallEnter, smtest.CallClick}, f.recorder.Names())

	calls := f.recorder.Calls()
	assert.Equal(t, input.Event(mouseUp), calls[1].Payload)
	assert.Empty(t, f.diagnostics.All())
}

func TestLongClick(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{}, nil)
	ctx := t.Context()

	require.NoError(t, f.button.Enter(ctx, nil))
	require.NoError(t, f.button.HandleInput(ctx, spaceDown))
	require.NoError(t, f.button.HandleInput(ctx, input.KeyboardEvent{Code: "Space", Phase: input.KeyDown, Repeat: true}))

	f.clock.Advance(longpress.DefaultDelay)
	f.requireState(t, statemachine.FocusInLongPress)

	require.NoError(t, f.button.HandleInput(ctx, spaceUp))

	f.requireState(t, statemachine.FocusIn)
	assert.Equal(t, []string{smtest.CallEnter, smtest.CallLongClick}, f.recorder.Names())
}

func TestRepeatedEnterInvokesCallbackEachTime(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{}, nil)

	for range 3 {
		require.NoError(t, f.button.Enter(t.Context(), nil))
	}

	f.requireState(t, statemachine.FocusIn)
	assert.Equal(t, 3, f.recorder.Count(smtest.CallEnter))
	assert.Equal(t, 0, f.recorder.Count(smtest.CallClick))
	assert.Empty(t, f.diagnostics.All())
}

func TestFocusEventsThroughHandleInput(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{}, nil)
	ctx := t.Context()

	require.NoError(t, f.button.HandleInput(ctx, input.FocusEvent{Phase: input.FocusEntered}))
	f.requireState(t, statemachine.FocusIn)

	require.NoError(t, f.button.HandleInput(ctx, input.FocusEvent{Phase: input.FocusExited}))
	f.requireState(t, statemachine.FocusOut)

	assert.Equal(t, []string{smtest.CallEnter, smtest.CallExit}, f.recorder.Names())
}

func TestExitCancelsLongPress(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{}, nil)
	ctx := t.Context()

	require.NoError(t, f.button.Enter(ctx, nil))
	require.NoError(t, f.button.HandleInput(ctx, input.TouchEvent{Phase: input.TouchStart}))
	require.NoError(t, f.button.Exit(ctx, nil))

	assert.Equal(t, 0, f.clock.Pending())

	f.clock.Advance(time.Second)

	f.requireState(t, statemachine.FocusOut)
	assert.Equal(t, []string{smtest.CallEnter, smtest.CallExit}, f.recorder.Names())
	assert.Empty(t, f.diagnostics.All())
}

func TestDisabledDropsEverything(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{Disabled: true}, nil)
	ctx := t.Context()

	require.NoError(t, f.button.Enter(ctx, nil))
	require.NoError(t, f.button.HandleInput(ctx, mouseDown))
	require.NoError(t, f.button.HandleInput(ctx, mouseUp))
	require.NoError(t, f.button.Exit(ctx, nil))

	f.requireState(t, statemachine.FocusOut)
	assert.Empty(t, f.recorder.Calls())

	disabled, err := f.button.Disabled(ctx)
	require.NoError(t, err)
	assert.True(t, disabled)

	require.NoError(t, f.button.SetDisabled(ctx, false))
	require.NoError(t, f.button.Enter(ctx, nil))

	f.requireState(t, statemachine.FocusIn)
	assert.Equal(t, []string{smtest.CallEnter}, f.recorder.Names())
}

func TestDisableResetsMachine(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{}, nil)
	ctx := t.Context()

	require.NoError(t, f.button.Enter(ctx, nil))
	require.NoError(t, f.button.HandleInput(ctx, mouseDown))
	require.NoError(t, f.button.SetDisabled(ctx, true))

	f.requireState(t, statemachine.FocusOut)

	f.clock.Advance(time.Second)
	require.NoError(t, f.button.HandleInput(ctx, mouseUp))
	require.NoError(t, f.button.SetDisabled(ctx, false))

	f.requireState(t, statemachine.FocusOut)
	assert.Equal(t, []string{smtest.CallEnter}, f.recorder.Names())
	assert.Empty(t, f.diagnostics.All())
}

func TestCloseStopsPendingLongPress(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{}, nil)
	ctx := t.Context()

	require.NoError(t, f.button.Enter(ctx, nil))
	require.NoError(t, f.button.HandleInput(ctx, mouseDown))

	require.NoError(t, f.button.Close())
	require.NoError(t, f.button.Close())

	f.clock.Advance(time.Second)

	assert.Equal(t, []string{smtest.CallEnter}, f.recorder.Names())

	_, err := f.button.State(ctx)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, f.button.HandleInput(ctx, mouseUp), ErrClosed)
}

func TestPanickingCallbackKeepsButtonUsable(t *testing.T) {
	t.Parallel()

	cbs := Callbacks{
		OnClick: func(context.Context, input.Event) { panic("click handler failed") },
	}

	f := newFixture(t, Config{}, &cbs)
	ctx := t.Context()

	require.NoError(t, f.button.Enter(ctx, nil))
	require.NoError(t, f.button.HandleInput(ctx, mouseDown))

	err := f.button.HandleInput(ctx, mouseUp)
	require.ErrorIs(t, err, eventloop.ErrTaskPanic)

	require.NoError(t, f.button.Exit(ctx, nil))
	f.requireState(t, statemachine.FocusOut)
}

func TestCallbackMayQueryButton(t *testing.T) {
	t.Parallel()

	var (
		b        *Button
		observed statemachine.State
		queryErr error
	)

	cbs := Callbacks{
		OnClick: func(ctx context.Context, _ input.Event) {
			observed, queryErr = b.State(ctx)
		},
	}

	f := newFixture(t, Config{}, &cbs)
	b = f.button
	ctx := t.Context()

	require.NoError(t, b.Enter(ctx, nil))
	require.NoError(t, b.HandleInput(ctx, mouseDown))
	require.NoError(t, b.HandleInput(ctx, mouseUp))

	require.NoError(t, queryErr)
	assert.Equal(t, statemachine.FocusInPress, observed)
}

func TestConcurrentCallers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, Config{}, nil)
	ctx := t.Context()

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 50 {
				if i%2 == 0 {
					assert.NoError(t, f.button.Enter(ctx, nil))
				} else {
					assert.NoError(t, f.button.HandleInput(ctx, mouseDown))
					assert.NoError(t, f.button.HandleInput(ctx, mouseUp))
				}
			}
		}()
	}

	wg.Wait()

	state, err := f.button.State(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, statemachine.Error, state)
	assert.Equal(t, 200, f.recorder.Count(smtest.CallEnter))
}

func TestLongClickDelaySources(t *testing.T) {
	t.Parallel()

	ctx := envutil.WithEnvOverride(t.Context(), EnvLongClickDelay, "750ms")

	tests := []struct {
		name string
		cfg  Config
		want time.Duration
	}{
		{name: "environment default", cfg: Config{}, want: 750 * time.Millisecond},
		{name: "explicit", cfg: Config{LongClickDelay: 300 * time.Millisecond}, want: 300 * time.Millisecond},
		{name: "milliseconds", cfg: Config{LongClickDelayMs: 1200}, want: 1200 * time.Millisecond},
		{name: "clamped", cfg: Config{LongClickDelay: -time.Second}, want: longpress.MinDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := New(ctx, tt.cfg, Callbacks{}, WithScheduler(longpress.NewManualScheduler()), WithLogger(nil))
			require.NoError(t, err)

			t.Cleanup(func() { _ = b.Close() })

			assert.Equal(t, tt.want, b.LongClickDelay())
			assert.NotEmpty(t, b.Name())
		})
	}
}

func TestSharedLoop(t *testing.T) {
	t.Parallel()

	loop := eventloop.New("shared", 8)
	require.NoError(t, loop.Start(t.Context()))

	t.Cleanup(func() {
		loop.Stop()
		loop.Wait()
	})

	first, err := New(t.Context(), Config{Name: "first"}, Callbacks{}, WithLoop(loop), WithLogger(nil))
	require.NoError(t, err)

	second, err := New(t.Context(), Config{Name: "second"}, Callbacks{}, WithLoop(loop), WithLogger(nil))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())

	require.NoError(t, first.Close())
	assert.True(t, loop.Alive())

	require.NoError(t, second.Enter(t.Context(), nil))

	state, err := second.State(t.Context())
	require.NoError(t, err)
	assert.Equal(t, statemachine.FocusIn, state)
}
