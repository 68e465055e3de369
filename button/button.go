// Package button is the in-process shell of a gaze and controller driven button. It binds
// a configuration, the user callbacks, the disabled flag, input normalization and focus
// tracking to an interaction state machine running on its own event loop.
package button

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/web-perf/react-vr-dbmonster/eventloop"
	"github.com/web-perf/react-vr-dbmonster/input"
	"github.com/web-perf/react-vr-dbmonster/logger"
	"github.com/web-perf/react-vr-dbmonster/longpress"
	"github.com/web-perf/react-vr-dbmonster/statemachine"
	"go.uber.org/atomic"
)

const defaultMailboxDepth = 64

// ErrClosed is returned by calls on a closed button.
var ErrClosed = errors.New("button is closed")

// Callbacks is the callback set of a button. Payloads are the events that caused them.
type Callbacks = statemachine.Callbacks[input.Event]

// Button is safe for concurrent use. Every call is marshalled onto the button's event loop
// and returns once its side effects, callbacks included, have happened.
type Button struct {
	id        uuid.UUID
	name      string
	loop      *eventloop.Loop
	ownsLoop  bool
	machine   *statemachine.Machine[input.Event]
	callbacks Callbacks
	disabled  bool
	closed    *atomic.Bool
}

type options struct {
	scheduler    longpress.Scheduler
	reporter     statemachine.Reporter
	logger       statemachine.Logger
	hasLogger    bool
	loop         *eventloop.Loop
	mailboxDepth int
}

// Option configures a Button.
type Option func(*options)

// WithScheduler sets the clock the long-press delay is measured on. Fires are always
// delivered through the button's loop. Defaults to longpress.Realtime.
func WithScheduler(s longpress.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithReporter sets the diagnostic side channel of the state machine.
func WithReporter(r statemachine.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithLogger sets the state machine logger. A nil logger disables machine logging.
func WithLogger(l statemachine.Logger) Option {
	return func(o *options) {
		o.logger = l
		o.hasLogger = true
	}
}

// WithLoop runs the button on a shared, already started loop. Close then leaves the loop
// running.
func WithLoop(loop *eventloop.Loop) Option {
	return func(o *options) {
		o.loop = loop
	}
}

// WithMailboxDepth sets the buffer size of the button's own loop.
func WithMailboxDepth(depth int) Option {
	return func(o *options) {
		o.mailboxDepth = depth
	}
}

// New creates a button in FocusOut and starts its loop. The loop stops when ctx is
// cancelled or Close is called.
func New(ctx context.Context, cfg Config, callbacks Callbacks, opts ...Option) (*Button, error) {
	o := options{
		scheduler:    longpress.Realtime,
		mailboxDepth: defaultMailboxDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()

	name := cfg.Name
	if name == "" {
		name = "button-" + id.String()[:8]
	}

	b := &Button{
		id:        id,
		name:      name,
		loop:      o.loop,
		callbacks: callbacks,
		disabled:  cfg.Disabled,
		closed:    atomic.NewBool(false),
	}

	if b.loop == nil {
		b.loop = eventloop.New("vrbutton/"+name, o.mailboxDepth)
		b.ownsLoop = true

		if err := b.loop.Start(ctx); err != nil {
			return nil, fmt.Errorf("starting loop for %s: %w", name, err)
		}
	}

	machineOpts := []statemachine.Option{
		statemachine.WithName(name),
		statemachine.WithInstanceID(id.String()),
		statemachine.WithLongClickDelay(cfg.ResolvedDelay(ctx)),
		statemachine.WithScheduler(LoopScheduler{Loop: b.loop, Inner: o.scheduler}),
		statemachine.WithReporter(o.reporter),
	}

	if o.hasLogger {
		machineOpts = append(machineOpts, statemachine.WithLogger(o.logger))
	}

	b.machine = statemachine.NewMachine(callbacks, machineOpts...)

	logger.Get(ctx).Debug("button created",
		"button", name,
		"button_id", id.String(),
		"disabled", cfg.Disabled,
		"long_click_delay", b.machine.LongClickDelay())

	return b, nil
}

// ID returns the unique identifier of the button.
func (b *Button) ID() uuid.UUID {
	return b.id
}

// Name returns the button name.
func (b *Button) Name() string {
	return b.name
}

// LongClickDelay returns the effective long-click delay.
func (b *Button) LongClickDelay() time.Duration {
	return b.machine.LongClickDelay()
}

func (b *Button) do(ctx context.Context, fn func(ctx context.Context)) error {
	if b.closed.Load() {
		return ErrClosed
	}

	return b.loop.Do(ctx, func(ctx context.Context) {
		fn(logger.With(ctx, "button", b.name))
	})
}

// HandleInput routes a raw input event. Focus events go to the focus tracker; anything
// else is normalized and, if it is a primary activation, fed to the state machine.
// Events are dropped while the button is disabled.
func (b *Button) HandleInput(ctx context.Context, ev input.Event) error {
	return b.do(ctx, func(ctx context.Context) {
		if b.disabled {
			return
		}

		if fe, ok := ev.(input.FocusEvent); ok {
			if fe.Phase == input.FocusExited {
				b.focus(ctx, statemachine.Exit, ev)
			} else {
				b.focus(ctx, statemachine.Enter, ev)
			}

			return
		}

		if signal, ok := input.Normalize(ev); ok {
			b.machine.Receive(ctx, signal, ev)
		}
	})
}

// Enter notifies the button that the pointer or gaze entered its bounds. ev may be nil.
func (b *Button) Enter(ctx context.Context, ev input.Event) error {
	if ev == nil {
		ev = input.FocusEvent{Phase: input.FocusEntered}
	}

	return b.do(ctx, func(ctx context.Context) {
		if !b.disabled {
			b.focus(ctx, statemachine.Enter, ev)
		}
	})
}

// Exit notifies the button that the pointer or gaze left its bounds. ev may be nil.
func (b *Button) Exit(ctx context.Context, ev input.Event) error {
	if ev == nil {
		ev = input.FocusEvent{Phase: input.FocusExited}
	}

	return b.do(ctx, func(ctx context.Context) {
		if !b.disabled {
			b.focus(ctx, statemachine.Exit, ev)
		}
	})
}

// focus feeds the signal to the machine, then runs the matching callback whatever the
// machine did with it.
func (b *Button) focus(ctx context.Context, signal statemachine.Signal, ev input.Event) {
	b.machine.Receive(ctx, signal, ev)

	cb := b.callbacks.OnEnter
	if signal == statemachine.Exit {
		cb = b.callbacks.OnExit
	}

	if cb != nil {
		cb(ctx, ev)
	}
}

// SetDisabled updates the disabled flag. Disabling resets the machine to FocusOut and
// cancels any pending long press, without callbacks.
func (b *Button) SetDisabled(ctx context.Context, disabled bool) error {
	return b.do(ctx, func(ctx context.Context) {
		if disabled && !b.disabled {
			b.machine.Reset(ctx)
		}

		b.disabled = disabled
	})
}

// State returns the current interaction state.
func (b *Button) State(ctx context.Context) (statemachine.State, error) {
	var state statemachine.State

	err := b.do(ctx, func(context.Context) {
		state = b.machine.State()
	})

	return state, err
}

// Disabled returns the disabled flag.
func (b *Button) Disabled(ctx context.Context) (bool, error) {
	var disabled bool

	err := b.do(ctx, func(context.Context) {
		disabled = b.disabled
	})

	return disabled, err
}

// Close tears the machine down, so no long press can fire afterwards, and stops the loop
// if the button owns it. It is safe to call twice.
func (b *Button) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := b.loop.Do(context.Background(), func(context.Context) {
		b.machine.Close()
	})

	if b.ownsLoop {
		b.loop.Stop()
		b.loop.Wait()
	}

	if errors.Is(err, eventloop.ErrStopped) {
		if b.ownsLoop {
			// The loop goroutine has exited, nothing else can touch the machine.
			b.machine.Close()
		}

		return nil
	}

	return err
}
