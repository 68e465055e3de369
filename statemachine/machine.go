package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/web-perf/react-vr-dbmonster/longpress"
	"go.opentelemetry.io/otel/attribute"
)

// Signal outcome labels.
const (
	outcomeTransition = "transition"
	outcomeSelf       = "self"
	outcomeRecovered  = "recovered"
	outcomeIgnored    = "ignored"
)

// Click kinds.
const (
	clickShort = "click"
	clickLong  = "long_click"
)

// Machine is the interaction state machine of one button. Receive is its sole mutator for
// user-driven changes; Reset and Close are the owner's lifecycle hooks.
//
// A Machine is not safe for concurrent use. All methods, and the callbacks of its
// Scheduler, must run on one thread of control.
type Machine[P any] struct {
	name       string
	instanceID string
	state      State
	delay      time.Duration
	callbacks  Callbacks[P]
	timer      *longpress.Timer[P]
	reporter   Reporter
	logger     Logger
	closed     bool
}

type options struct {
	name       string
	instanceID string
	delay      time.Duration
	scheduler  longpress.Scheduler
	reporter   Reporter
	logger     Logger
}

// Option configures a Machine.
type Option func(*options)

// WithName sets the name used in logs, metrics and spans.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithInstanceID sets a unique identifier recorded (hashed) on spans.
func WithInstanceID(id string) Option {
	return func(o *options) {
		o.instanceID = id
	}
}

// WithLongClickDelay sets the configured long-click delay. Zero means the default;
// values under the floor are clamped (see longpress.ResolveDelay).
func WithLongClickDelay(delay time.Duration) Option {
	return func(o *options) {
		o.delay = delay
	}
}

// WithScheduler sets the scheduler used by the long-press timer. Its callbacks must run on
// the same thread of control as the machine's other calls.
func WithScheduler(scheduler longpress.Scheduler) Option {
	return func(o *options) {
		o.scheduler = scheduler
	}
}

// WithReporter sets the diagnostic side channel. The default logs each diagnostic.
func WithReporter(reporter Reporter) Option {
	return func(o *options) {
		o.reporter = reporter
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewMachine creates a machine in FocusOut with no pending long press.
func NewMachine[P any](callbacks Callbacks[P], opts ...Option) *Machine[P] {
	o := options{
		scheduler: longpress.Realtime,
		logger:    NewDefaultLogger(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	machine := &Machine[P]{
		name:       o.name,
		instanceID: o.instanceID,
		state:      InitialState,
		delay:      longpress.ResolveDelay(o.delay),
		callbacks:  callbacks,
		reporter:   o.reporter,
		logger:     o.logger,
	}

	if machine.reporter == nil {
		machine.reporter = NewLogReporter(o.logger)
	}

	machine.timer = longpress.New(o.name, o.scheduler, machine.handleLongDelay)

	return machine
}

// Name returns the machine name.
func (m *Machine[P]) Name() string {
	return m.name
}

// State returns the current state. It is never Error.
func (m *Machine[P]) State() State {
	return m.state
}

// LongClickDelay returns the effective long-click delay.
func (m *Machine[P]) LongClickDelay() time.Duration {
	return m.delay
}

// LongPressPending reports whether a long-press deferral is armed.
func (m *Machine[P]) LongPressPending() bool {
	return m.timer.Armed()
}

// Closed reports whether Close was called.
func (m *Machine[P]) Closed() bool {
	return m.closed
}

// Receive applies a signal. Invalid transitions are reported and recovered to the Error
// row's target; nothing is returned to the caller and nothing panics.
func (m *Machine[P]) Receive(ctx context.Context, signal Signal, payload P) {
	ctx, span := startReceiveSpan(ctx, m, signal)
	defer span.End()

	if !signal.Valid() {
		m.report(ctx, Diagnostic{
			Kind:   KindUnknownSignal,
			State:  m.state,
			Signal: signal,
			Target: m.state,
			Err:    fmt.Errorf("%w: %d", ErrUnknownSignal, uint8(signal)),
		})
		m.countSignal(signal, outcomeIgnored)

		return
	}

	if m.closed {
		m.report(ctx, Diagnostic{
			Kind:   KindClosed,
			State:  m.state,
			Signal: signal,
			Target: m.state,
			Err:    ErrClosed,
		})
		m.countSignal(signal, outcomeIgnored)

		return
	}

	from := m.state
	next, invalid := Resolve(from, signal)

	outcome := outcomeTransition

	if invalid {
		outcome = outcomeRecovered

		m.report(ctx, Diagnostic{
			Kind:   KindInvalidTransition,
			State:  from,
			Signal: signal,
			Target: next,
			Err:    WrapTransitionError(from, signal, Error, ErrInvalidTransition),
		})
	}

	span.SetAttributes(
		attribute.String("vrbutton.to", next.String()),
		attribute.Bool("vrbutton.recovered", invalid),
	)

	if next == from {
		if !invalid {
			outcome = outcomeSelf
		}

		m.state = next
		m.countSignal(signal, outcome)

		return
	}

	m.performSideEffects(ctx, from, next, signal, payload)
	m.state = next

	m.countSignal(signal, outcome)
	transitionsTotal.WithLabelValues(sanitizeName(m.name), from.String(), next.String()).Inc()

	if m.logger != nil {
		m.logger.TransitionExecuted(ctx, m.name, from, next, signal)
	}
}

// performSideEffects runs the effects of a genuine transition, before it is committed.
func (m *Machine[P]) performSideEffects(ctx context.Context, from, next State, signal Signal, payload P) {
	if signal == Exit || signal == KeyReleased {
		m.timer.Cancel()
	}

	if !from.IsPressing() && next.IsPressing() && signal == KeyPressed {
		m.timer.Cancel()
		m.timer.Arm(ctx, m.delay, payload)
	}

	if from.IsPressing() && signal == KeyReleased {
		// Without a long-click handler a long press still counts as a click.
		if from.IsLongPressing() && m.callbacks.OnLongClick != nil {
			m.dispatch(ctx, clickLong, from, m.callbacks.OnLongClick, payload)
		} else {
			m.dispatch(ctx, clickShort, from, m.callbacks.OnClick, payload)
		}
	}
}

func (m *Machine[P]) dispatch(ctx context.Context, kind string, state State, cb Callback[P], payload P) {
	if !invoke(ctx, cb, payload) {
		return
	}

	clicksTotal.WithLabelValues(sanitizeName(m.name), kind).Inc()

	if m.logger != nil {
		m.logger.CallbackInvoked(ctx, m.name, kind, state)
	}
}

// handleLongDelay is the long-press timer's fire function.
func (m *Machine[P]) handleLongDelay(ctx context.Context, payload P) {
	if !m.state.IsPressing() {
		m.report(ctx, Diagnostic{
			Kind:   KindUnexpectedLongPress,
			State:  m.state,
			Signal: LongPressDetected,
			Target: m.state,
			Err:    WrapTransitionError(m.state, LongPressDetected, FocusInLongPress, ErrUnexpectedLongPress),
		})

		return
	}

	m.Receive(ctx, LongPressDetected, payload)
}

// Reset cancels any pending long press and forces FocusOut without invoking callbacks.
// Owners call it when the button becomes disabled.
func (m *Machine[P]) Reset(ctx context.Context) {
	ctx, span := startResetSpan(ctx, m)
	defer span.End()

	from := m.state

	m.timer.Cancel()
	m.state = FocusOut

	resetsTotal.WithLabelValues(sanitizeName(m.name)).Inc()

	if m.logger != nil {
		m.logger.MachineReset(ctx, m.name, from)
	}
}

// Close tears the machine down. The long-press timer is cancelled and can never fire
// afterwards; later signals are reported and ignored. Close is idempotent.
func (m *Machine[P]) Close() {
	if m.closed {
		return
	}

	m.timer.Close()
	m.closed = true
}

func (m *Machine[P]) report(ctx context.Context, d Diagnostic) {
	d.Machine = m.name

	diagnosticsTotal.WithLabelValues(sanitizeName(m.name), string(d.Kind)).Inc()

	if m.reporter != nil {
		m.reporter.Report(ctx, d)
	}
}

func (m *Machine[P]) countSignal(signal Signal, outcome string) {
	signalsTotal.WithLabelValues(sanitizeName(m.name), signal.String(), outcome).Inc()
}
