// Package longpress provides the single-shot, cancellable deferral that turns a held press
// into a long-press signal.
package longpress

import (
	"context"
	"time"
)

const (
	// DefaultDelay is used when no long-click delay is configured.
	DefaultDelay = 500 * time.Millisecond
	// MinDelay is the floor every configured delay is clamped to.
	MinDelay = 10 * time.Millisecond
)

// ResolveDelay returns the effective delay for a configured value. Zero means unspecified
// and yields DefaultDelay; anything below MinDelay, negative values included, is clamped.
func ResolveDelay(configured time.Duration) time.Duration {
	if configured == 0 {
		return DefaultDelay
	}

	return max(configured, MinDelay)
}

// FireFunc receives the payload stored by the Arm call that is firing.
type FireFunc[P any] func(ctx context.Context, payload P)

// Timer holds at most one armed deferral. It is not safe for concurrent use: Arm, Cancel,
// Close and the scheduled callback must all run on the owner's thread of control.
//
// Every Arm takes a new generation. A callback whose generation is no longer current was
// cancelled, replaced or closed, and is dropped even if the scheduler already queued it.
type Timer[P any] struct {
	name       string
	scheduler  Scheduler
	onFire     FireFunc[P]
	handle     Stopper
	generation uint64
	armed      bool
	closed     bool
}

// New creates an unarmed timer. A nil scheduler means Realtime.
func New[P any](name string, scheduler Scheduler, onFire FireFunc[P]) *Timer[P] {
	if scheduler == nil {
		scheduler = Realtime
	}

	return &Timer[P]{
		name:      name,
		scheduler: scheduler,
		onFire:    onFire,
	}
}

// Arm schedules payload to be handed to the fire function after the resolved delay. Any
// deferral already armed is cancelled first. It returns false once the timer is closed.
func (t *Timer[P]) Arm(ctx context.Context, delay time.Duration, payload P) bool {
	if t.closed {
		return false
	}

	t.Cancel()

	t.generation++
	generation := t.generation
	t.armed = true

	// The fire happens long after the arming call returned; only its values are kept.
	fireCtx := context.WithoutCancel(ctx)

	t.handle = t.scheduler.AfterFunc(ResolveDelay(delay), func() {
		t.fire(fireCtx, generation, payload)
	})

	timersTotal.WithLabelValues(sanitizeName(t.name), outcomeArmed).Inc()

	return true
}

// Cancel drops the armed deferral, if any. It is idempotent and reports whether something
// was armed.
func (t *Timer[P]) Cancel() bool {
	if !t.armed {
		return false
	}

	t.armed = false
	t.generation++

	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}

	timersTotal.WithLabelValues(sanitizeName(t.name), outcomeCancelled).Inc()

	return true
}

// Armed reports whether a deferral is pending.
func (t *Timer[P]) Armed() bool {
	return t.armed
}

// Close cancels any pending deferral and refuses further arming.
func (t *Timer[P]) Close() {
	t.Cancel()
	t.closed = true
}

func (t *Timer[P]) fire(ctx context.Context, generation uint64, payload P) {
	if t.closed || !t.armed || generation != t.generation {
		timersTotal.WithLabelValues(sanitizeName(t.name), outcomeStale).Inc()

		return
	}

	t.armed = false
	t.handle = nil

	timersTotal.WithLabelValues(sanitizeName(t.name), outcomeFired).Inc()

	if t.onFire != nil {
		t.onFire(ctx, payload)
	}
}
