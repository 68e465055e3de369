// Package eventloop runs closures one at a time, in arrival order, on a single goroutine.
// It is the host thread of control for interactive elements: external input and timer
// fires are posted to the same loop, so they never interleave.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/web-perf/react-vr-dbmonster/logger"
	"go.uber.org/atomic"
)

var (
	// ErrStopped is returned when posting to a loop that has stopped.
	ErrStopped = errors.New("event loop is stopped")
	// ErrNotStarted is returned when posting to a loop before Start.
	ErrNotStarted = errors.New("event loop is not started")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("event loop already started")
	// ErrTaskPanic is returned to Do callers whose task panicked.
	ErrTaskPanic = errors.New("panic in event loop task")
)

// Task is a unit of work run on the loop goroutine. The context carries the values of the
// context it was submitted with.
type Task func(ctx context.Context)

type envelope struct {
	ctx  context.Context //nolint:containedctx
	fn   Task
	done chan error
}

type loopKey struct{}

// Loop is a serial mailbox. The zero value is not usable; call New.
type Loop struct {
	name    string
	inbox   chan envelope
	quit    chan struct{}
	stopped chan struct{}
	base    context.Context //nolint:containedctx

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
	started   *atomic.Bool
	alive     *atomic.Bool
	processed *atomic.Int64
}

// New creates a loop. depth is the mailbox buffer size (0 for unbuffered).
func New(name string, depth int) *Loop {
	return &Loop{
		name:      name,
		inbox:     make(chan envelope, max(depth, 0)),
		quit:      make(chan struct{}),
		stopped:   make(chan struct{}),
		started:   atomic.NewBool(false),
		alive:     atomic.NewBool(false),
		processed: atomic.NewInt64(0),
	}
}

// Name returns the loop name.
func (l *Loop) Name() string {
	return l.name
}

// Start launches the loop goroutine. The loop stops when ctx is cancelled or Stop is called.
func (l *Loop) Start(ctx context.Context) error {
	err := ErrAlreadyStarted

	l.startOnce.Do(func() {
		err = nil
		l.base = ctx
		l.alive.Store(true)
		l.started.Store(true)
		l.wg.Add(1)

		go l.run(ctx)
	})

	return err
}

func (l *Loop) run(ctx context.Context) {
	subsystem := logger.GetSubsystem(ctx)

	aliveLoops.WithLabelValues(subsystem, l.name).Inc()

	defer l.wg.Done()
	defer close(l.stopped)
	defer aliveLoops.WithLabelValues(subsystem, l.name).Dec()
	defer l.alive.Store(false)

	for {
		select {
		case <-ctx.Done():
			l.Stop()

			return
		case <-l.quit:
			return
		case env := <-l.inbox:
			start := time.Now()

			err := l.execute(env)

			tasksTotal.WithLabelValues(subsystem, l.name).Inc()
			taskDuration.WithLabelValues(subsystem, l.name).Observe(time.Since(start).Seconds())
			l.processed.Inc()

			if env.done != nil {
				env.done <- err
			}
		}
	}
}

// execute runs one task with panic recovery so a misbehaving callback cannot kill the loop.
func (l *Loop) execute(env envelope) (err error) {
	ctx := context.WithValue(env.ctx, loopKey{}, l)

	defer func() {
		if r := recover(); r != nil {
			taskPanics.WithLabelValues(logger.GetSubsystem(ctx), l.name).Inc()

			logger.Get(ctx).Error("event loop recovered from panic",
				"loop", l.name,
				"error", r,
				"stack", string(debug.Stack()))

			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w %s: %w", ErrTaskPanic, l.name, e)
			} else {
				err = fmt.Errorf("%w %s: %v", ErrTaskPanic, l.name, r)
			}
		}
	}()

	env.fn(ctx)

	return nil
}

func (l *Loop) submit(ctx context.Context, env envelope) error {
	if !l.started.Load() {
		return ErrNotStarted
	}

	if !l.alive.Load() {
		return ErrStopped
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.quit:
		return ErrStopped
	case <-l.stopped:
		return ErrStopped
	case l.inbox <- env:
		return nil
	}
}

// Post enqueues fn without waiting for it to run. fn receives the context the loop was
// started with.
func (l *Loop) Post(fn Task) error {
	if !l.started.Load() {
		return ErrNotStarted
	}

	return l.submit(context.Background(), envelope{ctx: l.base, fn: fn})
}

// Do runs fn on the loop and waits for it to finish. Called from a task of the same loop it
// runs fn inline, so callbacks may safely call back into their owner.
func (l *Loop) Do(ctx context.Context, fn Task) error {
	if l.InLoop(ctx) {
		return l.execute(envelope{ctx: ctx, fn: fn})
	}

	done := make(chan error, 1)

	if err := l.submit(ctx, envelope{ctx: ctx, fn: fn, done: done}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	case <-l.stopped:
		// The task may have completed just before the loop exited.
		select {
		case err := <-done:
			return err
		default:
			return ErrStopped
		}
	}
}

// InLoop reports whether ctx belongs to a task running on this loop.
func (l *Loop) InLoop(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	owner, ok := ctx.Value(loopKey{}).(*Loop)

	return ok && owner == l
}

// Stop asks the loop to exit after the running task. Queued tasks are dropped and their
// Do callers receive ErrStopped. It is safe to call multiple times.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.alive.Store(false)
		close(l.quit)
	})
}

// Wait blocks until the loop goroutine has exited. It returns at once if the loop was
// never started.
func (l *Loop) Wait() {
	l.wg.Wait()
}

// Alive reports whether the loop accepts tasks.
func (l *Loop) Alive() bool {
	return l.alive.Load()
}

// Processed returns how many tasks have run.
func (l *Loop) Processed() int64 {
	return l.processed.Load()
}
