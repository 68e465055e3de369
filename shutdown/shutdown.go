// Package shutdown runs registered cleanup hooks when the process is asked to stop.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/web-perf/react-vr-dbmonster/logger"
)

// DefaultTimeout bounds the time all hooks get to finish.
const DefaultTimeout = 5 * time.Second

// Hook is a cleanup function. The context it receives is still alive
// but carries the coordinator's deadline.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	hook Hook
}

// Coordinator collects hooks and runs them once, in reverse registration order.
type Coordinator struct {
	mut     sync.Mutex
	hooks   []namedHook
	timeout time.Duration
	trigger chan os.Signal
	once    sync.Once
	err     error
}

// New returns a coordinator whose hooks share the given timeout.
// A non-positive timeout means DefaultTimeout.
func New(timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Coordinator{
		timeout: timeout,
		trigger: make(chan os.Signal, 1),
	}
}

// BeforeShutdown registers a hook. Hooks registered later run first.
func (c *Coordinator) BeforeShutdown(name string, h Hook) {
	c.mut.Lock()
	defer c.mut.Unlock()

	c.hooks = append(c.hooks, namedHook{name: name, hook: h})
}

// Shutdown triggers the shutdown process programmatically. It never blocks.
func (c *Coordinator) Shutdown() {
	select {
	case c.trigger <- os.Interrupt:
	default:
	}
}

// SetupHandler listens for SIGINT and SIGTERM (or a call to Shutdown) and
// returns a context that is canceled once every hook has run.
func (c *Coordinator) SetupHandler(parent context.Context) context.Context {
	signal.Notify(c.trigger, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(parent)

	go func() {
		defer cancel()
		defer signal.Stop(c.trigger)

		select {
		case sig := <-c.trigger:
			logger.Get(ctx).Warn("Received " + sig.String() + ", shutting down...")
		case <-parent.Done():
		}

		_ = c.Run(context.WithoutCancel(ctx))
	}()

	return ctx
}

// Run executes the hooks once. Later calls return the first result.
func (c *Coordinator) Run(ctx context.Context) error {
	c.once.Do(func() {
		c.err = c.run(ctx)
	})

	return c.err
}

func (c *Coordinator) run(ctx context.Context) error {
	c.mut.Lock()
	hooks := c.hooks
	c.hooks = nil
	c.mut.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := logger.Get(ctx)

	var errs []error

	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]

		if err := h.hook(ctx); err != nil {
			log.Error("shutdown hook failed", "hook", h.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))

			continue
		}

		log.Debug("shutdown hook finished", slog.String("hook", h.name))
	}

	return errors.Join(errs...)
}
