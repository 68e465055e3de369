package shutdown

import (
	"context"
	"errors"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errHook = errors.New("hook failed")

func TestHooksRunInReverseOrder(t *testing.T) {
	t.Parallel()

	coord := New(time.Second)

	var order []string

	for _, name := range []string{"telemetry", "loop", "button"} {
		coord.BeforeShutdown(name, func(context.Context) error {
			order = append(order, name)

			return nil
		})
	}

	require.NoError(t, coord.Run(t.Context()))
	assert.Equal(t, []string{"button", "loop", "telemetry"}, order)
}

func TestRunOnlyOnce(t *testing.T) {
	t.Parallel()

	coord := New(0)
	assert.Equal(t, DefaultTimeout, coord.timeout)

	var calls atomic.Int32

	coord.BeforeShutdown("count", func(context.Context) error {
		calls.Add(1)

		return errHook
	})

	err := coord.Run(t.Context())
	require.ErrorIs(t, err, errHook)
	assert.Contains(t, err.Error(), "count")

	require.ErrorIs(t, coord.Run(t.Context()), errHook)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFailingHookDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	coord := New(time.Second)

	var ran atomic.Bool

	coord.BeforeShutdown("first", func(context.Context) error {
		ran.Store(true)

		return nil
	})
	coord.BeforeShutdown("second", func(context.Context) error { return errHook })

	require.ErrorIs(t, coord.Run(t.Context()), errHook)
	assert.True(t, ran.Load())
}

func TestHookContextHasDeadline(t *testing.T) {
	t.Parallel()

	coord := New(50 * time.Millisecond)

	coord.BeforeShutdown("deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)

		<-ctx.Done()

		return ctx.Err()
	})

	require.ErrorIs(t, coord.Run(t.Context()), context.DeadlineExceeded)
}

func TestShutdownTriggersHandler(t *testing.T) {
	t.Parallel()

	coord := New(time.Second)
	ctx := coord.SetupHandler(t.Context())

	var aliveDuringHook atomic.Bool

	coord.BeforeShutdown("check", func(context.Context) error {
		aliveDuringHook.Store(ctx.Err() == nil)

		return nil
	})

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled initially")
	default:
	}

	coord.Shutdown()
	coord.Shutdown()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled after Shutdown()")
	}

	assert.True(t, aliveDuringHook.Load())
}

func TestSignalTriggersHandler(t *testing.T) {
	t.Parallel()

	coord := New(time.Second)
	ctx := coord.SetupHandler(t.Context())

	var called atomic.Bool

	coord.BeforeShutdown("signal", func(context.Context) error {
		called.Store(true)

		return nil
	})

	coord.trigger <- syscall.SIGTERM

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled after SIGTERM")
	}

	assert.True(t, called.Load())
}

func TestParentCancellationRunsHooks(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(t.Context())
	coord := New(time.Second)
	ctx := coord.SetupHandler(parent)

	var called atomic.Bool

	coord.BeforeShutdown("parent", func(context.Context) error {
		called.Store(true)

		return nil
	})

	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled after parent")
	}

	assert.Eventually(t, called.Load, time.Second, time.Millisecond)
}

func TestConcurrentBeforeShutdown(t *testing.T) {
	t.Parallel()

	const numGoroutines = 100

	coord := New(time.Second)
	done := make(chan struct{}, numGoroutines)

	for range numGoroutines {
		go func() {
			coord.BeforeShutdown("noop", func(context.Context) error { return nil })
			done <- struct{}{}
		}()
	}

	for range numGoroutines {
		<-done
	}

	coord.mut.Lock()
	assert.Len(t, coord.hooks, numGoroutines)
	coord.mut.Unlock()
}
