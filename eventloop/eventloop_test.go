package eventloop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T, depth int) *Loop {
	t.Helper()

	loop := New(t.Name(), depth)
	require.NoError(t, loop.Start(t.Context()))

	t.Cleanup(func() {
		loop.Stop()
		loop.Wait()
	})

	return loop
}

func TestTasksRunInOrder(t *testing.T) {
	t.Parallel()

	loop := startLoop(t, 16)

	var (
		mu    sync.Mutex
		order []int
	)

	for i := range 10 {
		require.NoError(t, loop.Post(func(context.Context) {
			mu.Lock()
			defer mu.Unlock()

			order = append(order, i)
		}))
	}

	require.NoError(t, loop.Do(t.Context(), func(context.Context) {}))

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
	assert.Equal(t, int64(11), loop.Processed())
}

func TestDoWaitsForCompletion(t *testing.T) {
	t.Parallel()

	loop := startLoop(t, 0)
	ran := false

	require.NoError(t, loop.Do(t.Context(), func(context.Context) { ran = true }))
	assert.True(t, ran)
}

func TestPanicIsRecovered(t *testing.T) {
	t.Parallel()

	loop := startLoop(t, 1)

	err := loop.Do(t.Context(), func(context.Context) { panic("boom") })
	require.ErrorIs(t, err, ErrTaskPanic)
	assert.ErrorContains(t, err, "boom")

	sentinel := errors.New("typed")
	err = loop.Do(t.Context(), func(context.Context) { panic(sentinel) })
	require.ErrorIs(t, err, sentinel)

	assert.True(t, loop.Alive())
	require.NoError(t, loop.Do(t.Context(), func(context.Context) {}))
}

func TestReentrantDoRunsInline(t *testing.T) {
	t.Parallel()

	loop := startLoop(t, 0)

	var inner bool

	err := loop.Do(t.Context(), func(ctx context.Context) {
		assert.True(t, loop.InLoop(ctx))

		assert.NoError(t, loop.Do(ctx, func(context.Context) { inner = true }))
	})

	require.NoError(t, err)
	assert.True(t, inner)
	assert.False(t, loop.InLoop(t.Context()))
}

func TestTaskContextKeepsCallerValues(t *testing.T) {
	t.Parallel()

	type key struct{}

	loop := startLoop(t, 0)
	ctx := context.WithValue(t.Context(), key{}, "caller")

	var got any

	require.NoError(t, loop.Do(ctx, func(ctx context.Context) { got = ctx.Value(key{}) }))
	assert.Equal(t, "caller", got)
}

func TestStop(t *testing.T) {
	t.Parallel()

	loop := New("stop", 0)

	require.ErrorIs(t, loop.Post(func(context.Context) {}), ErrNotStarted)
	require.NoError(t, loop.Start(t.Context()))
	require.ErrorIs(t, loop.Start(t.Context()), ErrAlreadyStarted)

	loop.Stop()
	loop.Stop()
	loop.Wait()

	assert.False(t, loop.Alive())
	require.ErrorIs(t, loop.Post(func(context.Context) {}), ErrStopped)
	require.ErrorIs(t, loop.Do(t.Context(), func(context.Context) {}), ErrStopped)
}

func TestContextCancelStopsLoop(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	loop := New("cancel", 0)
	require.NoError(t, loop.Start(ctx))

	cancel()

	done := make(chan struct{})

	go func() {
		loop.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}

	assert.False(t, loop.Alive())
}

func TestDoHonoursCallerContext(t *testing.T) {
	t.Parallel()

	loop := startLoop(t, 0)
	release := make(chan struct{})

	require.NoError(t, loop.Post(func(context.Context) { <-release }))

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err := loop.Do(ctx, func(context.Context) {})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}
