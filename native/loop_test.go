package native

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopIdle(t *testing.T) {
	loop := NewEventLoop()
	defer loop.Destroy()

	var order []int
	loop.AddIdle(func() {
		order = append(order, 1)
		loop.AddIdle(func() { order = append(order, 3) })
	})
	loop.AddIdle(func() { order = append(order, 2) })

	loop.DispatchIdle()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestLoopRunTerminate(t *testing.T) {
	loop := NewEventLoop()
	defer loop.Destroy()

	testErr := errors.New("test")
	var errs []error
	ran := make(chan struct{})

	go func() {
		assert.NoError(t, loop.Post(func() error { return testErr }))
		assert.NoError(t, loop.Post(func() error {
			loop.Terminate()
			return nil
		}))
	}()

	go func() {
		defer close(ran)
		loop.Run(context.Background(), func(err error) { errs = append(errs, err) })
	}()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not terminate")
	}
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], testErr)
}

func TestLoopRunContext(t *testing.T) {
	loop := NewEventLoop()
	defer loop.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop.Run(ctx, nil)
}

func TestLoopPostAfterDestroy(t *testing.T) {
	loop := NewEventLoop()
	loop.Destroy()
	assert.ErrorIs(t, loop.Post(func() error { return nil }), ErrLoopDestroyed)
	assert.NotPanics(t, loop.Destroy)
}

func TestLoopTerminateBeforeRun(t *testing.T) {
	loop := NewEventLoop()
	defer loop.Destroy()

	idle := false
	loop.AddIdle(func() { idle = true })
	loop.Terminate()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loop.Run(ctx, nil)
	require.NoError(t, ctx.Err(), "loop ignored Terminate")
	assert.True(t, idle)

	ctx, cancel = context.WithCancel(context.Background())
	require.NoError(t, loop.Post(func() error {
		cancel()
		return nil
	}))
	loop.Run(ctx, nil)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
