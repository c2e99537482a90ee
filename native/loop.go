package native

import (
	"context"
	"errors"
	"sync"

	"deedles.dev/wlr/internal/ev"
	"github.com/eapache/queue"
)

// ErrLoopDestroyed is returned when work is posted to an event loop
// that has already been destroyed.
var ErrLoopDestroyed = errors.New("event loop destroyed")

// EventLoop runs everything that touches native objects on a single
// goroutine. Other goroutines hand work to it with Post.
type EventLoop struct {
	done  chan struct{}
	close sync.Once
	queue *ev.Queue

	idle *queue.Queue
	quit bool
}

func NewEventLoop() *EventLoop {
	return &EventLoop{
		done:  make(chan struct{}),
		queue: ev.NewQueue(),
		idle:  queue.New(),
	}
}

// Post queues f to be run on the loop. It may be called from any
// goroutine. Errors returned by f are returned from the dispatch that
// ran it.
func (loop *EventLoop) Post(f func() error) error {
	select {
	case <-loop.done:
		return ErrLoopDestroyed
	case loop.queue.Add() <- f:
		return nil
	}
}

// AddIdle queues f to be run the next time the loop is idle. It must
// only be called from the loop.
func (loop *EventLoop) AddIdle(f func()) {
	loop.idle.Add(f)
}

// DispatchIdle runs all idle callbacks, including ones queued by other
// idle callbacks while they run.
func (loop *EventLoop) DispatchIdle() {
	for loop.idle.Length() > 0 {
		f := loop.idle.Remove().(func())
		f()
	}
}

// DispatchPending runs any work that has already been posted, without
// waiting for more, followed by the idle callbacks.
func (loop *EventLoop) DispatchPending() error {
	var err error
	select {
	case batch := <-loop.queue.Get():
		err = batch.Flush()
	default:
	}

	loop.DispatchIdle()
	return err
}

// Run dispatches work until ctx is canceled, Terminate is called, or
// the loop is destroyed. A Terminate from before Run was called, such
// as from a handler run during startup, makes Run return right after
// dispatching idle callbacks. Errors returned by posted work are passed
// to onErr, if it is not nil, and do not stop the loop.
func (loop *EventLoop) Run(ctx context.Context, onErr func(error)) {
	defer func() { loop.quit = false }()
	loop.DispatchIdle()

	for !loop.quit {
		select {
		case <-ctx.Done():
			return
		case <-loop.done:
			return
		case batch := <-loop.queue.Get():
			err := batch.Flush()
			if (err != nil) && (onErr != nil) {
				onErr(err)
			}
			loop.DispatchIdle()
		}
	}
}

// Terminate makes Run return after the work it is currently running,
// or, if Run is not running, as soon as it is next called. It must
// only be called from the loop.
func (loop *EventLoop) Terminate() {
	loop.quit = true
}

// Done returns a channel that is closed when the loop is destroyed.
func (loop *EventLoop) Done() <-chan struct{} {
	return loop.done
}

// Destroy stops the loop. Work that has been posted but not yet run is
// discarded.
func (loop *EventLoop) Destroy() {
	loop.close.Do(func() {
		close(loop.done)
		loop.queue.Stop()
	})
}
