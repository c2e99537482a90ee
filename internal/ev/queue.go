// Package ev batches work posted to an event loop from other
// goroutines.
package ev

import (
	"errors"

	"deedles.dev/xsync/cq"
)

// Queue collects closures sent to its Add channel and hands them out
// in bulk, in the order that they were added, as a single *Batch.
type Queue = cq.BulkQueue[func() error, *Batch]

func NewQueue() *Queue {
	return cq.New(func(v []func() error) *Batch {
		return &Batch{
			events: v,
		}
	})
}

// Batch is a series of closures collected from a Queue.
type Batch struct {
	events []func() error
}

// Len returns the number of closures that have not been run yet.
func (b *Batch) Len() int {
	return len(b.events)
}

// Flush runs all of the closures in b, in order, and returns the
// errors that they returned joined together. A closure that panics
// stops the flush, and the remaining closures stay in b.
func (b *Batch) Flush() error {
	var errs []error
	for len(b.events) > 0 {
		ev := b.events[0]
		b.events = b.events[1:]

		err := ev()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
