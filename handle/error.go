package handle

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyBorrowed is returned when a resource is upgraded while
	// another upgrade of it is still outstanding further up the stack.
	ErrAlreadyBorrowed = errors.New("already borrowed")

	// ErrAlreadyDropped is returned when the native object that a
	// handle refers to has been destroyed.
	ErrAlreadyDropped = errors.New("already dropped")
)

// Error describes a failed attempt to use a handle. Err is always one
// of ErrAlreadyBorrowed or ErrAlreadyDropped, so errors.Is can be used
// on it directly.
type Error struct {
	Op   string
	Kind string
	Ptr  uintptr
	Err  error
}

func (err Error) Error() string {
	return fmt.Sprintf("%v %v %#x: %v", err.Op, err.Kind, err.Ptr, err.Err)
}

func (err Error) Unwrap() error {
	return err.Err
}
