// Package handle implements the generic proxy used to refer to
// resources that are owned by the native library.
//
// A native object can be destroyed at any time by the library, usually
// in response to something outside of the compositor's control, such
// as an output being unplugged. Because of that, user code never holds
// the wrapper of a native object across event loop turns. Instead, it
// holds a Handle, which observes the object's liveliness without
// keeping it alive, and uses Run to get short-lived, exclusive access
// to the wrapper:
//
//	err := output.Run(func(out *wlr.Output) {
//		out.SetScale(2)
//	})
//	if errors.Is(err, handle.ErrAlreadyDropped) {
//		// The output went away. Nothing to do.
//	}
//
// Exclusivity is not a lock. Everything runs on the event loop's
// thread, but the native library can call back into user code
// synchronously from inside of a Run, so a second Run on the same
// resource further down the stack fails with ErrAlreadyBorrowed
// instead of silently producing two mutable views of one object.
package handle

import (
	"fmt"

	"deedles.dev/wlr/internal/log"
)

// Native is implemented by pointers to native objects. Addr is the
// object's address in the native library and is never reused for a
// different object.
type Native interface {
	comparable
	Addr() uintptr
}

// Kind describes one kind of resource, such as outputs or keyboards.
// P is the pointer type of the native object, D is any extra data
// needed to rebuild a wrapper from just a pointer, and W is the
// wrapper type that Run hands out.
type Kind[P Native, D, W any] struct {
	// Name is used in errors and log messages.
	Name string

	// Wrap rebuilds a borrowed wrapper from a native pointer and the
	// reconstruction data cached in a Handle. It is only called with
	// pointers to live objects.
	Wrap func(ptr P, data D) W
}

// Downgrade creates a Handle observing res. It panics if res is a
// borrowed wrapper, as those don't own a liveliness flag that could be
// observed.
func (k *Kind[P, D, W]) Downgrade(res Resource[P], data D) Handle[P, D, W] {
	if !res.owner.Valid() {
		panic(fmt.Errorf("downgrade borrowed %v %#x: wrapper does not own its liveliness flag", k.Name, addr(res.ptr)))
	}

	return Handle[P, D, W]{
		kind: k,
		ptr:  res.ptr,
		weak: res.owner.Weak(),
		data: data,
	}
}

// Resource is embedded in wrappers to track the native object that
// they wrap and, if they are the owned form, the liveliness flag of
// that object.
type Resource[P Native] struct {
	ptr   P
	owner Owner
}

// Own creates the owned form of the wrapper state for ptr. It should
// be called exactly once per native object, when the native library
// announces it.
func Own[P Native](ptr P) Resource[P] {
	return Resource[P]{ptr: ptr, owner: NewOwner()}
}

// Borrow creates the borrowed form of the wrapper state for ptr. It is
// what Kind.Wrap implementations use.
func Borrow[P Native](ptr P) Resource[P] {
	return Resource[P]{ptr: ptr}
}

// Ptr returns the native object.
func (r Resource[P]) Ptr() P {
	return r.ptr
}

// Owner returns the strong liveliness reference of r. It is the zero
// Owner if r is borrowed.
func (r Resource[P]) Owner() Owner {
	return r.owner
}

// Owned reports whether r is the owned form.
func (r Resource[P]) Owned() bool {
	return r.owner.Valid()
}

// Handle is a weak, cloneable reference to a resource. The zero Handle
// refers to nothing and fails every Run with ErrAlreadyDropped, which
// makes it useful for pre-filling fields before the real object
// exists.
//
// Handles compare equal, via Equal, if they point at the same native
// object, regardless of any cached data. ID can be used as a map key.
type Handle[P Native, D, W any] struct {
	kind *Kind[P, D, W]
	ptr  P
	weak Weak
	data D
}

// Ptr returns the native pointer. There is no guarantee that the
// object it points to is still alive.
func (h Handle[P, D, W]) Ptr() P {
	return h.ptr
}

// ID returns the native address of the resource, or 0 for a zero
// Handle.
func (h Handle[P, D, W]) ID() uintptr {
	return addr(h.ptr)
}

// Data returns the reconstruction data cached in h.
func (h Handle[P, D, W]) Data() D {
	return h.data
}

// Equal reports whether h and other refer to the same native object.
func (h Handle[P, D, W]) Equal(other Handle[P, D, W]) bool {
	return h.ptr == other.ptr
}

// Alive reports whether the resource still exists. It does not check
// whether the resource is currently borrowed.
func (h Handle[P, D, W]) Alive() bool {
	return h.weak.Alive()
}

// Borrowed reports whether the resource is currently borrowed. It
// returns false if the resource no longer exists.
func (h Handle[P, D, W]) Borrowed() bool {
	return h.weak.Borrowed()
}

// KindName returns the name of the kind of resource h refers to.
func (h Handle[P, D, W]) KindName() string {
	if h.kind == nil {
		return "resource"
	}
	return h.kind.Name
}

func (h Handle[P, D, W]) String() string {
	return fmt.Sprintf("%v handle %#x", h.KindName(), h.ID())
}

func (h Handle[P, D, W]) err(op string, err error) error {
	return Error{Op: op, Kind: h.KindName(), Ptr: h.ID(), Err: err}
}

// Upgrade borrows the resource, returning a Guard through which the
// wrapper can be used. The Guard must be released. Most code should
// use Run instead, which takes care of that.
//
// Upgrade fails with ErrAlreadyDropped if the resource no longer
// exists and with ErrAlreadyBorrowed if another Guard for it is
// outstanding.
func (h Handle[P, D, W]) Upgrade() (*Guard[W], error) {
	if !h.weak.Alive() {
		return nil, h.err("upgrade", ErrAlreadyDropped)
	}
	if h.weak.c.state == Borrowed {
		log.Error("resource already borrowed", "kind", h.KindName(), "ptr", fmt.Sprintf("%#x", h.ID()))
		return nil, h.err("upgrade", ErrAlreadyBorrowed)
	}

	w := h.kind.Wrap(h.ptr, h.data)
	h.weak.c.state = Borrowed
	return &Guard[W]{
		val:  w,
		weak: h.weak,
		kind: h.KindName(),
		ptr:  h.ID(),
	}, nil
}

// Run calls f with exclusive access to the resource. If the resource
// can't be upgraded, f is not called and the error from Upgrade is
// returned. If f panics, the resource is released before the panic
// continues.
func (h Handle[P, D, W]) Run(f func(W)) error {
	g, err := h.Upgrade()
	if err != nil {
		return err
	}
	defer g.Release()

	f(g.Value())
	return nil
}

// Guard is an outstanding borrow of a resource.
type Guard[W any] struct {
	val      W
	weak     Weak
	kind     string
	ptr      uintptr
	released bool
}

// Value returns the borrowed wrapper. It must not be used after the
// Guard has been released.
func (g *Guard[W]) Value() W {
	return g.val
}

// Release ends the borrow. Releasing an already released Guard does
// nothing. If the resource was destroyed while borrowed, there is
// nothing to reset.
//
// If the resource is alive but no longer marked as borrowed, something
// has broken the exclusivity invariant and continuing is unsafe, so
// Release panics.
func (g *Guard[W]) Release() {
	if g.released {
		return
	}
	g.released = true

	if !g.weak.Alive() {
		return
	}
	if g.weak.c.state != Borrowed {
		log.Error("lock in incorrect state after run", "kind", g.kind, "ptr", fmt.Sprintf("%#x", g.ptr), "state", g.weak.c.state)
		panic(fmt.Errorf("release %v %#x: lock in incorrect state: %v", g.kind, g.ptr, g.weak.c.state))
	}
	g.weak.c.state = Free
}

// Run is like Handle.Run, but returns the result of f.
func Run[P Native, D, W, R any](h Handle[P, D, W], f func(W) R) (r R, err error) {
	g, err := h.Upgrade()
	if err != nil {
		return r, err
	}
	defer g.Release()

	return f(g.Value()), nil
}

// Run2 borrows two resources at once and calls f with both of them. If
// either can't be upgraded, f is not called. Borrowing the same
// resource through both handles fails with ErrAlreadyBorrowed.
func Run2[P1 Native, D1, W1 any, P2 Native, D2, W2 any](a Handle[P1, D1, W1], b Handle[P2, D2, W2], f func(W1, W2)) error {
	ga, err := a.Upgrade()
	if err != nil {
		return err
	}
	defer ga.Release()

	gb, err := b.Upgrade()
	if err != nil {
		return err
	}
	defer gb.Release()

	f(ga.Value(), gb.Value())
	return nil
}

func addr[P Native](ptr P) uintptr {
	var zero P
	if ptr == zero {
		return 0
	}
	return ptr.Addr()
}
