// Package native is a headless, pure-Go implementation of the native
// compositor library that the wlr package binds to.
//
// It mirrors the object model of the real library: every object has
// an address and a set of signals, objects are created and destroyed
// by the library at times of its choosing, and everything happens on a
// single event loop. Objects in this package are not safe for use from
// more than one goroutine. Other goroutines must go through
// EventLoop.Post.
package native

import (
	"fmt"
	"sync/atomic"
)

// addrAlign is the distance between consecutive addresses, mimicking
// heap alignment so that addresses look like pointers in logs.
const addrAlign = 0x40

var nextAddr atomic.Uintptr

func init() {
	nextAddr.Store(0x10000)
}

func alloc() uintptr {
	return nextAddr.Add(addrAlign)
}

// Object is the header shared by every native object.
type Object struct {
	addr uintptr
}

func newObject() Object {
	return Object{addr: alloc()}
}

// Addr returns the address of the object. Addresses are unique for
// the lifetime of the process and are never reused.
func (obj *Object) Addr() uintptr {
	return obj.addr
}

func (obj *Object) String() string {
	return fmt.Sprintf("%#x", obj.addr)
}
