package wlr

import (
	"cmp"
	"fmt"
	"slices"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/internal/log"
	"deedles.dev/wlr/internal/registry"
	"deedles.dev/wlr/native"
)

// entry is the bookkeeping kept for every live native object that the
// compositor knows about. It holds the only Owner of the object's
// liveliness flag, the reconstruction data that handles cache, and
// every listener attached to the object's signals.
type entry[P handle.Native, D any] struct {
	res       handle.Resource[P]
	data      D
	listeners []native.Remover
}

func (e *entry[P, D]) listen(listeners ...native.Remover) {
	e.listeners = append(e.listeners, listeners...)
}

// Delete detaches every listener and marks the object as dead. Handles
// to it fail with handle.ErrAlreadyDropped from now on.
func (e *entry[P, D]) Delete() {
	for _, lis := range e.listeners {
		lis.Remove()
	}
	e.listeners = nil
	e.res.Owner().Drop()
}

// table maps native objects of one kind to their entries. It replaces
// recovering the enclosing wrapper from the address of a listener.
type table[P handle.Native, D, W any] struct {
	kind  *handle.Kind[P, D, W]
	store *registry.Store[*entry[P, D]]
}

func newTable[P handle.Native, D, W any](kind *handle.Kind[P, D, W]) *table[P, D, W] {
	return &table[P, D, W]{
		kind:  kind,
		store: registry.New[*entry[P, D]](),
	}
}

// add registers ptr as a new live object. If ptr was somehow already
// registered, the old entry is deleted and ptr starts over with a new
// liveliness flag.
func (t *table[P, D, W]) add(ptr P, data D) *entry[P, D] {
	e := entry[P, D]{res: handle.Own(ptr), data: data}
	t.store.Add(ptr.Addr(), &e)

	log.Debug("resource added", "kind", t.kind.Name, "ptr", fmt.Sprintf("%#x", ptr.Addr()))
	return &e
}

func (t *table[P, D, W]) handle(e *entry[P, D]) handle.Handle[P, D, W] {
	return t.kind.Downgrade(e.res, e.data)
}

// lookup returns a handle to the live object at ptr, or the zero
// handle if ptr is not registered.
func (t *table[P, D, W]) lookup(ptr P) handle.Handle[P, D, W] {
	var zero P
	if ptr == zero {
		return handle.Handle[P, D, W]{}
	}

	e, ok := t.store.Get(ptr.Addr())
	if !ok {
		return handle.Handle[P, D, W]{}
	}
	return t.handle(e)
}

func (t *table[P, D, W]) get(ptr P) (*entry[P, D], bool) {
	var zero P
	if ptr == zero {
		return nil, false
	}
	return t.store.Get(ptr.Addr())
}

// remove deletes the entry for ptr.
func (t *table[P, D, W]) remove(ptr P) {
	if t.store.Delete(ptr.Addr()) {
		log.Debug("resource removed", "kind", t.kind.Name, "ptr", fmt.Sprintf("%#x", ptr.Addr()))
	}
}

// handles returns handles to every live object in t, oldest first.
func (t *table[P, D, W]) handles() []handle.Handle[P, D, W] {
	entries := t.store.Snapshot()
	hs := make([]handle.Handle[P, D, W], 0, len(entries))
	for _, e := range entries {
		hs = append(hs, t.handle(e))
	}
	slices.SortFunc(hs, func(h1, h2 handle.Handle[P, D, W]) int {
		return cmp.Compare(h1.ID(), h2.ID())
	})
	return hs
}

func (t *table[P, D, W]) len() int {
	return t.store.Len()
}

func (t *table[P, D, W]) clear() {
	t.store.Clear()
}

// dispatch calls f with a handle to c. If c can't be resolved, such as
// while it is being torn down, f is not called.
func (c *Compositor) dispatch(f func(CompositorHandle)) {
	ch, ok := c.resolve()
	if !ok {
		return
	}
	f(ch)
}

// destroyed dispatches the destroy-class event for ptr through f and
// then forgets ptr. The cleanup happens even if the compositor can't be
// resolved.
func destroyed[P handle.Native, D, W any](c *Compositor, t *table[P, D, W], ptr P, f func(CompositorHandle, handle.Handle[P, D, W])) {
	e, ok := t.get(ptr)
	if !ok {
		return
	}

	defer t.remove(ptr)
	h := t.handle(e)
	c.dispatch(func(ch CompositorHandle) { f(ch, h) })
}
