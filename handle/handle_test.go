package handle_test

import (
	"errors"
	"testing"

	"deedles.dev/wlr/handle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	addr  uintptr
	value int
}

func (obj *object) Addr() uintptr {
	return obj.addr
}

type wrapper struct {
	res  handle.Resource[*object]
	note string
}

func (w *wrapper) WeakReference() testHandle {
	return testKind.Downgrade(w.res, w.note)
}

type testHandle = handle.Handle[*object, string, *wrapper]

var testKind = &handle.Kind[*object, string, *wrapper]{
	Name: "test",
	Wrap: func(ptr *object, note string) *wrapper {
		return &wrapper{res: handle.Borrow(ptr), note: note}
	},
}

func create(addr uintptr) *wrapper {
	return &wrapper{res: handle.Own(&object{addr: addr})}
}

func destroy(w *wrapper) {
	w.res.Owner().Drop()
}

func TestRunAfterDestroy(t *testing.T) {
	x := create(0x10)
	h := x.WeakReference()

	v, err := handle.Run(h, func(*wrapper) int { return 42 })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	destroy(x)

	_, err = handle.Run(h, func(*wrapper) int { return 42 })
	require.ErrorIs(t, err, handle.ErrAlreadyDropped)
}

func TestNestedRunSameObject(t *testing.T) {
	y := create(0x20)
	h1 := y.WeakReference()
	h2 := h1
	require.True(t, h1.Equal(h2))

	var inner error
	outer := h1.Run(func(*wrapper) {
		_, inner = handle.Run(h2, func(*wrapper) int { return 1 })
	})
	require.NoError(t, outer)
	require.ErrorIs(t, inner, handle.ErrAlreadyBorrowed)

	var herr handle.Error
	require.True(t, errors.As(inner, &herr))
	assert.Equal(t, "test", herr.Kind)
	assert.Equal(t, uintptr(0x20), herr.Ptr)
}

func TestExclusivity(t *testing.T) {
	w := create(0x30)
	h := w.WeakReference()

	err := h.Run(func(*wrapper) {
		assert.True(t, h.Borrowed())

		g, err := h.Upgrade()
		assert.Nil(t, g)
		assert.ErrorIs(t, err, handle.ErrAlreadyBorrowed)
	})
	require.NoError(t, err)
	assert.False(t, h.Borrowed())
}

func TestPostDropDropout(t *testing.T) {
	w := create(0x40)
	handles := []testHandle{w.WeakReference(), w.WeakReference(), w.WeakReference()}

	destroy(w)

	for _, h := range handles {
		assert.False(t, h.Alive())
		assert.False(t, h.Borrowed())

		called := false
		err := h.Run(func(*wrapper) { called = true })
		assert.ErrorIs(t, err, handle.ErrAlreadyDropped)
		assert.False(t, called)
	}
}

func TestReleaseOnPanic(t *testing.T) {
	w := create(0x50)
	h := w.WeakReference()

	func() {
		defer func() {
			r := recover()
			assert.Equal(t, "boom", r)
		}()

		h.Run(func(*wrapper) { panic("boom") })
	}()

	assert.False(t, h.Borrowed())
	v, err := handle.Run(h, func(*wrapper) string { return "ok" })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestIdentityEquality(t *testing.T) {
	a := create(0x60)
	b := create(0x70)

	fresh := a.WeakReference()
	stored := testKind.Downgrade(a.res, "different data")

	assert.True(t, fresh.Equal(stored))
	assert.Equal(t, fresh.ID(), stored.ID())
	assert.False(t, fresh.Equal(b.WeakReference()))
	assert.NotEqual(t, fresh.ID(), b.WeakReference().ID())

	set := map[uintptr]testHandle{fresh.ID(): fresh}
	_, ok := set[stored.ID()]
	assert.True(t, ok)
}

func TestZeroHandle(t *testing.T) {
	var h testHandle

	assert.False(t, h.Alive())
	assert.False(t, h.Borrowed())
	assert.Equal(t, uintptr(0), h.ID())
	assert.Equal(t, "resource", h.KindName())

	called := false
	assert.NotPanics(t, func() {
		err := h.Run(func(*wrapper) { called = true })
		assert.ErrorIs(t, err, handle.ErrAlreadyDropped)
	})
	assert.False(t, called)

	g, err := h.Upgrade()
	assert.Nil(t, g)
	assert.ErrorIs(t, err, handle.ErrAlreadyDropped)
}

func TestDowngradeBorrowedPanics(t *testing.T) {
	w := create(0x80)
	h := w.WeakReference()

	err := h.Run(func(borrowed *wrapper) {
		assert.False(t, borrowed.res.Owned())
		assert.Panics(t, func() { borrowed.WeakReference() })
	})
	require.NoError(t, err)
}

func TestWrapReceivesData(t *testing.T) {
	w := create(0x90)
	w.note = "cached"
	h := w.WeakReference()

	note, err := handle.Run(h, func(w *wrapper) string { return w.note })
	require.NoError(t, err)
	assert.Equal(t, "cached", note)
	assert.Equal(t, "cached", h.Data())
}

func TestDestroyedWhileBorrowed(t *testing.T) {
	w := create(0xA0)
	h := w.WeakReference()

	err := h.Run(func(*wrapper) {
		destroy(w)
		assert.False(t, h.Alive())
	})
	require.NoError(t, err)
	assert.ErrorIs(t, h.Run(func(*wrapper) {}), handle.ErrAlreadyDropped)
}

func TestGuardReleaseIdempotent(t *testing.T) {
	w := create(0xB0)
	h := w.WeakReference()

	g, err := h.Upgrade()
	require.NoError(t, err)
	g.Release()
	assert.NotPanics(t, g.Release)
	assert.False(t, h.Borrowed())
}

func TestRun2(t *testing.T) {
	a := create(0xD0)
	b := create(0xE0)

	tests := []struct {
		name   string
		first  testHandle
		second testHandle
		err    error
		called bool
	}{
		{name: "distinct", first: a.WeakReference(), second: b.WeakReference(), called: true},
		{name: "same", first: a.WeakReference(), second: a.WeakReference(), err: handle.ErrAlreadyBorrowed},
		{name: "zero", first: a.WeakReference(), second: testHandle{}, err: handle.ErrAlreadyDropped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := handle.Run2(tt.first, tt.second, func(*wrapper, *wrapper) { called = true })
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.called, called)
			assert.False(t, tt.first.Borrowed())
			assert.False(t, tt.second.Borrowed())
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "free", handle.Free.String())
	assert.Equal(t, "borrowed", handle.Borrowed.String())
}
