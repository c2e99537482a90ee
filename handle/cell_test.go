package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObject struct{}

func (*testObject) Addr() uintptr { return 0x1 }

var cellKind = &Kind[*testObject, struct{}, *testObject]{
	Name: "cell",
	Wrap: func(ptr *testObject, _ struct{}) *testObject { return ptr },
}

func TestOwnerDrop(t *testing.T) {
	o := NewOwner()
	w := o.Weak()
	require.True(t, w.Alive())
	require.True(t, w.Same(o.Weak()))

	o.Drop()
	assert.False(t, w.Alive())
	assert.False(t, o.Alive())
	assert.NotPanics(t, o.Drop)
}

func TestZeroOwner(t *testing.T) {
	var o Owner
	assert.False(t, o.Valid())
	assert.False(t, o.Alive())
	assert.False(t, o.Weak().Alive())
	assert.NotPanics(t, o.Drop)
}

func TestReleaseDetectsBrokenLock(t *testing.T) {
	h := cellKind.Downgrade(Own(&testObject{}), struct{}{})

	g, err := h.Upgrade()
	require.NoError(t, err)

	h.weak.c.state = Free
	assert.Panics(t, g.Release)
}

func TestRunPanicsOnBrokenLock(t *testing.T) {
	h := cellKind.Downgrade(Own(&testObject{}), struct{}{})

	assert.Panics(t, func() {
		h.Run(func(*testObject) {
			h.weak.c.state = Free
		})
	})
}
