package native

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXDGMapOnCommit(t *testing.T) {
	d := NewDisplay()
	defer d.Destroy()

	comp := NewCompositor(d)
	shell := NewXDGShell(d)
	client := d.NewClient()

	s := comp.CreateSurface(client)
	xs, err := shell.GetToplevel(s)
	require.NoError(t, err)

	var events []string
	xs.Events.Map.Add(func(*XDGSurface) { events = append(events, "map") })
	xs.Events.Unmap.Add(func(*XDGSurface) { events = append(events, "unmap") })
	xs.Events.Destroy.Add(func(*XDGSurface) { events = append(events, "destroy") })

	s.Attach(image.NewRGBA(image.Rect(0, 0, 10, 10)), 0, 0)
	s.Commit()
	assert.Empty(t, events, "mapped before configure was acknowledged")

	serial := xs.Configure(XDGToplevelState{Width: 10, Height: 10})
	require.NoError(t, xs.AckConfigure(serial))
	s.Commit()
	assert.Equal(t, []string{"map"}, events)

	s.Attach(nil, 0, 0)
	s.Commit()
	assert.Equal(t, []string{"map", "unmap"}, events)

	client.Destroy()
	assert.Equal(t, []string{"map", "unmap", "destroy"}, events)
}

func TestXDGRoleConflict(t *testing.T) {
	d := NewDisplay()
	defer d.Destroy()

	comp := NewCompositor(d)
	shell := NewXDGShell(d)
	s := comp.CreateSurface(nil)

	parent, err := shell.GetToplevel(s)
	require.NoError(t, err)

	other := comp.CreateSurface(nil)
	other.setRole("cursor", nil)
	_, err = shell.GetPopup(other, parent)
	assert.Error(t, err)
}

func TestXDGPopupDestroyedWithParent(t *testing.T) {
	d := NewDisplay()
	defer d.Destroy()

	comp := NewCompositor(d)
	shell := NewXDGShell(d)

	parent, err := shell.GetToplevel(comp.CreateSurface(nil))
	require.NoError(t, err)

	var popups []*XDGSurface
	parent.Events.NewPopup.Add(func(p *XDGSurface) { popups = append(popups, p) })

	popup, err := shell.GetPopup(comp.CreateSurface(nil), parent)
	require.NoError(t, err)
	require.Equal(t, []*XDGSurface{popup}, popups)

	destroyed := false
	popup.Events.Destroy.Add(func(*XDGSurface) { destroyed = true })

	parent.Surface().Destroy()
	assert.True(t, destroyed)
	assert.Empty(t, parent.Popups())
}

func TestXDGAckUnknownSerial(t *testing.T) {
	d := NewDisplay()
	defer d.Destroy()

	xs, err := NewXDGShell(d).GetToplevel(NewCompositor(d).CreateSurface(nil))
	require.NoError(t, err)

	first := xs.Configure(XDGToplevelState{})
	second := xs.Configure(XDGToplevelState{Activated: true})
	require.NoError(t, xs.AckConfigure(second))
	assert.Empty(t, xs.PendingConfigures())
	assert.Error(t, xs.AckConfigure(first))
}
