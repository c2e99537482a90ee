package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"deedles.dev/wlr"
	"deedles.dev/wlr/config"
	"deedles.dev/wlr/cursor"
	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
	"deedles.dev/ximage/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server {
	t.Helper()
	t.Setenv("XCURSOR_PATH", t.TempDir())

	cfg := config.DefaultConfig
	cfg.Socket = ""
	cfg.FrameRate = 0
	cfg.Headless = config.HeadlessConfig{Outputs: 2, Width: 100, Height: 100}

	s, err := newServer(&cfg)
	require.NoError(t, err)
	t.Cleanup(s.c.Destroy)
	require.NoError(t, s.c.Start())
	return s
}

func TestServerSetup(t *testing.T) {
	s := newTestServer(t)

	require.Len(t, s.c.Outputs(), 2)
	extents, err := handle.Run(s.layout, (*wlr.OutputLayout).Extents)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), extents)

	err = s.seat.Run(func(seat *wlr.Seat) {
		assert.Equal(t, wlr.SeatCapabilityKeyboard|wlr.SeatCapabilityPointer, seat.Capabilities())
		assert.True(t, seat.Keyboard().Alive())
	})
	require.NoError(t, err)
}

func TestServerToplevel(t *testing.T) {
	s := newTestServer(t)
	out := s.c.Outputs()[0]

	xs, err := s.c.XDGShell().GetToplevel(s.c.WLCompositor().CreateSurface(nil))
	require.NoError(t, err)
	configures := xs.PendingConfigures()
	require.Len(t, configures, 1)
	require.NoError(t, xs.AckConfigure(configures[0]))

	red := color.RGBA{R: 0xFF, A: 0xFF}
	buf := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(buf, buf.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)
	xs.Surface().Attach(buf, 0, 0)
	xs.Surface().Commit()

	require.Len(t, s.toplevels, 1)
	err = s.seat.Run(func(seat *wlr.Seat) {
		assert.Equal(t, xs.Surface().Addr(), seat.KeyboardFocus().ID())
	})
	require.NoError(t, err)

	s.frame(s.c.WeakReference(), out)
	err = out.Run(func(out *wlr.Output) {
		img, err := out.Image()
		require.NoError(t, err)
		assert.Equal(t, red, img.At(5, 5))
		assert.Equal(t, background, img.At(50, 50))
		assert.Equal(t, uint64(1), out.Frames())
	})
	require.NoError(t, err)

	xs.RequestMaximize()
	assert.True(t, xs.State().Maximized)
	assert.Equal(t, int32(200), xs.State().Width)

	xs.Surface().Destroy()
	assert.Empty(t, s.toplevels)
}

func TestServerCursor(t *testing.T) {
	s := newTestServer(t)
	assert.Nil(t, s.cursor.Image())

	var ptr *native.Pointer
	for _, dev := range s.c.Backend().Inputs() {
		if dev.Type() == native.InputDevicePointer {
			ptr = dev.Pointer()
		}
	}
	require.NotNil(t, ptr)

	position := func(x, y float64) {
		t.Helper()
		cx, cy := s.cursor.Position()
		assert.Equal(t, x, cx)
		assert.Equal(t, y, cy)
	}

	ptr.NotifyMotion(native.PointerMotionEvent{DeltaX: 150, DeltaY: 50})
	position(150, 50)
	ptr.NotifyMotionAbsolute(native.PointerMotionAbsoluteEvent{X: 0.25, Y: 0.5})
	position(50, 50)
	ptr.NotifyMotion(native.PointerMotionEvent{DeltaX: -100, DeltaY: 500})
	position(0, 99)

	s.cursor.SetImage(&cursor.Image{
		NominalSize: 2,
		Image: &format.Image{
			Format: format.ARGB8888,
			Rect:   image.Rect(0, 0, 2, 2),
			Pix:    bytes.Repeat([]byte{0xFF}, 2*2*4),
		},
	})

	out, err := handle.Run(s.layout, func(layout *wlr.OutputLayout) wlr.OutputHandle {
		return s.cursor.Output(layout)
	})
	require.NoError(t, err)
	s.frame(s.c.WeakReference(), out)
	err = out.Run(func(out *wlr.Output) {
		img, err := out.Image()
		require.NoError(t, err)
		assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, img.At(0, 99))
		assert.Equal(t, background, img.At(2, 97))
	})
	require.NoError(t, err)
}
