package wlr_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"deedles.dev/wlr"
	"deedles.dev/wlr/cursor"
	"deedles.dev/wlr/handle"
	"deedles.dev/ximage/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cursorLayout(t *testing.T, c *wlr.Compositor) (wlr.OutputLayoutHandle, []wlr.OutputHandle) {
	t.Helper()

	left := addOutput(t, c, 640, 480)
	right := addOutput(t, c, 800, 600)
	layout, ok := c.NewOutputLayout()
	require.True(t, ok)

	outputs := []wlr.OutputHandle{left, right}
	for _, oh := range outputs {
		err := handle.Run2(layout, oh, func(layout *wlr.OutputLayout, out *wlr.Output) {
			require.NoError(t, out.SetMode(out.Modes()[0]))
			out.Enable(true)
			require.NoError(t, layout.AddAuto(out))
		})
		require.NoError(t, err)
	}
	return layout, outputs
}

func TestCursorMotion(t *testing.T) {
	c := build(t, wlr.Builder{})
	layout, outputs := cursorLayout(t, c)
	cur := wlr.NewCursor()

	err := layout.Run(func(layout *wlr.OutputLayout) {
		assert.True(t, cur.Warp(layout, 700, 10))
		assert.True(t, cur.Output(layout).Equal(outputs[1]))

		assert.False(t, cur.Warp(layout, 10, 590))
		x, y := cur.Position()
		assert.Equal(t, 700.0, x)
		assert.Equal(t, 10.0, y)

		cur.Move(layout, -690, 0)
		x, y = cur.Position()
		assert.Equal(t, 10.0, x)
		assert.True(t, cur.Output(layout).Equal(outputs[0]))

		cur.Move(layout, 0, 1000)
		x, y = cur.Position()
		assert.Equal(t, 10.0, x)
		assert.Equal(t, 479.0, y)

		cur.WarpAbsolute(layout, 0.5, 0.5)
		x, y = cur.Position()
		assert.Equal(t, 720.0, x)
		assert.Equal(t, 300.0, y)

		cur.MapToRegion(image.Rect(100, 100, 200, 200))
		assert.False(t, cur.Warp(layout, 300, 150))
		cur.WarpAbsolute(layout, 1, 0)
		x, y = cur.Position()
		assert.Equal(t, 199.0, x)
		assert.Equal(t, 100.0, y)
	})
	require.NoError(t, err)
}

func TestCursorEmptyLayout(t *testing.T) {
	c := build(t, wlr.Builder{})
	layout, ok := c.NewOutputLayout()
	require.True(t, ok)
	cur := wlr.NewCursor()

	err := layout.Run(func(layout *wlr.OutputLayout) {
		cur.Move(layout, 50, 50)
		cur.WarpAbsolute(layout, 1, 1)
		x, y := cur.Position()
		assert.Zero(t, x)
		assert.Zero(t, y)
		assert.False(t, cur.Output(layout).Alive())
	})
	require.NoError(t, err)
}

func whiteImage(w, h, xhot, yhot int) *cursor.Image {
	return &cursor.Image{
		NominalSize: w,
		XHot:        xhot,
		YHot:        yhot,
		Image: &format.Image{
			Format: format.ARGB8888,
			Rect:   image.Rect(0, 0, w, h),
			Pix:    bytes.Repeat([]byte{0xFF}, w*h*4),
		},
	}
}

func TestCursorRender(t *testing.T) {
	c := build(t, wlr.Builder{})
	layout, outputs := cursorLayout(t, c)
	cur := wlr.NewCursor()

	err := layout.Run(func(layout *wlr.OutputLayout) {
		require.True(t, cur.Warp(layout, 644, 4))
	})
	require.NoError(t, err)

	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	black := color.RGBA{A: 0xFF}

	err = outputs[1].Run(func(out *wlr.Output) {
		require.NoError(t, out.Clear(color.Black))
		require.NoError(t, cur.Render(out))
		img, err := out.Image()
		require.NoError(t, err)
		assert.Equal(t, black, img.At(3, 3))

		cur.SetImage(whiteImage(2, 2, 1, 1))
		require.NoError(t, cur.Render(out))
		assert.Equal(t, white, img.At(3, 3))
		assert.Equal(t, white, img.At(4, 4))
		assert.Equal(t, black, img.At(2, 2))
		assert.Equal(t, black, img.At(5, 5))
	})
	require.NoError(t, err)
}

func TestCursorSetTheme(t *testing.T) {
	arrow := whiteImage(4, 4, 0, 0)
	theme := &cursor.Theme{
		Name: "test",
		Size: 4,
		Cursors: map[string]*cursor.Cursor{
			"left_ptr": {Images: []*cursor.Image{arrow}},
			"empty":    {},
		},
	}

	cur := wlr.NewCursor()
	assert.Nil(t, cur.Image())

	require.True(t, cur.SetTheme(theme, "default"))
	assert.Same(t, arrow, cur.Image())

	assert.False(t, cur.SetTheme(theme, "empty"))
	assert.False(t, cur.SetTheme(theme, "wait"))
	assert.Same(t, arrow, cur.Image())

	cur.SetImage(nil)
	assert.Nil(t, cur.Image())
}
