package wlr

import (
	"image"
	"time"

	"deedles.dev/wlr/cursor"
)

// Cursor tracks the pointer's position in an output layout along with
// the image drawn for it. Unlike most types in this package it is not
// backed by a native object and is used directly, not through a
// handle. Methods that need the layout take it already borrowed.
type Cursor struct {
	x, y   float64
	region image.Rectangle

	static *cursor.Image
	anim   *cursor.Cursor
	start  time.Time
}

func NewCursor() *Cursor {
	return &Cursor{start: time.Now()}
}

// Position returns the cursor's position in layout coordinates.
func (c *Cursor) Position() (x, y float64) {
	return c.x, c.y
}

// MapToRegion restricts the cursor to r. The zero Rectangle removes the
// restriction.
func (c *Cursor) MapToRegion(r image.Rectangle) {
	c.region = r.Canon()
}

func (c *Cursor) inRegion(x, y float64) bool {
	if c.region.Empty() {
		return true
	}
	return image.Pt(int(x), int(y)).In(c.region)
}

func (c *Cursor) clampRegion(x, y float64) (float64, float64) {
	if c.region.Empty() {
		return x, y
	}
	x = min(max(x, float64(c.region.Min.X)), float64(c.region.Max.X-1))
	y = min(max(y, float64(c.region.Min.Y)), float64(c.region.Max.Y-1))
	return x, y
}

// Warp moves the cursor to x, y if that point is on one of the
// layout's outputs and inside of the cursor's region. It reports
// whether the cursor moved.
func (c *Cursor) Warp(layout *OutputLayout, x, y float64) bool {
	if !c.inRegion(x, y) || (layout.res.Ptr().OutputAt(x, y) == nil) {
		return false
	}
	c.x, c.y = x, y
	return true
}

// Move moves the cursor by dx, dy. Motion that would leave the layout
// stops at the closest point on any output.
func (c *Cursor) Move(layout *OutputLayout, dx, dy float64) {
	c.moveTo(layout, c.x+dx, c.y+dy)
}

// WarpAbsolute moves the cursor to a position given in [0, 1] on both
// axes, relative to the cursor's region or, if it has none, to the
// whole layout.
func (c *Cursor) WarpAbsolute(layout *OutputLayout, x, y float64) {
	box := c.region
	if box.Empty() {
		box = layout.Extents()
	}
	if box.Empty() {
		return
	}

	c.moveTo(layout,
		float64(box.Min.X)+x*float64(box.Dx()),
		float64(box.Min.Y)+y*float64(box.Dy()),
	)
}

func (c *Cursor) moveTo(layout *OutputLayout, x, y float64) {
	x, y = c.clampRegion(x, y)
	if layout.res.Ptr().OutputAt(x, y) == nil {
		cx, cy, ok := layout.ClosestPoint(x, y)
		if !ok {
			return
		}
		x, y = cx, cy
	}
	c.x, c.y = x, y
}

// Output returns a handle to the output that the cursor is over.
func (c *Cursor) Output(layout *OutputLayout) OutputHandle {
	return layout.OutputAt(c.x, c.y)
}

// SetImage shows img as the cursor. A nil img hides the cursor.
func (c *Cursor) SetImage(img *cursor.Image) {
	c.static = img
	c.anim = nil
}

// SetTheme shows the cursor called name from theme. If the theme has
// no such cursor, the current image is left alone and false is
// returned.
func (c *Cursor) SetTheme(theme *cursor.Theme, name string) bool {
	anim, ok := theme.Cursor(name)
	if !ok || (len(anim.Images) == 0) {
		return false
	}

	c.static = nil
	c.anim = anim
	c.start = time.Now()
	return true
}

// Image returns the image currently shown for the cursor, or nil if
// it is hidden.
func (c *Cursor) Image() *cursor.Image {
	if c.anim != nil {
		return c.anim.Frame(time.Since(c.start))
	}
	return c.static
}

// Render draws the cursor onto out with its hotspot at the cursor's
// position. It does nothing if the cursor is hidden or out isn't in a
// layout.
func (c *Cursor) Render(out *Output) error {
	img := c.Image()
	if img == nil {
		return nil
	}

	ox, oy, ok := out.LayoutPosition()
	if !ok {
		return nil
	}

	x := int(c.x) - ox - img.XHot
	y := int(c.y) - oy - img.YHot
	return out.RenderImage(img.Image.Rect.Sub(img.Image.Rect.Min).Add(image.Pt(x, y)), img.Image)
}
