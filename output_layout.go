package wlr

import (
	"fmt"
	"image"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
)

type OutputLayoutHandle = handle.Handle[*native.OutputLayout, *Compositor, *OutputLayout]

var outputLayoutKind = &handle.Kind[*native.OutputLayout, *Compositor, *OutputLayout]{
	Name: "output layout",
	Wrap: func(ptr *native.OutputLayout, c *Compositor) *OutputLayout {
		return &OutputLayout{res: handle.Borrow(ptr), c: c}
	},
}

// OutputLayout arranges outputs in a single coordinate space. Unlike
// most resources, layouts are created by the compositor and live until
// they are destroyed explicitly or the compositor is.
type OutputLayout struct {
	res handle.Resource[*native.OutputLayout]
	c   *Compositor
}

// NewOutputLayout creates an empty output layout. It fails if the
// compositor has been destroyed.
func (c *Compositor) NewOutputLayout() (OutputLayoutHandle, bool) {
	if c.destroyed {
		return OutputLayoutHandle{}, false
	}

	ptr := native.NewOutputLayout()
	e := c.layouts.add(ptr, c)
	lh := c.layouts.handle(e)

	e.listen(ptr.Events.Destroy.Add(func(*native.OutputLayout) {
		for _, lo := range ptr.Outputs() {
			oe, ok := c.outputs.outputs.get(lo.Output)
			if ok && oe.data.layout.Equal(lh) {
				oe.data.layout = OutputLayoutHandle{}
			}
		}
		c.layouts.remove(ptr)
	}))

	return lh, true
}

func (layout *OutputLayout) handle() OutputLayoutHandle {
	return layout.c.layouts.lookup(layout.res.Ptr())
}

// Add places out at x, y. If out is in another layout, it is removed
// from that one first.
func (layout *OutputLayout) Add(out *Output, x, y int) error {
	return layout.add(out, func() error { return layout.res.Ptr().Add(out.res.Ptr(), x, y) })
}

// AddAuto places out to the right of the outputs already in the
// layout.
func (layout *OutputLayout) AddAuto(out *Output) error {
	return layout.add(out, func() error { return layout.res.Ptr().AddAuto(out.res.Ptr()) })
}

func (layout *OutputLayout) add(out *Output, add func() error) error {
	lh := layout.handle()
	if !out.data.layout.Equal(lh) {
		err := out.RemoveFromLayout()
		if err != nil {
			return fmt.Errorf("add %v to layout: %w", out.Name(), err)
		}
	}

	err := add()
	if err != nil {
		return err
	}
	out.data.layout = lh
	return nil
}

// Remove removes out from the layout. It does nothing if out isn't in
// the layout.
func (layout *OutputLayout) Remove(out *Output) {
	layout.res.Ptr().Remove(out.res.Ptr())
	if out.data.layout.Equal(layout.handle()) {
		out.data.layout = OutputLayoutHandle{}
	}
}

// Outputs returns handles to every output in the layout.
func (layout *OutputLayout) Outputs() []OutputHandle {
	los := layout.res.Ptr().Outputs()
	outputs := make([]OutputHandle, 0, len(los))
	for _, lo := range los {
		outputs = append(outputs, layout.c.outputs.outputs.lookup(lo.Output))
	}
	return outputs
}

// OutputAt returns a handle to the output at x, y in layout
// coordinates, or the zero handle if there is no output there.
func (layout *OutputLayout) OutputAt(x, y float64) OutputHandle {
	return layout.c.outputs.outputs.lookup(layout.res.Ptr().OutputAt(x, y))
}

// ClosestPoint returns the point on any output in the layout that is
// closest to x, y. It returns false if the layout is empty.
func (layout *OutputLayout) ClosestPoint(x, y float64) (cx, cy float64, ok bool) {
	return layout.res.Ptr().ClosestPoint(x, y)
}

// Box returns the area covered by out.
func (layout *OutputLayout) Box(out *Output) image.Rectangle {
	return layout.res.Ptr().Box(out.res.Ptr())
}

// Extents returns the area covered by every output in the layout.
func (layout *OutputLayout) Extents() image.Rectangle {
	return layout.res.Ptr().Box(nil)
}

// Destroy destroys the layout. Every output in it is left without a
// layout.
func (layout *OutputLayout) Destroy() {
	layout.res.Ptr().Destroy()
}
