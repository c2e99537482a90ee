package wlr

import (
	"fmt"
	"image"
	"image/color"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/internal/log"
	"deedles.dev/wlr/native"
)

type (
	Mode      = native.Mode
	Transform = native.Transform
)

const (
	TransformNormal     = native.TransformNormal
	Transform90         = native.Transform90
	Transform180        = native.Transform180
	Transform270        = native.Transform270
	TransformFlipped    = native.TransformFlipped
	TransformFlipped90  = native.TransformFlipped90
	TransformFlipped180 = native.TransformFlipped180
	TransformFlipped270 = native.TransformFlipped270
)

// ParseTransform parses the names returned by Transform.String, such
// as "90" or "flipped-180".
func ParseTransform(str string) (Transform, error) {
	return native.ParseTransform(str)
}

// outputData is kept for every output for as long as it exists. It is
// shared by every wrapper of the output.
type outputData struct {
	c      *Compositor
	layout OutputLayoutHandle
}

type OutputHandle = handle.Handle[*native.Output, *outputData, *Output]

var outputKind = &handle.Kind[*native.Output, *outputData, *Output]{
	Name: "output",
	Wrap: func(ptr *native.Output, data *outputData) *Output {
		return &Output{res: handle.Borrow(ptr), data: data}
	},
}

// Output is a display.
type Output struct {
	res  handle.Resource[*native.Output]
	data *outputData
}

func (out *Output) String() string {
	return fmt.Sprintf("output %v", out.Name())
}

func (out *Output) Name() string  { return out.res.Ptr().Name() }
func (out *Output) Make() string  { return out.res.Ptr().Make() }
func (out *Output) Model() string { return out.res.Ptr().Model() }

// Modes returns the modes that the output supports.
func (out *Output) Modes() []Mode { return out.res.Ptr().Modes() }

// Mode returns the current mode.
func (out *Output) Mode() Mode { return out.res.Ptr().Mode() }

// ChooseBestMode returns the mode that the output should use if
// nothing else is configured. That is the preferred mode, if there is
// one, or the largest mode with the highest refresh rate otherwise.
func (out *Output) ChooseBestMode() (Mode, bool) {
	return bestMode(out.Modes())
}

func bestMode(modes []Mode) (Mode, bool) {
	if len(modes) == 0 {
		return Mode{}, false
	}

	best := modes[0]
	for _, m := range modes {
		if m.Preferred {
			return m, true
		}

		area, bestArea := m.Width*m.Height, best.Width*best.Height
		if (area > bestArea) || ((area == bestArea) && (m.Refresh > best.Refresh)) {
			best = m
		}
	}
	return best, true
}

// SetMode switches to one of the output's modes.
func (out *Output) SetMode(m Mode) error {
	return out.res.Ptr().SetMode(m)
}

// SetCustomMode switches to a mode that isn't in the list returned by
// Modes. The refresh rate is in mHz.
func (out *Output) SetCustomMode(width, height, refresh int32) error {
	return out.res.Ptr().SetCustomMode(width, height, refresh)
}

func (out *Output) Enabled() bool      { return out.res.Ptr().Enabled() }
func (out *Output) Enable(enable bool) { out.res.Ptr().Enable(enable) }

func (out *Output) Scale() float32         { return out.res.Ptr().Scale() }
func (out *Output) SetScale(scale float32) { out.res.Ptr().SetScale(scale) }

func (out *Output) Transform() Transform     { return out.res.Ptr().Transform() }
func (out *Output) SetTransform(t Transform) { out.res.Ptr().SetTransform(t) }

// EffectiveResolution returns the size of the output in layout
// coordinates.
func (out *Output) EffectiveResolution() (width, height int32) {
	return out.res.Ptr().EffectiveResolution()
}

// TransformedResolution returns the size of the output in pixels,
// after the transform is applied.
func (out *Output) TransformedResolution() (width, height int32) {
	return out.res.Ptr().TransformedResolution()
}

// ScheduleFrame requests a frame event even if the output isn't
// otherwise going to get one.
func (out *Output) ScheduleFrame() { out.res.Ptr().ScheduleFrame() }

// Frames returns the number of frames committed so far.
func (out *Output) Frames() uint64 { return out.res.Ptr().Frames() }

// Clear fills the whole output with c.
func (out *Output) Clear(c color.Color) error {
	return out.res.Ptr().Clear(c)
}

// RenderImage draws img scaled into dst, given in output-local layout
// coordinates.
func (out *Output) RenderImage(dst image.Rectangle, img image.Image) error {
	return out.res.Ptr().RenderImage(dst, img)
}

// RenderSurface draws the current buffer of s with its top-left corner
// at x, y in output-local layout coordinates. It does nothing if s has
// no buffer.
func (out *Output) RenderSurface(s *Surface, x, y int) error {
	buf := s.Buffer()
	if buf == nil {
		return nil
	}
	w, h := s.Size()
	return out.RenderImage(image.Rect(x, y, x+w, y+h), buf)
}

// Image returns the output's framebuffer. The returned image is only
// valid until the output's mode changes.
func (out *Output) Image() (image.Image, error) {
	return out.res.Ptr().Framebuffer()
}

// Commit presents the rendered frame.
func (out *Output) Commit() error {
	return out.res.Ptr().Commit()
}

// Layout returns a handle to the output layout that the output is in,
// or the zero handle if it isn't in one.
func (out *Output) Layout() OutputLayoutHandle {
	return out.data.layout
}

// LayoutPosition returns the position of the output in its layout.
func (out *Output) LayoutPosition() (x, y int, ok bool) {
	layout, ok := out.data.c.layouts.get(out.data.layout.Ptr())
	if !ok {
		return 0, 0, false
	}
	lo, ok := layout.res.Ptr().Get(out.res.Ptr())
	return lo.X, lo.Y, ok
}

// RemoveFromLayout removes the output from its layout, if it is in
// one. It fails if the layout is currently borrowed.
func (out *Output) RemoveFromLayout() error {
	lh := out.data.layout
	if lh.Ptr() == nil {
		return nil
	}

	err := lh.Run(func(layout *OutputLayout) {
		layout.res.Ptr().Remove(out.res.Ptr())
	})
	if (err != nil) && lh.Alive() {
		log.Error("failed to remove output from layout", "output", out.Name(), "err", err)
		return err
	}

	out.data.layout = OutputLayoutHandle{}
	return nil
}

// OutputHandler is notified of a single output's events.
type OutputHandler interface {
	// OnFrame is called when the output is ready for a new frame.
	OnFrame(c CompositorHandle, out OutputHandle)

	OnModeChange(c CompositorHandle, out OutputHandle)
	OnEnable(c CompositorHandle, out OutputHandle)
	OnScaleChange(c CompositorHandle, out OutputHandle)
	OnTransform(c CompositorHandle, out OutputHandle)
	OnDestroyed(c CompositorHandle, out OutputHandle)
}

type OutputFuncs struct {
	Frame       func(c CompositorHandle, out OutputHandle)
	ModeChange  func(c CompositorHandle, out OutputHandle)
	Enable      func(c CompositorHandle, out OutputHandle)
	ScaleChange func(c CompositorHandle, out OutputHandle)
	Transform   func(c CompositorHandle, out OutputHandle)
	Destroyed   func(c CompositorHandle, out OutputHandle)
}

func (f OutputFuncs) OnFrame(c CompositorHandle, out OutputHandle) {
	if f.Frame != nil {
		f.Frame(c, out)
	}
}

func (f OutputFuncs) OnModeChange(c CompositorHandle, out OutputHandle) {
	if f.ModeChange != nil {
		f.ModeChange(c, out)
	}
}

func (f OutputFuncs) OnEnable(c CompositorHandle, out OutputHandle) {
	if f.Enable != nil {
		f.Enable(c, out)
	}
}

func (f OutputFuncs) OnScaleChange(c CompositorHandle, out OutputHandle) {
	if f.ScaleChange != nil {
		f.ScaleChange(c, out)
	}
}

func (f OutputFuncs) OnTransform(c CompositorHandle, out OutputHandle) {
	if f.Transform != nil {
		f.Transform(c, out)
	}
}

func (f OutputFuncs) OnDestroyed(c CompositorHandle, out OutputHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, out)
	}
}
