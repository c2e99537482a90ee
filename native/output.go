package native

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Mode is a display mode supported by an output. Refresh is in mHz.
type Mode struct {
	Width, Height int32
	Refresh       int32
	Preferred     bool
}

func (m Mode) String() string {
	return fmt.Sprintf("%vx%v@%v", m.Width, m.Height, float64(m.Refresh)/1000)
}

// Transform describes how an output's contents are rotated and
// flipped.
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

func (t Transform) String() string {
	switch t {
	case TransformNormal:
		return "normal"
	case Transform90:
		return "90"
	case Transform180:
		return "180"
	case Transform270:
		return "270"
	case TransformFlipped:
		return "flipped"
	case TransformFlipped90:
		return "flipped-90"
	case TransformFlipped180:
		return "flipped-180"
	case TransformFlipped270:
		return "flipped-270"
	default:
		return fmt.Sprintf("Transform(%d)", int(t))
	}
}

// ParseTransform is the inverse of Transform.String.
func ParseTransform(str string) (Transform, error) {
	for t := TransformNormal; t <= TransformFlipped270; t++ {
		if t.String() == str {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown transform %q", str)
}

// Rotated reports whether t swaps width and height.
func (t Transform) Rotated() bool {
	return t%2 == 1
}

var ErrNoMode = errors.New("output has no mode")

// Output is a headless display.
type Output struct {
	Object
	Events struct {
		Frame     Signal[*Output]
		Mode      Signal[*Output]
		Enable    Signal[*Output]
		Scale     Signal[*Output]
		Transform Signal[*Output]
		Destroy   Signal[*Output]
	}

	backend   *Backend
	name      string
	make      string
	model     string
	modes     []Mode
	mode      Mode
	enabled   bool
	scale     float32
	transform Transform
	fb        *image.RGBA
	frames    uint64
	scheduled bool
	destroyed bool
}

func newOutput(b *Backend, name string, width, height int32) *Output {
	mode := Mode{Width: width, Height: height, Refresh: DefaultFrameRate * 1000, Preferred: true}
	return &Output{
		Object:  newObject(),
		backend: b,
		name:    name,
		make:    "headless",
		model:   "headless",
		modes:   []Mode{mode},
		scale:   1,
	}
}

func (out *Output) Name() string         { return out.name }
func (out *Output) Make() string         { return out.make }
func (out *Output) Model() string        { return out.model }
func (out *Output) Enabled() bool        { return out.enabled }
func (out *Output) Scale() float32       { return out.scale }
func (out *Output) Transform() Transform { return out.transform }
func (out *Output) Frames() uint64       { return out.frames }

// Modes returns the modes supported by the output.
func (out *Output) Modes() []Mode {
	return append([]Mode(nil), out.modes...)
}

// AddMode adds m to the list of supported modes.
func (out *Output) AddMode(m Mode) {
	out.modes = append(out.modes, m)
}

// Mode returns the current mode, which is the zero Mode if none has
// been set.
func (out *Output) Mode() Mode {
	return out.mode
}

// SetMode switches to m, which must be one of the output's modes.
func (out *Output) SetMode(m Mode) error {
	for _, v := range out.modes {
		if v == m {
			out.setMode(m)
			return nil
		}
	}
	return fmt.Errorf("set mode %v on %v: unsupported mode", m, out.name)
}

// SetCustomMode switches to an arbitrary mode. Headless outputs
// support any size.
func (out *Output) SetCustomMode(width, height, refresh int32) error {
	if (width <= 0) || (height <= 0) {
		return fmt.Errorf("set custom mode on %v: invalid size %vx%v", out.name, width, height)
	}
	out.setMode(Mode{Width: width, Height: height, Refresh: refresh})
	return nil
}

func (out *Output) setMode(m Mode) {
	if out.mode == m {
		return
	}
	out.mode = m
	out.fb = nil
	out.Events.Mode.Emit(out)
}

// Enable turns the output on or off.
func (out *Output) Enable(enable bool) {
	if out.enabled == enable {
		return
	}
	out.enabled = enable
	out.Events.Enable.Emit(out)
}

func (out *Output) SetScale(scale float32) {
	if out.scale == scale {
		return
	}
	out.scale = scale
	out.Events.Scale.Emit(out)
}

func (out *Output) SetTransform(t Transform) {
	if out.transform == t {
		return
	}
	out.transform = t
	out.Events.Transform.Emit(out)
}

// TransformedResolution returns the size of the current mode after
// the transform has been applied.
func (out *Output) TransformedResolution() (width, height int32) {
	width, height = out.mode.Width, out.mode.Height
	if out.transform.Rotated() {
		width, height = height, width
	}
	return width, height
}

// EffectiveResolution returns the transformed resolution divided by
// the scale, which is the size of the output in layout coordinates.
func (out *Output) EffectiveResolution() (width, height int32) {
	width, height = out.TransformedResolution()
	if out.scale <= 0 {
		return width, height
	}
	return int32(math.Round(float64(width) / float64(out.scale))),
		int32(math.Round(float64(height) / float64(out.scale)))
}

// ScheduleFrame requests a frame event the next time the event loop is
// idle, even if the backend isn't generating frames on its own.
func (out *Output) ScheduleFrame() {
	if out.scheduled || out.destroyed {
		return
	}
	out.scheduled = true

	out.backend.display.loop.AddIdle(func() {
		out.scheduled = false
		if out.destroyed || !out.enabled {
			return
		}
		out.Events.Frame.Emit(out)
	})
}

// Framebuffer returns the output's image, allocating it to match the
// transformed resolution of the current mode if necessary.
func (out *Output) Framebuffer() (*image.RGBA, error) {
	w, h := out.TransformedResolution()
	if (w <= 0) || (h <= 0) {
		return nil, ErrNoMode
	}
	if out.fb == nil {
		out.fb = image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	}
	return out.fb, nil
}

// Clear fills the framebuffer with c.
func (out *Output) Clear(c color.Color) error {
	fb, err := out.Framebuffer()
	if err != nil {
		return err
	}
	draw.Draw(fb, fb.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return nil
}

// RenderImage draws img into dst, given in layout coordinates relative
// to the output, scaling it as necessary.
func (out *Output) RenderImage(dst image.Rectangle, img image.Image) error {
	fb, err := out.Framebuffer()
	if err != nil {
		return err
	}

	scale := float64(out.scale)
	if scale <= 0 {
		scale = 1
	}
	dst = image.Rect(
		int(float64(dst.Min.X)*scale),
		int(float64(dst.Min.Y)*scale),
		int(float64(dst.Max.X)*scale),
		int(float64(dst.Max.Y)*scale),
	)

	draw.ApproxBiLinear.Scale(fb, dst, img, img.Bounds(), draw.Over, nil)
	return nil
}

// Commit finishes a frame.
func (out *Output) Commit() error {
	if !out.enabled {
		return fmt.Errorf("commit %v: output disabled", out.name)
	}
	out.frames++
	return nil
}

// Destroy simulates the output being unplugged.
func (out *Output) Destroy() {
	if out.destroyed {
		return
	}
	out.destroyed = true

	out.Events.Destroy.Emit(out)
	out.backend.removeOutput(out)
	out.fb = nil
}
