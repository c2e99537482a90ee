package native

import (
	"fmt"
	"image"
	"math"
)

// OutputLayoutOutput is an output's place in an output layout.
type OutputLayoutOutput struct {
	Output *Output
	X, Y   int
	Auto   bool
}

// Box returns the area that the output covers in layout coordinates.
func (l OutputLayoutOutput) Box() image.Rectangle {
	w, h := l.Output.EffectiveResolution()
	return image.Rect(l.X, l.Y, l.X+int(w), l.Y+int(h))
}

// OutputLayout arranges outputs in a shared coordinate space. Layouts
// are created by the compositor, not by the backend.
type OutputLayout struct {
	Object
	Events struct {
		Add     Signal[*OutputLayoutOutput]
		Change  Signal[*OutputLayout]
		Destroy Signal[*OutputLayout]
	}

	entries   []*layoutEntry
	destroyed bool
}

type layoutEntry struct {
	OutputLayoutOutput
	listeners []Remover
}

func NewOutputLayout() *OutputLayout {
	return &OutputLayout{Object: newObject()}
}

func (layout *OutputLayout) find(out *Output) (int, *layoutEntry) {
	for i, e := range layout.entries {
		if e.Output == out {
			return i, e
		}
	}
	return -1, nil
}

// Add places out at x, y. If out is already in the layout, it is
// moved.
func (layout *OutputLayout) Add(out *Output, x, y int) error {
	return layout.add(out, x, y, false)
}

// AddAuto places out to the right of the outputs that are already in
// the layout, and keeps it there as the layout changes.
func (layout *OutputLayout) AddAuto(out *Output) error {
	return layout.add(out, 0, 0, true)
}

func (layout *OutputLayout) add(out *Output, x, y int, auto bool) error {
	if layout.destroyed {
		return fmt.Errorf("add %v to layout: layout destroyed", out.Name())
	}
	if out.destroyed {
		return fmt.Errorf("add %v to layout: output destroyed", out.Name())
	}

	_, e := layout.find(out)
	if e == nil {
		e = &layoutEntry{OutputLayoutOutput: OutputLayoutOutput{Output: out}}
		change := func(*Output) { layout.reconfigure() }
		e.listeners = []Remover{
			out.Events.Destroy.Add(func(*Output) { layout.Remove(out) }),
			out.Events.Mode.Add(change),
			out.Events.Scale.Add(change),
			out.Events.Transform.Add(change),
		}
		layout.entries = append(layout.entries, e)
		defer layout.Events.Add.Emit(&e.OutputLayoutOutput)
	}
	e.X, e.Y, e.Auto = x, y, auto

	layout.reconfigure()
	return nil
}

func (layout *OutputLayout) reconfigure() {
	maxX := 0
	for _, e := range layout.entries {
		if e.Auto {
			continue
		}
		maxX = max(maxX, e.Box().Max.X)
	}
	for _, e := range layout.entries {
		if !e.Auto {
			continue
		}
		e.X, e.Y = maxX, 0
		maxX = e.Box().Max.X
	}

	layout.Events.Change.Emit(layout)
}

// Remove removes out from the layout. It does nothing if out isn't in
// the layout.
func (layout *OutputLayout) Remove(out *Output) {
	i, e := layout.find(out)
	if e == nil {
		return
	}

	for _, lis := range e.listeners {
		lis.Remove()
	}
	layout.entries = append(layout.entries[:i], layout.entries[i+1:]...)
	layout.reconfigure()
}

// Get returns the position of out in the layout.
func (layout *OutputLayout) Get(out *Output) (OutputLayoutOutput, bool) {
	_, e := layout.find(out)
	if e == nil {
		return OutputLayoutOutput{}, false
	}
	return e.OutputLayoutOutput, true
}

// Outputs returns every output in the layout, in the order they were
// added.
func (layout *OutputLayout) Outputs() []OutputLayoutOutput {
	outputs := make([]OutputLayoutOutput, 0, len(layout.entries))
	for _, e := range layout.entries {
		outputs = append(outputs, e.OutputLayoutOutput)
	}
	return outputs
}

// OutputAt returns the output under the layout coordinates x, y, or
// nil if there is none.
func (layout *OutputLayout) OutputAt(x, y float64) *Output {
	p := image.Pt(int(x), int(y))
	for _, e := range layout.entries {
		if p.In(e.Box()) {
			return e.Output
		}
	}
	return nil
}

// ClosestPoint returns the point on any output in the layout that is
// closest to x, y. It returns false if the layout has no outputs.
func (layout *OutputLayout) ClosestPoint(x, y float64) (cx, cy float64, ok bool) {
	best := math.Inf(1)
	for _, e := range layout.entries {
		box := e.Box()
		if box.Empty() {
			continue
		}

		px := min(max(x, float64(box.Min.X)), float64(box.Max.X-1))
		py := min(max(y, float64(box.Min.Y)), float64(box.Max.Y-1))
		dist := (px-x)*(px-x) + (py-y)*(py-y)
		if dist < best {
			best = dist
			cx, cy, ok = px, py, true
		}
	}
	return cx, cy, ok
}

// Box returns the area covered by out, or by the whole layout if out
// is nil.
func (layout *OutputLayout) Box(out *Output) image.Rectangle {
	if out != nil {
		_, e := layout.find(out)
		if e == nil {
			return image.Rectangle{}
		}
		return e.Box()
	}

	var box image.Rectangle
	for _, e := range layout.entries {
		box = box.Union(e.Box())
	}
	return box
}

// Destroy removes every output from the layout and destroys it.
func (layout *OutputLayout) Destroy() {
	if layout.destroyed {
		return
	}
	layout.destroyed = true

	layout.Events.Destroy.Emit(layout)

	for _, e := range layout.entries {
		for _, lis := range e.listeners {
			lis.Remove()
		}
	}
	layout.entries = nil
}
