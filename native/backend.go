package native

import (
	"fmt"
	"time"

	"deedles.dev/wlr/internal/log"
)

// DefaultFrameRate is the rate at which a started backend emits frame
// events for its enabled outputs if no other rate is given.
const DefaultFrameRate = 60

// Backend is a headless backend. Outputs and input devices are added
// to it explicitly instead of being discovered from hardware.
type Backend struct {
	Object
	Events struct {
		NewOutput Signal[*Output]
		NewInput  Signal[*InputDevice]
		Destroy   Signal[*Backend]
	}

	display    *Display
	outputs    []*Output
	inputs     []*InputDevice
	numOutputs int
	started    bool
	stop       chan struct{}
	destroyed  bool
}

// NewHeadlessBackend creates a backend attached to the event loop of d.
func NewHeadlessBackend(d *Display) *Backend {
	return &Backend{
		Object:  newObject(),
		display: d,
	}
}

func (b *Backend) Display() *Display {
	return b.display
}

// AddOutput creates a new headless output with a single mode. If the
// backend has been started, the output is announced immediately.
// Otherwise it is announced by Start.
func (b *Backend) AddOutput(width, height int32) *Output {
	b.numOutputs++
	out := newOutput(b, fmt.Sprintf("HEADLESS-%d", b.numOutputs), width, height)
	b.outputs = append(b.outputs, out)
	if b.started {
		b.Events.NewOutput.Emit(out)
	}
	return out
}

// AddInputDevice creates a new input device of the given type. It is
// announced the same way as outputs are.
func (b *Backend) AddInputDevice(t InputDeviceType, name string) *InputDevice {
	dev := newInputDevice(b, t, name)
	b.inputs = append(b.inputs, dev)
	if b.started {
		b.Events.NewInput.Emit(dev)
	}
	return dev
}

// Outputs returns the outputs that currently exist.
func (b *Backend) Outputs() []*Output {
	return append([]*Output(nil), b.outputs...)
}

// Inputs returns the input devices that currently exist.
func (b *Backend) Inputs() []*InputDevice {
	return append([]*InputDevice(nil), b.inputs...)
}

// Start announces every existing output and input device and then
// begins emitting frame events fps times a second. If fps is zero or
// less, no frame events are generated and outputs only get frames
// when they are scheduled explicitly.
func (b *Backend) Start(fps int) error {
	if b.destroyed {
		return fmt.Errorf("start backend %v: destroyed", &b.Object)
	}
	if b.started {
		return nil
	}
	b.started = true

	for _, out := range b.Outputs() {
		b.Events.NewOutput.Emit(out)
	}
	for _, dev := range b.Inputs() {
		b.Events.NewInput.Emit(dev)
	}

	if fps > 0 {
		b.stop = make(chan struct{})
		go b.tick(time.Second/time.Duration(fps), b.stop)
	}

	log.Debug("backend started", "outputs", len(b.outputs), "inputs", len(b.inputs), "fps", fps)
	return nil
}

func (b *Backend) tick(interval time.Duration, stop chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			err := b.display.loop.Post(func() error {
				b.frame()
				return nil
			})
			if err != nil {
				return
			}
		}
	}
}

func (b *Backend) frame() {
	if b.destroyed {
		return
	}
	for _, out := range b.Outputs() {
		if out.enabled {
			out.Events.Frame.Emit(out)
		}
	}
}

func (b *Backend) removeOutput(out *Output) {
	for i, o := range b.outputs {
		if o == out {
			b.outputs = append(b.outputs[:i], b.outputs[i+1:]...)
			return
		}
	}
}

func (b *Backend) removeInput(dev *InputDevice) {
	for i, d := range b.inputs {
		if d == dev {
			b.inputs = append(b.inputs[:i], b.inputs[i+1:]...)
			return
		}
	}
}

// Destroy destroys every output and input device belonging to the
// backend and then the backend itself.
func (b *Backend) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true

	if b.stop != nil {
		close(b.stop)
	}

	for _, dev := range b.Inputs() {
		dev.Destroy()
	}
	for _, out := range b.Outputs() {
		out.Destroy()
	}

	b.Events.Destroy.Emit(b)
}
