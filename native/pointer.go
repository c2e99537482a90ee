package native

import "fmt"

// ButtonState is the state of a pointer button.
type ButtonState uint32

const (
	ButtonReleased ButtonState = iota
	ButtonPressed
)

func (s ButtonState) String() string {
	if s == ButtonPressed {
		return "pressed"
	}
	return "released"
}

// Button is a pointer button code. The values match
// linux/input-event-codes.h.
type Button uint32

const (
	ButtonLeft Button = 0x110 + iota
	ButtonRight
	ButtonMiddle
	ButtonSide
	ButtonExtra
	ButtonForward
	ButtonBack
	ButtonTask
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonSide:
		return "side"
	case ButtonExtra:
		return "extra"
	case ButtonForward:
		return "forward"
	case ButtonBack:
		return "back"
	case ButtonTask:
		return "task"
	default:
		return fmt.Sprintf("Button(%#x)", uint32(b))
	}
}

// AxisOrientation is the direction of a scroll event.
type AxisOrientation uint32

const (
	AxisVertical AxisOrientation = iota
	AxisHorizontal
)

// AxisSource is what generated a scroll event.
type AxisSource uint32

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
	AxisSourceWheelTilt
)

type PointerMotionEvent struct {
	TimeMsec       uint32
	DeltaX, DeltaY float64
}

// PointerMotionAbsoluteEvent has coordinates normalized to [0, 1].
type PointerMotionAbsoluteEvent struct {
	TimeMsec uint32
	X, Y     float64
}

type PointerButtonEvent struct {
	TimeMsec uint32
	Button   Button
	State    ButtonState
}

type PointerAxisEvent struct {
	TimeMsec      uint32
	Source        AxisSource
	Orientation   AxisOrientation
	Delta         float64
	DeltaDiscrete int32
}

// Pointer is the pointer part of an input device.
type Pointer struct {
	Object
	Events struct {
		Motion         Signal[*PointerMotionEvent]
		MotionAbsolute Signal[*PointerMotionAbsoluteEvent]
		Button         Signal[*PointerButtonEvent]
		Axis           Signal[*PointerAxisEvent]
		Frame          Signal[*Pointer]
		Destroy        Signal[*Pointer]
	}

	device *InputDevice
}

func newPointer(dev *InputDevice) *Pointer {
	return &Pointer{
		Object: newObject(),
		device: dev,
	}
}

func (p *Pointer) Device() *InputDevice { return p.device }

func (p *Pointer) NotifyMotion(ev PointerMotionEvent) {
	p.Events.Motion.Emit(&ev)
}

func (p *Pointer) NotifyMotionAbsolute(ev PointerMotionAbsoluteEvent) {
	p.Events.MotionAbsolute.Emit(&ev)
}

func (p *Pointer) NotifyButton(ev PointerButtonEvent) {
	p.Events.Button.Emit(&ev)
}

func (p *Pointer) NotifyAxis(ev PointerAxisEvent) {
	p.Events.Axis.Emit(&ev)
}

// NotifyFrame ends a group of pointer events that belong together.
func (p *Pointer) NotifyFrame() {
	p.Events.Frame.Emit(p)
}
