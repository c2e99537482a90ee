package native

// TabletToolAxis is a set of tablet tool axes.
type TabletToolAxis uint32

const (
	TabletToolAxisX TabletToolAxis = 1 << iota
	TabletToolAxisY
	TabletToolAxisDistance
	TabletToolAxisPressure
	TabletToolAxisTiltX
	TabletToolAxisTiltY
	TabletToolAxisRotation
	TabletToolAxisSlider
	TabletToolAxisWheel
)

type TabletToolProximityState uint32

const (
	TabletToolProximityOut TabletToolProximityState = iota
	TabletToolProximityIn
)

type TabletToolTipState uint32

const (
	TabletToolTipUp TabletToolTipState = iota
	TabletToolTipDown
)

// TabletToolAxisEvent reports the axes in Updated. X and Y are
// normalized to [0, 1].
type TabletToolAxisEvent struct {
	TimeMsec     uint32
	Updated      TabletToolAxis
	X, Y         float64
	Pressure     float64
	Distance     float64
	TiltX, TiltY float64
	Rotation     float64
	Slider       float64
	WheelDelta   float64
}

type TabletToolProximityEvent struct {
	TimeMsec uint32
	X, Y     float64
	State    TabletToolProximityState
}

type TabletToolTipEvent struct {
	TimeMsec uint32
	X, Y     float64
	State    TabletToolTipState
}

type TabletToolButtonEvent struct {
	TimeMsec uint32
	Button   uint32
	State    ButtonState
}

// TabletTool is the tablet tool part of an input device, such as a
// stylus.
type TabletTool struct {
	Object
	Events struct {
		Axis      Signal[*TabletToolAxisEvent]
		Proximity Signal[*TabletToolProximityEvent]
		Tip       Signal[*TabletToolTipEvent]
		Button    Signal[*TabletToolButtonEvent]
		Destroy   Signal[*TabletTool]
	}

	device    *InputDevice
	proximity bool
	tip       bool
}

func newTabletTool(dev *InputDevice) *TabletTool {
	return &TabletTool{
		Object: newObject(),
		device: dev,
	}
}

func (tool *TabletTool) Device() *InputDevice { return tool.device }

// InProximity reports whether the tool is close enough to the tablet
// to be tracked.
func (tool *TabletTool) InProximity() bool { return tool.proximity }

// TipDown reports whether the tool is touching the tablet.
func (tool *TabletTool) TipDown() bool { return tool.tip }

func (tool *TabletTool) NotifyAxis(ev TabletToolAxisEvent) {
	tool.Events.Axis.Emit(&ev)
}

func (tool *TabletTool) NotifyProximity(ev TabletToolProximityEvent) {
	tool.proximity = ev.State == TabletToolProximityIn
	if !tool.proximity {
		tool.tip = false
	}
	tool.Events.Proximity.Emit(&ev)
}

func (tool *TabletTool) NotifyTip(ev TabletToolTipEvent) {
	tool.tip = ev.State == TabletToolTipDown
	tool.Events.Tip.Emit(&ev)
}

func (tool *TabletTool) NotifyButton(ev TabletToolButtonEvent) {
	tool.Events.Button.Emit(&ev)
}

type TabletPadRingSource uint32

const (
	TabletPadRingSourceUnknown TabletPadRingSource = iota
	TabletPadRingSourceFinger
)

type TabletPadStripSource uint32

const (
	TabletPadStripSourceUnknown TabletPadStripSource = iota
	TabletPadStripSourceFinger
)

type TabletPadButtonEvent struct {
	TimeMsec uint32
	Button   uint32
	State    ButtonState
	Mode     uint32
}

// TabletPadRingEvent has Position in degrees, clockwise from the top,
// or -1 when the finger is lifted.
type TabletPadRingEvent struct {
	TimeMsec uint32
	Source   TabletPadRingSource
	Ring     uint32
	Position float64
	Mode     uint32
}

// TabletPadStripEvent has Position normalized to [0, 1], or -1 when
// the finger is lifted.
type TabletPadStripEvent struct {
	TimeMsec uint32
	Source   TabletPadStripSource
	Strip    uint32
	Position float64
	Mode     uint32
}

// TabletPad is the button pad part of a tablet.
type TabletPad struct {
	Object
	Events struct {
		Button  Signal[*TabletPadButtonEvent]
		Ring    Signal[*TabletPadRingEvent]
		Strip   Signal[*TabletPadStripEvent]
		Destroy Signal[*TabletPad]
	}

	device  *InputDevice
	buttons int
	rings   int
	strips  int
}

func newTabletPad(dev *InputDevice) *TabletPad {
	return &TabletPad{
		Object:  newObject(),
		device:  dev,
		buttons: 4,
		rings:   1,
		strips:  1,
	}
}

func (pad *TabletPad) Device() *InputDevice { return pad.device }
func (pad *TabletPad) Buttons() int         { return pad.buttons }
func (pad *TabletPad) Rings() int           { return pad.rings }
func (pad *TabletPad) Strips() int          { return pad.strips }

func (pad *TabletPad) NotifyButton(ev TabletPadButtonEvent) {
	pad.Events.Button.Emit(&ev)
}

func (pad *TabletPad) NotifyRing(ev TabletPadRingEvent) {
	pad.Events.Ring.Emit(&ev)
}

func (pad *TabletPad) NotifyStrip(ev TabletPadStripEvent) {
	pad.Events.Strip.Emit(&ev)
}
