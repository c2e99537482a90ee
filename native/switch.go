package native

// SwitchType is the kind of physical switch that a switch device is.
type SwitchType uint32

const (
	SwitchTypeLid SwitchType = 1 + iota
	SwitchTypeTabletMode
)

func (t SwitchType) String() string {
	switch t {
	case SwitchTypeLid:
		return "lid"
	case SwitchTypeTabletMode:
		return "tablet mode"
	default:
		return "unknown"
	}
}

type SwitchState uint32

const (
	SwitchStateOff SwitchState = iota
	SwitchStateOn
	SwitchStateToggle
)

func (s SwitchState) String() string {
	switch s {
	case SwitchStateOff:
		return "off"
	case SwitchStateOn:
		return "on"
	case SwitchStateToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

type SwitchToggleEvent struct {
	TimeMsec uint32
	Type     SwitchType
	State    SwitchState
}

// Switch is the switch part of an input device, such as a laptop lid.
type Switch struct {
	Object
	Events struct {
		Toggle  Signal[*SwitchToggleEvent]
		Destroy Signal[*Switch]
	}

	device *InputDevice
	states map[SwitchType]bool
}

func newSwitch(dev *InputDevice) *Switch {
	return &Switch{
		Object: newObject(),
		device: dev,
		states: make(map[SwitchType]bool),
	}
}

func (sw *Switch) Device() *InputDevice { return sw.device }

// On reports whether the switch of type t is on.
func (sw *Switch) On(t SwitchType) bool { return sw.states[t] }

// NotifyToggle changes the state of a switch. SwitchStateToggle flips
// it. The event is emitted as given.
func (sw *Switch) NotifyToggle(ev SwitchToggleEvent) {
	switch ev.State {
	case SwitchStateOff:
		sw.states[ev.Type] = false
	case SwitchStateOn:
		sw.states[ev.Type] = true
	case SwitchStateToggle:
		sw.states[ev.Type] = !sw.states[ev.Type]
	}
	sw.Events.Toggle.Emit(&ev)
}
