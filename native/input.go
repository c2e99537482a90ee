package native

import "fmt"

// InputDeviceType is the type of an input device.
type InputDeviceType int

const (
	InputDeviceKeyboard InputDeviceType = iota
	InputDevicePointer
	InputDeviceTouch
	InputDeviceTabletTool
	InputDeviceTabletPad
	InputDeviceSwitch
)

func (t InputDeviceType) String() string {
	switch t {
	case InputDeviceKeyboard:
		return "keyboard"
	case InputDevicePointer:
		return "pointer"
	case InputDeviceTouch:
		return "touch"
	case InputDeviceTabletTool:
		return "tablet tool"
	case InputDeviceTabletPad:
		return "tablet pad"
	case InputDeviceSwitch:
		return "switch"
	default:
		return fmt.Sprintf("InputDeviceType(%d)", int(t))
	}
}

// InputDevice is a generic input device. Depending on its type, one of
// Keyboard, Pointer, Touch, TabletTool, TabletPad, or Switch returns
// the type-specific part of it.
type InputDevice struct {
	Object
	Events struct {
		Destroy Signal[*InputDevice]
	}

	backend    *Backend
	typ        InputDeviceType
	name       string
	vendor     uint32
	product    uint32
	keyboard   *Keyboard
	pointer    *Pointer
	touch      *Touch
	tabletTool *TabletTool
	tabletPad  *TabletPad
	sw         *Switch
	destroyed  bool
}

func newInputDevice(b *Backend, t InputDeviceType, name string) *InputDevice {
	dev := InputDevice{
		Object:  newObject(),
		backend: b,
		typ:     t,
		name:    name,
	}

	switch t {
	case InputDeviceKeyboard:
		dev.keyboard = newKeyboard(&dev)
	case InputDevicePointer:
		dev.pointer = newPointer(&dev)
	case InputDeviceTouch:
		dev.touch = newTouch(&dev)
	case InputDeviceTabletTool:
		dev.tabletTool = newTabletTool(&dev)
	case InputDeviceTabletPad:
		dev.tabletPad = newTabletPad(&dev)
	case InputDeviceSwitch:
		dev.sw = newSwitch(&dev)
	}

	return &dev
}

func (dev *InputDevice) Type() InputDeviceType { return dev.typ }
func (dev *InputDevice) Name() string          { return dev.name }
func (dev *InputDevice) Vendor() uint32        { return dev.vendor }
func (dev *InputDevice) Product() uint32       { return dev.product }

// SetIDs sets the vendor and product IDs reported by the device.
func (dev *InputDevice) SetIDs(vendor, product uint32) {
	dev.vendor = vendor
	dev.product = product
}

// Keyboard returns the keyboard part of the device, or nil if the
// device is not a keyboard.
func (dev *InputDevice) Keyboard() *Keyboard { return dev.keyboard }

// Pointer returns the pointer part of the device, or nil if the device
// is not a pointer.
func (dev *InputDevice) Pointer() *Pointer { return dev.pointer }

// Touch returns the touch part of the device, or nil if the device is
// not a touch device.
func (dev *InputDevice) Touch() *Touch { return dev.touch }

// TabletTool returns the tablet tool part of the device, or nil if the
// device is not a tablet tool.
func (dev *InputDevice) TabletTool() *TabletTool { return dev.tabletTool }

// TabletPad returns the tablet pad part of the device, or nil if the
// device is not a tablet pad.
func (dev *InputDevice) TabletPad() *TabletPad { return dev.tabletPad }

// Switch returns the switch part of the device, or nil if the device
// is not a switch.
func (dev *InputDevice) Switch() *Switch { return dev.sw }

// Destroy simulates the device being unplugged. The type-specific
// part is destroyed first.
func (dev *InputDevice) Destroy() {
	if dev.destroyed {
		return
	}
	dev.destroyed = true

	switch {
	case dev.keyboard != nil:
		dev.keyboard.destroy()
	case dev.pointer != nil:
		dev.pointer.Events.Destroy.Emit(dev.pointer)
	case dev.touch != nil:
		dev.touch.Events.Destroy.Emit(dev.touch)
	case dev.tabletTool != nil:
		dev.tabletTool.Events.Destroy.Emit(dev.tabletTool)
	case dev.tabletPad != nil:
		dev.tabletPad.Events.Destroy.Emit(dev.tabletPad)
	case dev.sw != nil:
		dev.sw.Events.Destroy.Emit(dev.sw)
	}

	dev.Events.Destroy.Emit(dev)
	dev.backend.removeInput(dev)
}
