package wlr

import (
	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/internal/log"
	"deedles.dev/wlr/native"
)

type InputDeviceType = native.InputDeviceType

const (
	InputDeviceKeyboard   = native.InputDeviceKeyboard
	InputDevicePointer    = native.InputDevicePointer
	InputDeviceTouch      = native.InputDeviceTouch
	InputDeviceTabletTool = native.InputDeviceTabletTool
	InputDeviceTabletPad  = native.InputDeviceTabletPad
	InputDeviceSwitch     = native.InputDeviceSwitch
)

// DeviceInfo is what's known about an input device without asking the
// device itself. Handles cache it, so it is available even after the
// device has been unplugged.
type DeviceInfo struct {
	Type    InputDeviceType
	Name    string
	Vendor  uint32
	Product uint32
}

func deviceInfo(dev *native.InputDevice) DeviceInfo {
	return DeviceInfo{
		Type:    dev.Type(),
		Name:    dev.Name(),
		Vendor:  dev.Vendor(),
		Product: dev.Product(),
	}
}

type InputDeviceHandle = handle.Handle[*native.InputDevice, DeviceInfo, *InputDevice]

var inputDeviceKind = &handle.Kind[*native.InputDevice, DeviceInfo, *InputDevice]{
	Name: "input device",
	Wrap: func(ptr *native.InputDevice, info DeviceInfo) *InputDevice {
		return &InputDevice{res: handle.Borrow(ptr), info: info}
	},
}

// InputDevice is an input device of any type.
type InputDevice struct {
	res  handle.Resource[*native.InputDevice]
	info DeviceInfo
}

func (dev *InputDevice) Info() DeviceInfo      { return dev.info }
func (dev *InputDevice) Type() InputDeviceType { return dev.info.Type }
func (dev *InputDevice) Name() string          { return dev.info.Name }

// InputManagerHandler is notified when input devices come and go. The
// type-specific added methods may return a handler for that device's
// events.
type InputManagerHandler interface {
	OnInputAdded(c CompositorHandle, dev InputDeviceHandle)
	OnKeyboardAdded(c CompositorHandle, kb KeyboardHandle) KeyboardHandler
	OnPointerAdded(c CompositorHandle, p PointerHandle) PointerHandler
	OnTouchAdded(c CompositorHandle, t TouchHandle) TouchHandler
	OnTabletToolAdded(c CompositorHandle, t TabletToolHandle) TabletToolHandler
	OnTabletPadAdded(c CompositorHandle, p TabletPadHandle) TabletPadHandler
	OnSwitchAdded(c CompositorHandle, sw SwitchHandle) SwitchHandler

	// OnInputRemoved is called after the type-specific destroy
	// callback, just before the device is destroyed.
	OnInputRemoved(c CompositorHandle, dev InputDeviceHandle)
}

type InputManagerFuncs struct {
	InputAdded      func(c CompositorHandle, dev InputDeviceHandle)
	KeyboardAdded   func(c CompositorHandle, kb KeyboardHandle) KeyboardHandler
	PointerAdded    func(c CompositorHandle, p PointerHandle) PointerHandler
	TouchAdded      func(c CompositorHandle, t TouchHandle) TouchHandler
	TabletToolAdded func(c CompositorHandle, t TabletToolHandle) TabletToolHandler
	TabletPadAdded  func(c CompositorHandle, p TabletPadHandle) TabletPadHandler
	SwitchAdded     func(c CompositorHandle, sw SwitchHandle) SwitchHandler
	InputRemoved    func(c CompositorHandle, dev InputDeviceHandle)
}

func (f InputManagerFuncs) OnInputAdded(c CompositorHandle, dev InputDeviceHandle) {
	if f.InputAdded != nil {
		f.InputAdded(c, dev)
	}
}

func (f InputManagerFuncs) OnKeyboardAdded(c CompositorHandle, kb KeyboardHandle) KeyboardHandler {
	if f.KeyboardAdded == nil {
		return nil
	}
	return f.KeyboardAdded(c, kb)
}

func (f InputManagerFuncs) OnPointerAdded(c CompositorHandle, p PointerHandle) PointerHandler {
	if f.PointerAdded == nil {
		return nil
	}
	return f.PointerAdded(c, p)
}

func (f InputManagerFuncs) OnTouchAdded(c CompositorHandle, t TouchHandle) TouchHandler {
	if f.TouchAdded == nil {
		return nil
	}
	return f.TouchAdded(c, t)
}

func (f InputManagerFuncs) OnTabletToolAdded(c CompositorHandle, t TabletToolHandle) TabletToolHandler {
	if f.TabletToolAdded == nil {
		return nil
	}
	return f.TabletToolAdded(c, t)
}

func (f InputManagerFuncs) OnTabletPadAdded(c CompositorHandle, p TabletPadHandle) TabletPadHandler {
	if f.TabletPadAdded == nil {
		return nil
	}
	return f.TabletPadAdded(c, p)
}

func (f InputManagerFuncs) OnSwitchAdded(c CompositorHandle, sw SwitchHandle) SwitchHandler {
	if f.SwitchAdded == nil {
		return nil
	}
	return f.SwitchAdded(c, sw)
}

func (f InputManagerFuncs) OnInputRemoved(c CompositorHandle, dev InputDeviceHandle) {
	if f.InputRemoved != nil {
		f.InputRemoved(c, dev)
	}
}

type inputManager struct {
	c       *Compositor
	handler InputManagerHandler

	devices     *table[*native.InputDevice, DeviceInfo, *InputDevice]
	keyboards   *table[*native.Keyboard, DeviceInfo, *Keyboard]
	pointers    *table[*native.Pointer, DeviceInfo, *Pointer]
	touches     *table[*native.Touch, DeviceInfo, *Touch]
	tabletTools *table[*native.TabletTool, DeviceInfo, *TabletTool]
	tabletPads  *table[*native.TabletPad, DeviceInfo, *TabletPad]
	switches    *table[*native.Switch, DeviceInfo, *Switch]
}

func newInputManager(c *Compositor, handler InputManagerHandler) *inputManager {
	if handler == nil {
		handler = InputManagerFuncs{}
	}

	m := inputManager{
		c:           c,
		handler:     handler,
		devices:     newTable(inputDeviceKind),
		keyboards:   newTable(keyboardKind),
		pointers:    newTable(pointerKind),
		touches:     newTable(touchKind),
		tabletTools: newTable(tabletToolKind),
		tabletPads:  newTable(tabletPadKind),
		switches:    newTable(switchKind),
	}
	c.backend.Events.NewInput.Add(m.add)
	return &m
}

func (m *inputManager) add(ptr *native.InputDevice) {
	info := deviceInfo(ptr)
	e := m.devices.add(ptr, info)
	dh := m.devices.handle(e)

	e.listen(ptr.Events.Destroy.Add(func(*native.InputDevice) {
		destroyed(m.c, m.devices, ptr, m.handler.OnInputRemoved)
	}))

	m.c.dispatch(func(ch CompositorHandle) { m.handler.OnInputAdded(ch, dh) })
	if !dh.Alive() {
		return
	}

	switch {
	case ptr.Keyboard() != nil:
		m.addKeyboard(ptr.Keyboard(), info)
	case ptr.Pointer() != nil:
		m.addPointer(ptr.Pointer(), info)
	case ptr.Touch() != nil:
		m.addTouch(ptr.Touch(), info)
	case ptr.TabletTool() != nil:
		m.addTabletTool(ptr.TabletTool(), info)
	case ptr.TabletPad() != nil:
		m.addTabletPad(ptr.TabletPad(), info)
	case ptr.Switch() != nil:
		m.addSwitch(ptr.Switch(), info)
	default:
		log.Debug("unsupported input device", "name", info.Name, "type", info.Type)
	}
}

func (m *inputManager) clear() {
	m.keyboards.clear()
	m.pointers.clear()
	m.touches.clear()
	m.tabletTools.clear()
	m.tabletPads.clear()
	m.switches.clear()
	m.devices.clear()
}
