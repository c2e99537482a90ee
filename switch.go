package wlr

import (
	"time"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
)

type (
	SwitchType  = native.SwitchType
	SwitchState = native.SwitchState
)

const (
	SwitchTypeLid        = native.SwitchTypeLid
	SwitchTypeTabletMode = native.SwitchTypeTabletMode

	SwitchStateOff    = native.SwitchStateOff
	SwitchStateOn     = native.SwitchStateOn
	SwitchStateToggle = native.SwitchStateToggle
)

type SwitchHandle = handle.Handle[*native.Switch, DeviceInfo, *Switch]

var switchKind = &handle.Kind[*native.Switch, DeviceInfo, *Switch]{
	Name: "switch",
	Wrap: func(ptr *native.Switch, info DeviceInfo) *Switch {
		return &Switch{res: handle.Borrow(ptr), info: info}
	},
}

// Switch is the switch part of an input device, such as a laptop lid
// or a convertible's tablet mode switch.
type Switch struct {
	res  handle.Resource[*native.Switch]
	info DeviceInfo
}

func (sw *Switch) Info() DeviceInfo { return sw.info }

// On reports whether the switch of type t is currently on.
func (sw *Switch) On(t SwitchType) bool { return sw.res.Ptr().On(t) }

type SwitchToggleEvent struct {
	ev *native.SwitchToggleEvent
}

func (ev *SwitchToggleEvent) Time() time.Duration { return msec(ev.ev.TimeMsec) }
func (ev *SwitchToggleEvent) Type() SwitchType    { return ev.ev.Type }
func (ev *SwitchToggleEvent) State() SwitchState  { return ev.ev.State }

type SwitchHandler interface {
	OnToggle(c CompositorHandle, sw SwitchHandle, ev *SwitchToggleEvent)
	OnDestroyed(c CompositorHandle, sw SwitchHandle)
}

type SwitchFuncs struct {
	Toggle    func(c CompositorHandle, sw SwitchHandle, ev *SwitchToggleEvent)
	Destroyed func(c CompositorHandle, sw SwitchHandle)
}

func (f SwitchFuncs) OnToggle(c CompositorHandle, sw SwitchHandle, ev *SwitchToggleEvent) {
	if f.Toggle != nil {
		f.Toggle(c, sw, ev)
	}
}

func (f SwitchFuncs) OnDestroyed(c CompositorHandle, sw SwitchHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, sw)
	}
}

func (m *inputManager) addSwitch(ptr *native.Switch, info DeviceInfo) {
	e := m.switches.add(ptr, info)
	sh := m.switches.handle(e)

	var handler SwitchHandler
	m.c.dispatch(func(ch CompositorHandle) {
		handler = m.handler.OnSwitchAdded(ch, sh)
	})
	if handler == nil {
		handler = SwitchFuncs{}
	}

	e.listen(
		ptr.Events.Toggle.Add(func(ev *native.SwitchToggleEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnToggle(ch, sh, &SwitchToggleEvent{ev: ev}) })
		}),
		ptr.Events.Destroy.Add(func(*native.Switch) {
			destroyed(m.c, m.switches, ptr, handler.OnDestroyed)
		}),
	)
}
