package wlr

import (
	"time"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
)

type (
	TabletToolAxis           = native.TabletToolAxis
	TabletToolProximityState = native.TabletToolProximityState
	TabletToolTipState       = native.TabletToolTipState
	TabletPadRingSource      = native.TabletPadRingSource
	TabletPadStripSource     = native.TabletPadStripSource
)

const (
	TabletToolAxisX        = native.TabletToolAxisX
	TabletToolAxisY        = native.TabletToolAxisY
	TabletToolAxisDistance = native.TabletToolAxisDistance
	TabletToolAxisPressure = native.TabletToolAxisPressure
	TabletToolAxisTiltX    = native.TabletToolAxisTiltX
	TabletToolAxisTiltY    = native.TabletToolAxisTiltY
	TabletToolAxisRotation = native.TabletToolAxisRotation
	TabletToolAxisSlider   = native.TabletToolAxisSlider
	TabletToolAxisWheel    = native.TabletToolAxisWheel

	TabletToolProximityOut = native.TabletToolProximityOut
	TabletToolProximityIn  = native.TabletToolProximityIn

	TabletToolTipUp   = native.TabletToolTipUp
	TabletToolTipDown = native.TabletToolTipDown
)

type TabletToolHandle = handle.Handle[*native.TabletTool, DeviceInfo, *TabletTool]

var tabletToolKind = &handle.Kind[*native.TabletTool, DeviceInfo, *TabletTool]{
	Name: "tablet tool",
	Wrap: func(ptr *native.TabletTool, info DeviceInfo) *TabletTool {
		return &TabletTool{res: handle.Borrow(ptr), info: info}
	},
}

// TabletTool is the tablet tool part of an input device.
type TabletTool struct {
	res  handle.Resource[*native.TabletTool]
	info DeviceInfo
}

func (t *TabletTool) Info() DeviceInfo  { return t.info }
func (t *TabletTool) InProximity() bool { return t.res.Ptr().InProximity() }
func (t *TabletTool) TipDown() bool     { return t.res.Ptr().TipDown() }

type TabletToolAxisEvent struct {
	ev *native.TabletToolAxisEvent
}

func (ev *TabletToolAxisEvent) Time() time.Duration     { return msec(ev.ev.TimeMsec) }
func (ev *TabletToolAxisEvent) Updated() TabletToolAxis { return ev.ev.Updated }

// Has reports whether all of the axes in a were updated by the event.
func (ev *TabletToolAxisEvent) Has(a TabletToolAxis) bool { return ev.ev.Updated&a == a }

func (ev *TabletToolAxisEvent) Pos() (x, y float64)  { return ev.ev.X, ev.ev.Y }
func (ev *TabletToolAxisEvent) Pressure() float64    { return ev.ev.Pressure }
func (ev *TabletToolAxisEvent) Distance() float64    { return ev.ev.Distance }
func (ev *TabletToolAxisEvent) Tilt() (x, y float64) { return ev.ev.TiltX, ev.ev.TiltY }
func (ev *TabletToolAxisEvent) Rotation() float64    { return ev.ev.Rotation }
func (ev *TabletToolAxisEvent) Slider() float64      { return ev.ev.Slider }
func (ev *TabletToolAxisEvent) WheelDelta() float64  { return ev.ev.WheelDelta }

type TabletToolProximityEvent struct {
	ev *native.TabletToolProximityEvent
}

func (ev *TabletToolProximityEvent) Time() time.Duration             { return msec(ev.ev.TimeMsec) }
func (ev *TabletToolProximityEvent) Pos() (x, y float64)             { return ev.ev.X, ev.ev.Y }
func (ev *TabletToolProximityEvent) State() TabletToolProximityState { return ev.ev.State }

type TabletToolTipEvent struct {
	ev *native.TabletToolTipEvent
}

func (ev *TabletToolTipEvent) Time() time.Duration       { return msec(ev.ev.TimeMsec) }
func (ev *TabletToolTipEvent) Pos() (x, y float64)       { return ev.ev.X, ev.ev.Y }
func (ev *TabletToolTipEvent) State() TabletToolTipState { return ev.ev.State }

type TabletToolButtonEvent struct {
	ev *native.TabletToolButtonEvent
}

func (ev *TabletToolButtonEvent) Time() time.Duration { return msec(ev.ev.TimeMsec) }
func (ev *TabletToolButtonEvent) Button() uint32      { return ev.ev.Button }
func (ev *TabletToolButtonEvent) State() ButtonState  { return ev.ev.State }

type TabletToolHandler interface {
	OnAxis(c CompositorHandle, t TabletToolHandle, ev *TabletToolAxisEvent)
	OnProximity(c CompositorHandle, t TabletToolHandle, ev *TabletToolProximityEvent)
	OnTip(c CompositorHandle, t TabletToolHandle, ev *TabletToolTipEvent)
	OnButton(c CompositorHandle, t TabletToolHandle, ev *TabletToolButtonEvent)
	OnDestroyed(c CompositorHandle, t TabletToolHandle)
}

type TabletToolFuncs struct {
	Axis      func(c CompositorHandle, t TabletToolHandle, ev *TabletToolAxisEvent)
	Proximity func(c CompositorHandle, t TabletToolHandle, ev *TabletToolProximityEvent)
	Tip       func(c CompositorHandle, t TabletToolHandle, ev *TabletToolTipEvent)
	Button    func(c CompositorHandle, t TabletToolHandle, ev *TabletToolButtonEvent)
	Destroyed func(c CompositorHandle, t TabletToolHandle)
}

func (f TabletToolFuncs) OnAxis(c CompositorHandle, t TabletToolHandle, ev *TabletToolAxisEvent) {
	if f.Axis != nil {
		f.Axis(c, t, ev)
	}
}

func (f TabletToolFuncs) OnProximity(c CompositorHandle, t TabletToolHandle, ev *TabletToolProximityEvent) {
	if f.Proximity != nil {
		f.Proximity(c, t, ev)
	}
}

func (f TabletToolFuncs) OnTip(c CompositorHandle, t TabletToolHandle, ev *TabletToolTipEvent) {
	if f.Tip != nil {
		f.Tip(c, t, ev)
	}
}

func (f TabletToolFuncs) OnButton(c CompositorHandle, t TabletToolHandle, ev *TabletToolButtonEvent) {
	if f.Button != nil {
		f.Button(c, t, ev)
	}
}

func (f TabletToolFuncs) OnDestroyed(c CompositorHandle, t TabletToolHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, t)
	}
}

func (m *inputManager) addTabletTool(ptr *native.TabletTool, info DeviceInfo) {
	e := m.tabletTools.add(ptr, info)
	th := m.tabletTools.handle(e)

	var handler TabletToolHandler
	m.c.dispatch(func(ch CompositorHandle) {
		handler = m.handler.OnTabletToolAdded(ch, th)
	})
	if handler == nil {
		handler = TabletToolFuncs{}
	}

	e.listen(
		ptr.Events.Axis.Add(func(ev *native.TabletToolAxisEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnAxis(ch, th, &TabletToolAxisEvent{ev: ev}) })
		}),
		ptr.Events.Proximity.Add(func(ev *native.TabletToolProximityEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnProximity(ch, th, &TabletToolProximityEvent{ev: ev}) })
		}),
		ptr.Events.Tip.Add(func(ev *native.TabletToolTipEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnTip(ch, th, &TabletToolTipEvent{ev: ev}) })
		}),
		ptr.Events.Button.Add(func(ev *native.TabletToolButtonEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnButton(ch, th, &TabletToolButtonEvent{ev: ev}) })
		}),
		ptr.Events.Destroy.Add(func(*native.TabletTool) {
			destroyed(m.c, m.tabletTools, ptr, handler.OnDestroyed)
		}),
	)
}

type TabletPadHandle = handle.Handle[*native.TabletPad, DeviceInfo, *TabletPad]

var tabletPadKind = &handle.Kind[*native.TabletPad, DeviceInfo, *TabletPad]{
	Name: "tablet pad",
	Wrap: func(ptr *native.TabletPad, info DeviceInfo) *TabletPad {
		return &TabletPad{res: handle.Borrow(ptr), info: info}
	},
}

// TabletPad is the button pad part of a tablet.
type TabletPad struct {
	res  handle.Resource[*native.TabletPad]
	info DeviceInfo
}

func (p *TabletPad) Info() DeviceInfo { return p.info }
func (p *TabletPad) Buttons() int     { return p.res.Ptr().Buttons() }
func (p *TabletPad) Rings() int       { return p.res.Ptr().Rings() }
func (p *TabletPad) Strips() int      { return p.res.Ptr().Strips() }

type TabletPadButtonEvent struct {
	ev *native.TabletPadButtonEvent
}

func (ev *TabletPadButtonEvent) Time() time.Duration { return msec(ev.ev.TimeMsec) }
func (ev *TabletPadButtonEvent) Button() uint32      { return ev.ev.Button }
func (ev *TabletPadButtonEvent) State() ButtonState  { return ev.ev.State }
func (ev *TabletPadButtonEvent) Mode() uint32        { return ev.ev.Mode }

type TabletPadRingEvent struct {
	ev *native.TabletPadRingEvent
}

func (ev *TabletPadRingEvent) Time() time.Duration         { return msec(ev.ev.TimeMsec) }
func (ev *TabletPadRingEvent) Source() TabletPadRingSource { return ev.ev.Source }
func (ev *TabletPadRingEvent) Ring() uint32                { return ev.ev.Ring }
func (ev *TabletPadRingEvent) Position() float64           { return ev.ev.Position }
func (ev *TabletPadRingEvent) Mode() uint32                { return ev.ev.Mode }

type TabletPadStripEvent struct {
	ev *native.TabletPadStripEvent
}

func (ev *TabletPadStripEvent) Time() time.Duration          { return msec(ev.ev.TimeMsec) }
func (ev *TabletPadStripEvent) Source() TabletPadStripSource { return ev.ev.Source }
func (ev *TabletPadStripEvent) Strip() uint32                { return ev.ev.Strip }
func (ev *TabletPadStripEvent) Position() float64            { return ev.ev.Position }
func (ev *TabletPadStripEvent) Mode() uint32                 { return ev.ev.Mode }

type TabletPadHandler interface {
	OnButton(c CompositorHandle, p TabletPadHandle, ev *TabletPadButtonEvent)
	OnRing(c CompositorHandle, p TabletPadHandle, ev *TabletPadRingEvent)
	OnStrip(c CompositorHandle, p TabletPadHandle, ev *TabletPadStripEvent)
	OnDestroyed(c CompositorHandle, p TabletPadHandle)
}

type TabletPadFuncs struct {
	Button    func(c CompositorHandle, p TabletPadHandle, ev *TabletPadButtonEvent)
	Ring      func(c CompositorHandle, p TabletPadHandle, ev *TabletPadRingEvent)
	Strip     func(c CompositorHandle, p TabletPadHandle, ev *TabletPadStripEvent)
	Destroyed func(c CompositorHandle, p TabletPadHandle)
}

func (f TabletPadFuncs) OnButton(c CompositorHandle, p TabletPadHandle, ev *TabletPadButtonEvent) {
	if f.Button != nil {
		f.Button(c, p, ev)
	}
}

func (f TabletPadFuncs) OnRing(c CompositorHandle, p TabletPadHandle, ev *TabletPadRingEvent) {
	if f.Ring != nil {
		f.Ring(c, p, ev)
	}
}

func (f TabletPadFuncs) OnStrip(c CompositorHandle, p TabletPadHandle, ev *TabletPadStripEvent) {
	if f.Strip != nil {
		f.Strip(c, p, ev)
	}
}

func (f TabletPadFuncs) OnDestroyed(c CompositorHandle, p TabletPadHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, p)
	}
}

func (m *inputManager) addTabletPad(ptr *native.TabletPad, info DeviceInfo) {
	e := m.tabletPads.add(ptr, info)
	ph := m.tabletPads.handle(e)

	var handler TabletPadHandler
	m.c.dispatch(func(ch CompositorHandle) {
		handler = m.handler.OnTabletPadAdded(ch, ph)
	})
	if handler == nil {
		handler = TabletPadFuncs{}
	}

	e.listen(
		ptr.Events.Button.Add(func(ev *native.TabletPadButtonEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnButton(ch, ph, &TabletPadButtonEvent{ev: ev}) })
		}),
		ptr.Events.Ring.Add(func(ev *native.TabletPadRingEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnRing(ch, ph, &TabletPadRingEvent{ev: ev}) })
		}),
		ptr.Events.Strip.Add(func(ev *native.TabletPadStripEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnStrip(ch, ph, &TabletPadStripEvent{ev: ev}) })
		}),
		ptr.Events.Destroy.Add(func(*native.TabletPad) {
			destroyed(m.c, m.tabletPads, ptr, handler.OnDestroyed)
		}),
	)
}
