package wlr

import (
	"time"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
)

type (
	Button          = native.Button
	ButtonState     = native.ButtonState
	AxisOrientation = native.AxisOrientation
	AxisSource      = native.AxisSource
)

const (
	ButtonReleased = native.ButtonReleased
	ButtonPressed  = native.ButtonPressed
)

const (
	ButtonLeft    = native.ButtonLeft
	ButtonRight   = native.ButtonRight
	ButtonMiddle  = native.ButtonMiddle
	ButtonSide    = native.ButtonSide
	ButtonExtra   = native.ButtonExtra
	ButtonForward = native.ButtonForward
	ButtonBack    = native.ButtonBack
	ButtonTask    = native.ButtonTask
)

type PointerHandle = handle.Handle[*native.Pointer, DeviceInfo, *Pointer]

var pointerKind = &handle.Kind[*native.Pointer, DeviceInfo, *Pointer]{
	Name: "pointer",
	Wrap: func(ptr *native.Pointer, info DeviceInfo) *Pointer {
		return &Pointer{res: handle.Borrow(ptr), info: info}
	},
}

// Pointer is the pointer part of an input device.
type Pointer struct {
	res  handle.Resource[*native.Pointer]
	info DeviceInfo
}

func (p *Pointer) Info() DeviceInfo { return p.info }

func msec(t uint32) time.Duration {
	return time.Duration(t) * time.Millisecond
}

// MotionEvent is relative pointer motion.
type MotionEvent struct {
	ev *native.PointerMotionEvent
}

func (ev *MotionEvent) Time() time.Duration     { return msec(ev.ev.TimeMsec) }
func (ev *MotionEvent) Delta() (dx, dy float64) { return ev.ev.DeltaX, ev.ev.DeltaY }

// AbsoluteMotionEvent is pointer motion to a position normalized to
// [0, 1] on both axes.
type AbsoluteMotionEvent struct {
	ev *native.PointerMotionAbsoluteEvent
}

func (ev *AbsoluteMotionEvent) Time() time.Duration { return msec(ev.ev.TimeMsec) }
func (ev *AbsoluteMotionEvent) Pos() (x, y float64) { return ev.ev.X, ev.ev.Y }

// Transform maps the event's position into a box of the given size.
func (ev *AbsoluteMotionEvent) Transform(width, height float64) (x, y float64) {
	return ev.ev.X * width, ev.ev.Y * height
}

type ButtonEvent struct {
	ev *native.PointerButtonEvent
}

func (ev *ButtonEvent) Time() time.Duration { return msec(ev.ev.TimeMsec) }
func (ev *ButtonEvent) Button() Button      { return ev.ev.Button }
func (ev *ButtonEvent) State() ButtonState  { return ev.ev.State }

type AxisEvent struct {
	ev *native.PointerAxisEvent
}

func (ev *AxisEvent) Time() time.Duration          { return msec(ev.ev.TimeMsec) }
func (ev *AxisEvent) Source() AxisSource           { return ev.ev.Source }
func (ev *AxisEvent) Orientation() AxisOrientation { return ev.ev.Orientation }
func (ev *AxisEvent) Delta() float64               { return ev.ev.Delta }
func (ev *AxisEvent) DeltaDiscrete() int32         { return ev.ev.DeltaDiscrete }

// PointerHandler is notified of a single pointer's events.
type PointerHandler interface {
	OnMotion(c CompositorHandle, p PointerHandle, ev *MotionEvent)
	OnMotionAbsolute(c CompositorHandle, p PointerHandle, ev *AbsoluteMotionEvent)
	OnButton(c CompositorHandle, p PointerHandle, ev *ButtonEvent)
	OnAxis(c CompositorHandle, p PointerHandle, ev *AxisEvent)

	// OnFrame is called after a group of events that logically belong
	// together.
	OnFrame(c CompositorHandle, p PointerHandle)

	OnDestroyed(c CompositorHandle, p PointerHandle)
}

type PointerFuncs struct {
	Motion         func(c CompositorHandle, p PointerHandle, ev *MotionEvent)
	MotionAbsolute func(c CompositorHandle, p PointerHandle, ev *AbsoluteMotionEvent)
	Button         func(c CompositorHandle, p PointerHandle, ev *ButtonEvent)
	Axis           func(c CompositorHandle, p PointerHandle, ev *AxisEvent)
	Frame          func(c CompositorHandle, p PointerHandle)
	Destroyed      func(c CompositorHandle, p PointerHandle)
}

func (f PointerFuncs) OnMotion(c CompositorHandle, p PointerHandle, ev *MotionEvent) {
	if f.Motion != nil {
		f.Motion(c, p, ev)
	}
}

func (f PointerFuncs) OnMotionAbsolute(c CompositorHandle, p PointerHandle, ev *AbsoluteMotionEvent) {
	if f.MotionAbsolute != nil {
		f.MotionAbsolute(c, p, ev)
	}
}

func (f PointerFuncs) OnButton(c CompositorHandle, p PointerHandle, ev *ButtonEvent) {
	if f.Button != nil {
		f.Button(c, p, ev)
	}
}

func (f PointerFuncs) OnAxis(c CompositorHandle, p PointerHandle, ev *AxisEvent) {
	if f.Axis != nil {
		f.Axis(c, p, ev)
	}
}

func (f PointerFuncs) OnFrame(c CompositorHandle, p PointerHandle) {
	if f.Frame != nil {
		f.Frame(c, p)
	}
}

func (f PointerFuncs) OnDestroyed(c CompositorHandle, p PointerHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, p)
	}
}

func (m *inputManager) addPointer(ptr *native.Pointer, info DeviceInfo) {
	e := m.pointers.add(ptr, info)
	ph := m.pointers.handle(e)

	var handler PointerHandler
	m.c.dispatch(func(ch CompositorHandle) {
		handler = m.handler.OnPointerAdded(ch, ph)
	})
	if handler == nil {
		handler = PointerFuncs{}
	}

	e.listen(
		ptr.Events.Motion.Add(func(ev *native.PointerMotionEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnMotion(ch, ph, &MotionEvent{ev: ev}) })
		}),
		ptr.Events.MotionAbsolute.Add(func(ev *native.PointerMotionAbsoluteEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnMotionAbsolute(ch, ph, &AbsoluteMotionEvent{ev: ev}) })
		}),
		ptr.Events.Button.Add(func(ev *native.PointerButtonEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnButton(ch, ph, &ButtonEvent{ev: ev}) })
		}),
		ptr.Events.Axis.Add(func(ev *native.PointerAxisEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnAxis(ch, ph, &AxisEvent{ev: ev}) })
		}),
		ptr.Events.Frame.Add(func(*native.Pointer) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnFrame(ch, ph) })
		}),
		ptr.Events.Destroy.Add(func(*native.Pointer) {
			destroyed(m.c, m.pointers, ptr, handler.OnDestroyed)
		}),
	)
}
