package wlr

import (
	"time"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
)

type TouchHandle = handle.Handle[*native.Touch, DeviceInfo, *Touch]

var touchKind = &handle.Kind[*native.Touch, DeviceInfo, *Touch]{
	Name: "touch",
	Wrap: func(ptr *native.Touch, info DeviceInfo) *Touch {
		return &Touch{res: handle.Borrow(ptr), info: info}
	},
}

// Touch is the touch part of an input device.
type Touch struct {
	res  handle.Resource[*native.Touch]
	info DeviceInfo
}

func (t *Touch) Info() DeviceInfo { return t.info }

// Points returns the number of touch points currently down.
func (t *Touch) Points() int { return t.res.Ptr().Points() }

type TouchDownEvent struct {
	ev *native.TouchDownEvent
}

func (ev *TouchDownEvent) Time() time.Duration { return msec(ev.ev.TimeMsec) }
func (ev *TouchDownEvent) TouchID() int32      { return ev.ev.TouchID }
func (ev *TouchDownEvent) Pos() (x, y float64) { return ev.ev.X, ev.ev.Y }

type TouchUpEvent struct {
	ev *native.TouchUpEvent
}

func (ev *TouchUpEvent) Time() time.Duration { return msec(ev.ev.TimeMsec) }
func (ev *TouchUpEvent) TouchID() int32      { return ev.ev.TouchID }

type TouchMotionEvent struct {
	ev *native.TouchMotionEvent
}

func (ev *TouchMotionEvent) Time() time.Duration { return msec(ev.ev.TimeMsec) }
func (ev *TouchMotionEvent) TouchID() int32      { return ev.ev.TouchID }
func (ev *TouchMotionEvent) Pos() (x, y float64) { return ev.ev.X, ev.ev.Y }

type TouchCancelEvent struct {
	ev *native.TouchCancelEvent
}

func (ev *TouchCancelEvent) Time() time.Duration { return msec(ev.ev.TimeMsec) }
func (ev *TouchCancelEvent) TouchID() int32      { return ev.ev.TouchID }

type TouchHandler interface {
	OnDown(c CompositorHandle, t TouchHandle, ev *TouchDownEvent)
	OnUp(c CompositorHandle, t TouchHandle, ev *TouchUpEvent)
	OnMotion(c CompositorHandle, t TouchHandle, ev *TouchMotionEvent)
	OnCancel(c CompositorHandle, t TouchHandle, ev *TouchCancelEvent)
	OnDestroyed(c CompositorHandle, t TouchHandle)
}

type TouchFuncs struct {
	Down      func(c CompositorHandle, t TouchHandle, ev *TouchDownEvent)
	Up        func(c CompositorHandle, t TouchHandle, ev *TouchUpEvent)
	Motion    func(c CompositorHandle, t TouchHandle, ev *TouchMotionEvent)
	Cancel    func(c CompositorHandle, t TouchHandle, ev *TouchCancelEvent)
	Destroyed func(c CompositorHandle, t TouchHandle)
}

func (f TouchFuncs) OnDown(c CompositorHandle, t TouchHandle, ev *TouchDownEvent) {
	if f.Down != nil {
		f.Down(c, t, ev)
	}
}

func (f TouchFuncs) OnUp(c CompositorHandle, t TouchHandle, ev *TouchUpEvent) {
	if f.Up != nil {
		f.Up(c, t, ev)
	}
}

func (f TouchFuncs) OnMotion(c CompositorHandle, t TouchHandle, ev *TouchMotionEvent) {
	if f.Motion != nil {
		f.Motion(c, t, ev)
	}
}

func (f TouchFuncs) OnCancel(c CompositorHandle, t TouchHandle, ev *TouchCancelEvent) {
	if f.Cancel != nil {
		f.Cancel(c, t, ev)
	}
}

func (f TouchFuncs) OnDestroyed(c CompositorHandle, t TouchHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, t)
	}
}

func (m *inputManager) addTouch(ptr *native.Touch, info DeviceInfo) {
	e := m.touches.add(ptr, info)
	th := m.touches.handle(e)

	var handler TouchHandler
	m.c.dispatch(func(ch CompositorHandle) {
		handler = m.handler.OnTouchAdded(ch, th)
	})
	if handler == nil {
		handler = TouchFuncs{}
	}

	e.listen(
		ptr.Events.Down.Add(func(ev *native.TouchDownEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnDown(ch, th, &TouchDownEvent{ev: ev}) })
		}),
		ptr.Events.Up.Add(func(ev *native.TouchUpEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnUp(ch, th, &TouchUpEvent{ev: ev}) })
		}),
		ptr.Events.Motion.Add(func(ev *native.TouchMotionEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnMotion(ch, th, &TouchMotionEvent{ev: ev}) })
		}),
		ptr.Events.Cancel.Add(func(ev *native.TouchCancelEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnCancel(ch, th, &TouchCancelEvent{ev: ev}) })
		}),
		ptr.Events.Destroy.Add(func(*native.Touch) {
			destroyed(m.c, m.touches, ptr, handler.OnDestroyed)
		}),
	)
}
