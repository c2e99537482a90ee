package wlr

import (
	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/internal/log"
	"deedles.dev/wlr/native"
)

type SeatCapability = native.SeatCapability

const (
	SeatCapabilityPointer  = native.SeatCapabilityPointer
	SeatCapabilityKeyboard = native.SeatCapabilityKeyboard
	SeatCapabilityTouch    = native.SeatCapabilityTouch
)

type SeatHandle = handle.Handle[*native.Seat, *Compositor, *Seat]

var seatKind = &handle.Kind[*native.Seat, *Compositor, *Seat]{
	Name: "seat",
	Wrap: func(ptr *native.Seat, c *Compositor) *Seat {
		return &Seat{res: handle.Borrow(ptr), c: c}
	},
}

// Seat groups the input devices used by a single user. Seats are
// created by the compositor and live until they are destroyed
// explicitly or the compositor is.
type Seat struct {
	res handle.Resource[*native.Seat]
	c   *Compositor
}

// NewSeat creates a seat called name. It fails if name is empty or the
// compositor has been destroyed.
func (c *Compositor) NewSeat(name string, handler SeatHandler) (SeatHandle, bool) {
	if c.destroyed {
		return SeatHandle{}, false
	}

	ptr := native.NewSeat(c.display, name)
	if ptr == nil {
		log.Error("failed to create seat", "name", name)
		return SeatHandle{}, false
	}
	if handler == nil {
		handler = SeatFuncs{}
	}

	e := c.seats.add(ptr, c)
	sh := c.seats.handle(e)

	focus := func(f func(CompositorHandle, SeatHandle, *FocusChangeEvent)) func(*native.FocusChangeEvent) {
		return func(ev *native.FocusChangeEvent) {
			c.dispatch(func(ch CompositorHandle) { f(ch, sh, &FocusChangeEvent{ev: ev, c: c}) })
		}
	}

	e.listen(
		ptr.Events.KeyboardFocusChange.Add(focus(handler.OnKeyboardFocusChange)),
		ptr.Events.PointerFocusChange.Add(focus(handler.OnPointerFocusChange)),
		ptr.Events.Destroy.Add(func(*native.Seat) {
			destroyed(c, c.seats, ptr, handler.OnDestroyed)
		}),
	)

	return sh, true
}

func (seat *Seat) Name() string { return seat.res.Ptr().Name() }

func (seat *Seat) Capabilities() SeatCapability { return seat.res.Ptr().Capabilities() }

func (seat *Seat) SetCapabilities(caps SeatCapability) {
	seat.res.Ptr().SetCapabilities(caps)
}

// Keyboard returns a handle to the seat's active keyboard.
func (seat *Seat) Keyboard() KeyboardHandle {
	return seat.c.inputs.keyboards.lookup(seat.res.Ptr().Keyboard())
}

// SetKeyboard makes kb the seat's active keyboard. A nil kb clears it.
func (seat *Seat) SetKeyboard(kb *Keyboard) {
	if kb == nil {
		seat.res.Ptr().SetKeyboard(nil)
		return
	}
	seat.res.Ptr().SetKeyboard(kb.res.Ptr())
}

// KeyboardFocus returns a handle to the surface with keyboard focus.
func (seat *Seat) KeyboardFocus() SurfaceHandle {
	return seat.c.surfaces.lookup(seat.res.Ptr().KeyboardFocus())
}

// SetKeyboardFocus gives s keyboard focus. A nil s clears the focus.
func (seat *Seat) SetKeyboardFocus(s *Surface) {
	if s == nil {
		seat.res.Ptr().SetKeyboardFocus(nil)
		return
	}
	seat.res.Ptr().SetKeyboardFocus(s.res.Ptr())
}

// PointerFocus returns a handle to the surface with pointer focus.
func (seat *Seat) PointerFocus() SurfaceHandle {
	return seat.c.surfaces.lookup(seat.res.Ptr().PointerFocus())
}

// SetPointerFocus gives s pointer focus with the pointer at sx, sy in
// surface-local coordinates. A nil s clears the focus.
func (seat *Seat) SetPointerFocus(s *Surface, sx, sy float64) {
	if s == nil {
		seat.res.Ptr().SetPointerFocus(nil, 0, 0)
		return
	}
	seat.res.Ptr().SetPointerFocus(s.res.Ptr(), sx, sy)
}

// Destroy destroys the seat.
func (seat *Seat) Destroy() {
	seat.res.Ptr().Destroy()
}

// FocusChangeEvent describes focus moving from one surface to
// another. Either may be the zero handle.
type FocusChangeEvent struct {
	ev *native.FocusChangeEvent
	c  *Compositor
}

func (ev *FocusChangeEvent) Old() SurfaceHandle { return ev.c.surfaces.lookup(ev.ev.Old) }
func (ev *FocusChangeEvent) New() SurfaceHandle { return ev.c.surfaces.lookup(ev.ev.New) }

// SeatHandler is notified of a single seat's events.
type SeatHandler interface {
	OnKeyboardFocusChange(c CompositorHandle, seat SeatHandle, ev *FocusChangeEvent)
	OnPointerFocusChange(c CompositorHandle, seat SeatHandle, ev *FocusChangeEvent)
	OnDestroyed(c CompositorHandle, seat SeatHandle)
}

type SeatFuncs struct {
	KeyboardFocusChange func(c CompositorHandle, seat SeatHandle, ev *FocusChangeEvent)
	PointerFocusChange  func(c CompositorHandle, seat SeatHandle, ev *FocusChangeEvent)
	Destroyed           func(c CompositorHandle, seat SeatHandle)
}

func (f SeatFuncs) OnKeyboardFocusChange(c CompositorHandle, seat SeatHandle, ev *FocusChangeEvent) {
	if f.KeyboardFocusChange != nil {
		f.KeyboardFocusChange(c, seat, ev)
	}
}

func (f SeatFuncs) OnPointerFocusChange(c CompositorHandle, seat SeatHandle, ev *FocusChangeEvent) {
	if f.PointerFocusChange != nil {
		f.PointerFocusChange(c, seat, ev)
	}
}

func (f SeatFuncs) OnDestroyed(c CompositorHandle, seat SeatHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, seat)
	}
}
