package native

import "strings"

// SeatCapability is a bitmask of the kinds of input a seat provides.
type SeatCapability uint32

const (
	SeatCapabilityPointer SeatCapability = 1 << iota
	SeatCapabilityKeyboard
	SeatCapabilityTouch
)

func (c SeatCapability) String() string {
	var caps []string
	if c&SeatCapabilityPointer != 0 {
		caps = append(caps, "pointer")
	}
	if c&SeatCapabilityKeyboard != 0 {
		caps = append(caps, "keyboard")
	}
	if c&SeatCapabilityTouch != 0 {
		caps = append(caps, "touch")
	}
	if len(caps) == 0 {
		return "none"
	}
	return strings.Join(caps, "|")
}

// FocusChangeEvent is the payload of a seat's focus change signals.
type FocusChangeEvent struct {
	Seat *Seat
	Old  *Surface
	New  *Surface
}

// Seat is a group of input devices used by one user. Seats are created
// by the compositor, not by the backend.
type Seat struct {
	Object
	Events struct {
		KeyboardFocusChange Signal[*FocusChangeEvent]
		PointerFocusChange  Signal[*FocusChangeEvent]
		Destroy             Signal[*Seat]
	}

	display  *Display
	name     string
	caps     SeatCapability
	keyboard *Keyboard

	keyboardFocus      *Surface
	keyboardFocusLis   Remover
	pointerFocus       *Surface
	pointerFocusLis    Remover
	pointerX, pointerY float64

	displayDestroy Remover
	destroyed      bool
}

// NewSeat creates a seat called name. It returns nil if name is empty
// or the display is being torn down.
func NewSeat(d *Display, name string) *Seat {
	if (name == "") || d.destroyed {
		return nil
	}

	seat := Seat{
		Object:  newObject(),
		display: d,
		name:    name,
	}
	seat.displayDestroy = d.Events.Destroy.Add(func(*Display) { seat.Destroy() })
	return &seat
}

func (seat *Seat) Name() string                        { return seat.name }
func (seat *Seat) Capabilities() SeatCapability        { return seat.caps }
func (seat *Seat) SetCapabilities(caps SeatCapability) { seat.caps = caps }
func (seat *Seat) Keyboard() *Keyboard                 { return seat.keyboard }
func (seat *Seat) KeyboardFocus() *Surface             { return seat.keyboardFocus }
func (seat *Seat) PointerFocus() *Surface              { return seat.pointerFocus }

// PointerPosition returns the surface-local position given when the
// pointer focus was last set.
func (seat *Seat) PointerPosition() (sx, sy float64) {
	return seat.pointerX, seat.pointerY
}

// SetKeyboard sets the keyboard whose state is sent to the focused
// client. A nil keyboard clears it.
func (seat *Seat) SetKeyboard(kb *Keyboard) {
	seat.keyboard = kb
}

// SetKeyboardFocus moves keyboard focus to s, which may be nil. If the
// focused surface is destroyed, focus is cleared automatically.
func (seat *Seat) SetKeyboardFocus(s *Surface) {
	if seat.keyboardFocus == s {
		return
	}

	old := seat.keyboardFocus
	if seat.keyboardFocusLis != nil {
		seat.keyboardFocusLis.Remove()
		seat.keyboardFocusLis = nil
	}
	seat.keyboardFocus = s
	if s != nil {
		seat.keyboardFocusLis = s.Events.Destroy.Add(func(*Surface) { seat.SetKeyboardFocus(nil) })
	}

	seat.Events.KeyboardFocusChange.Emit(&FocusChangeEvent{Seat: seat, Old: old, New: s})
}

// SetPointerFocus moves pointer focus to s at the surface-local
// position sx, sy.
func (seat *Seat) SetPointerFocus(s *Surface, sx, sy float64) {
	seat.pointerX, seat.pointerY = sx, sy
	if seat.pointerFocus == s {
		return
	}

	old := seat.pointerFocus
	if seat.pointerFocusLis != nil {
		seat.pointerFocusLis.Remove()
		seat.pointerFocusLis = nil
	}
	seat.pointerFocus = s
	if s != nil {
		seat.pointerFocusLis = s.Events.Destroy.Add(func(*Surface) { seat.SetPointerFocus(nil, 0, 0) })
	}

	seat.Events.PointerFocusChange.Emit(&FocusChangeEvent{Seat: seat, Old: old, New: s})
}

// Destroy destroys the seat.
func (seat *Seat) Destroy() {
	if seat.destroyed {
		return
	}
	seat.destroyed = true

	seat.Events.Destroy.Emit(seat)

	if seat.keyboardFocusLis != nil {
		seat.keyboardFocusLis.Remove()
	}
	if seat.pointerFocusLis != nil {
		seat.pointerFocusLis.Remove()
	}
	seat.displayDestroy.Remove()
	seat.keyboardFocus = nil
	seat.pointerFocus = nil
	seat.keyboard = nil
}
