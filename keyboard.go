package wlr

import (
	"fmt"
	"os"
	"time"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/internal/log"
	"deedles.dev/wlr/native"
)

type (
	RuleNames = native.RuleNames
	Modifiers = native.Modifiers
	KeyState  = native.KeyState
)

const (
	KeyReleased = native.KeyReleased
	KeyPressed  = native.KeyPressed
)

// RuleNamesFromEnv builds keymap rule names from the XKB_DEFAULT_*
// environment variables. Unset variables are left empty, which selects
// the default for that part of the keymap.
func RuleNamesFromEnv() RuleNames {
	return RuleNames{
		Rules:   os.Getenv("XKB_DEFAULT_RULES"),
		Model:   os.Getenv("XKB_DEFAULT_MODEL"),
		Layout:  os.Getenv("XKB_DEFAULT_LAYOUT"),
		Variant: os.Getenv("XKB_DEFAULT_VARIANT"),
		Options: os.Getenv("XKB_DEFAULT_OPTIONS"),
	}
}

type KeyboardHandle = handle.Handle[*native.Keyboard, DeviceInfo, *Keyboard]

var keyboardKind = &handle.Kind[*native.Keyboard, DeviceInfo, *Keyboard]{
	Name: "keyboard",
	Wrap: func(ptr *native.Keyboard, info DeviceInfo) *Keyboard {
		return &Keyboard{res: handle.Borrow(ptr), info: info}
	},
}

// Keyboard is the keyboard part of an input device.
type Keyboard struct {
	res  handle.Resource[*native.Keyboard]
	info DeviceInfo
}

func (kb *Keyboard) Info() DeviceInfo { return kb.info }

// RuleNames returns the names that the current keymap was built from.
func (kb *Keyboard) RuleNames() (RuleNames, bool) {
	km := kb.res.Ptr().Keymap()
	if km == nil {
		return RuleNames{}, false
	}
	return km.Names, true
}

// SetKeymap compiles a keymap from names and sets it.
func (kb *Keyboard) SetKeymap(names RuleNames) error {
	km, err := native.NewKeymap(names)
	if err != nil {
		return fmt.Errorf("set keymap on %v: %w", kb.info.Name, err)
	}
	kb.res.Ptr().SetKeymap(km)
	return nil
}

// RepeatInfo returns the repeat rate in characters per second and the
// delay before repeating starts in milliseconds.
func (kb *Keyboard) RepeatInfo() (rate, delay int32) {
	return kb.res.Ptr().RepeatInfo()
}

func (kb *Keyboard) SetRepeatInfo(rate, delay int32) {
	kb.res.Ptr().SetRepeatInfo(rate, delay)
}

func (kb *Keyboard) Modifiers() Modifiers {
	return kb.res.Ptr().Modifiers()
}

// Keycodes returns the keys that are currently pressed.
func (kb *Keyboard) Keycodes() []uint32 {
	return kb.res.Ptr().Keycodes()
}

// KeyEvent is a key press or release. It is only valid during the
// handler call that it is passed to.
type KeyEvent struct {
	ev *native.KeyboardKeyEvent
}

func (ev *KeyEvent) Keycode() uint32 { return ev.ev.Keycode }
func (ev *KeyEvent) State() KeyState { return ev.ev.State }

// Time returns the timestamp of the event, which has an undefined
// base.
func (ev *KeyEvent) Time() time.Duration {
	return time.Duration(ev.ev.TimeMsec) * time.Millisecond
}

// UpdateState reports whether the keyboard's pressed keys were updated
// by the event.
func (ev *KeyEvent) UpdateState() bool { return ev.ev.UpdateState }

// KeyboardHandler is notified of a single keyboard's events.
type KeyboardHandler interface {
	OnKey(c CompositorHandle, kb KeyboardHandle, ev *KeyEvent)
	OnModifiers(c CompositorHandle, kb KeyboardHandle)
	OnKeymap(c CompositorHandle, kb KeyboardHandle)
	OnRepeatInfo(c CompositorHandle, kb KeyboardHandle)
	OnDestroyed(c CompositorHandle, kb KeyboardHandle)
}

type KeyboardFuncs struct {
	Key        func(c CompositorHandle, kb KeyboardHandle, ev *KeyEvent)
	Modifiers  func(c CompositorHandle, kb KeyboardHandle)
	Keymap     func(c CompositorHandle, kb KeyboardHandle)
	RepeatInfo func(c CompositorHandle, kb KeyboardHandle)
	Destroyed  func(c CompositorHandle, kb KeyboardHandle)
}

func (f KeyboardFuncs) OnKey(c CompositorHandle, kb KeyboardHandle, ev *KeyEvent) {
	if f.Key != nil {
		f.Key(c, kb, ev)
	}
}

func (f KeyboardFuncs) OnModifiers(c CompositorHandle, kb KeyboardHandle) {
	if f.Modifiers != nil {
		f.Modifiers(c, kb)
	}
}

func (f KeyboardFuncs) OnKeymap(c CompositorHandle, kb KeyboardHandle) {
	if f.Keymap != nil {
		f.Keymap(c, kb)
	}
}

func (f KeyboardFuncs) OnRepeatInfo(c CompositorHandle, kb KeyboardHandle) {
	if f.RepeatInfo != nil {
		f.RepeatInfo(c, kb)
	}
}

func (f KeyboardFuncs) OnDestroyed(c CompositorHandle, kb KeyboardHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, kb)
	}
}

func (m *inputManager) addKeyboard(ptr *native.Keyboard, info DeviceInfo) {
	e := m.keyboards.add(ptr, info)
	kh := m.keyboards.handle(e)

	km, err := native.NewKeymap(m.c.keymap)
	if err != nil {
		log.Error("failed to create keymap", "keyboard", info.Name, "err", err)
	} else {
		ptr.SetKeymap(km)
	}
	ptr.SetRepeatInfo(m.c.repeatRate, m.c.repeatDelay)

	var handler KeyboardHandler
	m.c.dispatch(func(ch CompositorHandle) {
		handler = m.handler.OnKeyboardAdded(ch, kh)
	})
	if handler == nil {
		handler = KeyboardFuncs{}
	}

	on := func(f func(CompositorHandle, KeyboardHandle)) func(*native.Keyboard) {
		return func(*native.Keyboard) {
			m.c.dispatch(func(ch CompositorHandle) { f(ch, kh) })
		}
	}

	e.listen(
		ptr.Events.Key.Add(func(ev *native.KeyboardKeyEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnKey(ch, kh, &KeyEvent{ev: ev}) })
		}),
		ptr.Events.Modifiers.Add(on(handler.OnModifiers)),
		ptr.Events.Keymap.Add(on(handler.OnKeymap)),
		ptr.Events.RepeatInfo.Add(on(handler.OnRepeatInfo)),
		ptr.Events.Destroy.Add(func(*native.Keyboard) {
			destroyed(m.c, m.keyboards, ptr, handler.OnDestroyed)
		}),
	)
}
