package native

import (
	"fmt"
	"os"
	"strings"

	"deedles.dev/wlr/internal/shm"
	"golang.org/x/sys/unix"
)

// KeyState is the state of a key in a key event.
type KeyState uint32

const (
	KeyReleased KeyState = iota
	KeyPressed
)

func (s KeyState) String() string {
	if s == KeyPressed {
		return "pressed"
	}
	return "released"
}

// KeyboardKeyEvent is the payload of a keyboard's Key signal.
type KeyboardKeyEvent struct {
	TimeMsec    uint32
	Keycode     uint32
	UpdateState bool
	State       KeyState
}

// Modifiers is the serialized modifier state of a keyboard.
type Modifiers struct {
	Depressed, Latched, Locked, Group uint32
}

// RuleNames selects an XKB keymap.
type RuleNames struct {
	Rules   string
	Model   string
	Layout  string
	Variant string
	Options string
}

// Keymap is a compiled keymap shared with clients through a sealed
// memory file.
type Keymap struct {
	Names RuleNames

	file *os.File
	size int
}

// NewKeymap compiles names into a keymap.
func NewKeymap(names RuleNames) (*Keymap, error) {
	text := names.keymapText()

	file, err := shm.Create("wlr-keymap")
	if err != nil {
		return nil, fmt.Errorf("create keymap file: %w", err)
	}

	_, err = file.WriteString(text)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("write keymap: %w", err)
	}

	err = shm.Seal(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("seal keymap: %w", err)
	}

	return &Keymap{Names: names, file: file, size: len(text)}, nil
}

func (names RuleNames) keymapText() string {
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	var sb strings.Builder
	sb.WriteString("xkb_keymap {\n")
	fmt.Fprintf(&sb, "\txkb_keycodes { include \"%v\" };\n", orDefault(names.Rules, "evdev"))
	fmt.Fprintf(&sb, "\txkb_types { include \"complete\" };\n")
	fmt.Fprintf(&sb, "\txkb_compat { include \"complete\" };\n")
	fmt.Fprintf(&sb, "\txkb_symbols { include \"pc+%v", orDefault(names.Layout, "us"))
	if names.Variant != "" {
		fmt.Fprintf(&sb, "(%v)", names.Variant)
	}
	sb.WriteString("\" };\n")
	if names.Model != "" {
		fmt.Fprintf(&sb, "\t// model: %v\n", names.Model)
	}
	if names.Options != "" {
		fmt.Fprintf(&sb, "\t// options: %v\n", names.Options)
	}
	sb.WriteString("};\n")
	return sb.String()
}

// File returns the memory file holding the keymap text.
func (km *Keymap) File() *os.File { return km.file }

// Size returns the length of the keymap text.
func (km *Keymap) Size() int { return km.size }

// Text maps the keymap's file the same way that a client would and
// returns its contents.
func (km *Keymap) Text() (string, error) {
	mmap, err := shm.Map(km.file, km.size, unix.PROT_READ)
	if err != nil {
		return "", fmt.Errorf("map keymap: %w", err)
	}
	defer mmap.Unmap()

	return string(mmap), nil
}

func (km *Keymap) Close() error {
	return km.file.Close()
}

// Keyboard is the keyboard part of an input device.
type Keyboard struct {
	Object
	Events struct {
		Key        Signal[*KeyboardKeyEvent]
		Modifiers  Signal[*Keyboard]
		Keymap     Signal[*Keyboard]
		RepeatInfo Signal[*Keyboard]
		Destroy    Signal[*Keyboard]
	}

	device      *InputDevice
	keymap      *Keymap
	modifiers   Modifiers
	repeatRate  int32
	repeatDelay int32
	pressed     []uint32
}

func newKeyboard(dev *InputDevice) *Keyboard {
	return &Keyboard{
		Object: newObject(),
		device: dev,
	}
}

func (kb *Keyboard) Device() *InputDevice { return kb.device }
func (kb *Keyboard) Keymap() *Keymap      { return kb.keymap }
func (kb *Keyboard) Modifiers() Modifiers { return kb.modifiers }

// Keycodes returns the keys that are currently held down.
func (kb *Keyboard) Keycodes() []uint32 {
	return append([]uint32(nil), kb.pressed...)
}

func (kb *Keyboard) RepeatInfo() (rate, delay int32) {
	return kb.repeatRate, kb.repeatDelay
}

// SetKeymap replaces the keyboard's keymap. The keyboard takes
// ownership of km.
func (kb *Keyboard) SetKeymap(km *Keymap) {
	if kb.keymap != nil {
		kb.keymap.Close()
	}
	kb.keymap = km
	kb.Events.Keymap.Emit(kb)
}

func (kb *Keyboard) SetRepeatInfo(rate, delay int32) {
	if (kb.repeatRate == rate) && (kb.repeatDelay == delay) {
		return
	}
	kb.repeatRate = rate
	kb.repeatDelay = delay
	kb.Events.RepeatInfo.Emit(kb)
}

// NotifyKey simulates a key event.
func (kb *Keyboard) NotifyKey(ev KeyboardKeyEvent) {
	if ev.UpdateState {
		kb.updatePressed(ev.Keycode, ev.State)
	}
	kb.Events.Key.Emit(&ev)
}

func (kb *Keyboard) updatePressed(keycode uint32, state KeyState) {
	for i, k := range kb.pressed {
		if k == keycode {
			if state == KeyPressed {
				return
			}
			kb.pressed = append(kb.pressed[:i], kb.pressed[i+1:]...)
			return
		}
	}
	if state == KeyPressed {
		kb.pressed = append(kb.pressed, keycode)
	}
}

// NotifyModifiers simulates a modifier state change.
func (kb *Keyboard) NotifyModifiers(mods Modifiers) {
	if kb.modifiers == mods {
		return
	}
	kb.modifiers = mods
	kb.Events.Modifiers.Emit(kb)
}

func (kb *Keyboard) destroy() {
	kb.Events.Destroy.Emit(kb)
	if kb.keymap != nil {
		kb.keymap.Close()
		kb.keymap = nil
	}
}
