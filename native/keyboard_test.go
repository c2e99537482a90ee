package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeymap(t *testing.T) {
	km, err := NewKeymap(RuleNames{Layout: "de", Variant: "nodeadkeys"})
	require.NoError(t, err)
	defer km.Close()

	text, err := km.Text()
	require.NoError(t, err)
	assert.Contains(t, text, `include "pc+de(nodeadkeys)"`)
	assert.Equal(t, len(text), km.Size())

	_, err = km.File().Write([]byte("x"))
	assert.Error(t, err, "keymap file is writable after sealing")
}

func TestKeyboardPressed(t *testing.T) {
	b := newTestBackend(t)
	kb := b.AddInputDevice(InputDeviceKeyboard, "kbd").Keyboard()
	require.NotNil(t, kb)

	var keys []uint32
	kb.Events.Key.Add(func(ev *KeyboardKeyEvent) { keys = append(keys, ev.Keycode) })

	kb.NotifyKey(KeyboardKeyEvent{Keycode: 30, State: KeyPressed, UpdateState: true})
	kb.NotifyKey(KeyboardKeyEvent{Keycode: 31, State: KeyPressed, UpdateState: true})
	kb.NotifyKey(KeyboardKeyEvent{Keycode: 30, State: KeyReleased, UpdateState: true})

	assert.Equal(t, []uint32{30, 31, 30}, keys)
	assert.Equal(t, []uint32{31}, kb.Keycodes())
}

func TestInputDeviceDestroyOrder(t *testing.T) {
	tests := []struct {
		typ    InputDeviceType
		listen func(dev *InputDevice, f func())
	}{
		{InputDevicePointer, func(dev *InputDevice, f func()) { dev.Pointer().Events.Destroy.Add(func(*Pointer) { f() }) }},
		{InputDeviceTabletTool, func(dev *InputDevice, f func()) { dev.TabletTool().Events.Destroy.Add(func(*TabletTool) { f() }) }},
		{InputDeviceTabletPad, func(dev *InputDevice, f func()) { dev.TabletPad().Events.Destroy.Add(func(*TabletPad) { f() }) }},
		{InputDeviceSwitch, func(dev *InputDevice, f func()) { dev.Switch().Events.Destroy.Add(func(*Switch) { f() }) }},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			b := newTestBackend(t)
			dev := b.AddInputDevice(tt.typ, "dev")

			var order []string
			tt.listen(dev, func() { order = append(order, "part") })
			dev.Events.Destroy.Add(func(*InputDevice) { order = append(order, "device") })

			dev.Destroy()
			dev.Destroy()
			assert.Equal(t, []string{"part", "device"}, order)
			assert.Empty(t, b.Inputs())
		})
	}
}

func TestTabletToolState(t *testing.T) {
	b := newTestBackend(t)
	tool := b.AddInputDevice(InputDeviceTabletTool, "pen").TabletTool()
	require.NotNil(t, tool)

	tool.NotifyProximity(TabletToolProximityEvent{State: TabletToolProximityIn})
	tool.NotifyTip(TabletToolTipEvent{State: TabletToolTipDown})
	assert.True(t, tool.InProximity())
	assert.True(t, tool.TipDown())

	tool.NotifyProximity(TabletToolProximityEvent{State: TabletToolProximityOut})
	assert.False(t, tool.InProximity())
	assert.False(t, tool.TipDown(), "tip still down after leaving proximity")
}
