package wlr_test

import (
	"testing"

	"deedles.dev/wlr"
	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deviceLog records what a test's input handlers saw. run borrows the
// most recently added device-specific handle.
type deviceLog struct {
	events []string
	run    func() error
}

func (l *deviceLog) add(ev string) { l.events = append(l.events, ev) }

func TestTabletAndSwitchLifecycle(t *testing.T) {
	tests := []struct {
		name      string
		typ       wlr.InputDeviceType
		input     func(t *testing.T, l *deviceLog) wlr.InputManagerFuncs
		notify    func(dev *native.InputDevice)
		listeners func(dev *native.InputDevice) int
		events    []string
	}{
		{
			name: "tablet tool",
			typ:  wlr.InputDeviceTabletTool,
			input: func(t *testing.T, l *deviceLog) wlr.InputManagerFuncs {
				return wlr.InputManagerFuncs{
					TabletToolAdded: func(_ wlr.CompositorHandle, th wlr.TabletToolHandle) wlr.TabletToolHandler {
						l.add("added " + th.Data().Name)
						l.run = func() error { return th.Run(func(*wlr.TabletTool) {}) }
						return wlr.TabletToolFuncs{
							Axis: func(_ wlr.CompositorHandle, _ wlr.TabletToolHandle, ev *wlr.TabletToolAxisEvent) {
								if ev.Has(wlr.TabletToolAxisPressure) {
									l.add("axis")
								}
							},
							Proximity: func(_ wlr.CompositorHandle, th wlr.TabletToolHandle, ev *wlr.TabletToolProximityEvent) {
								err := th.Run(func(tool *wlr.TabletTool) {
									if tool.InProximity() && ev.State() == wlr.TabletToolProximityIn {
										l.add("proximity")
									}
								})
								assert.NoError(t, err)
							},
							Tip: func(_ wlr.CompositorHandle, _ wlr.TabletToolHandle, ev *wlr.TabletToolTipEvent) {
								if ev.State() == wlr.TabletToolTipDown {
									l.add("tip")
								}
							},
							Button: func(_ wlr.CompositorHandle, _ wlr.TabletToolHandle, ev *wlr.TabletToolButtonEvent) {
								if ev.Button() == 0x14b && ev.State() == wlr.ButtonPressed {
									l.add("button")
								}
							},
							Destroyed: func(wlr.CompositorHandle, wlr.TabletToolHandle) {
								l.add("destroyed")
							},
						}
					},
				}
			},
			notify: func(dev *native.InputDevice) {
				tool := dev.TabletTool()
				tool.NotifyProximity(native.TabletToolProximityEvent{X: 0.5, Y: 0.5, State: native.TabletToolProximityIn})
				tool.NotifyTip(native.TabletToolTipEvent{X: 0.5, Y: 0.5, State: native.TabletToolTipDown})
				tool.NotifyAxis(native.TabletToolAxisEvent{Updated: native.TabletToolAxisPressure, Pressure: 0.7})
				tool.NotifyButton(native.TabletToolButtonEvent{Button: 0x14b, State: native.ButtonPressed})
			},
			listeners: func(dev *native.InputDevice) int {
				ev := &dev.TabletTool().Events
				return ev.Axis.Len() + ev.Proximity.Len() + ev.Tip.Len() + ev.Button.Len() + ev.Destroy.Len()
			},
			events: []string{"added pen", "proximity", "tip", "axis", "button", "destroyed", "removed"},
		},
		{
			name: "tablet pad",
			typ:  wlr.InputDeviceTabletPad,
			input: func(t *testing.T, l *deviceLog) wlr.InputManagerFuncs {
				return wlr.InputManagerFuncs{
					TabletPadAdded: func(_ wlr.CompositorHandle, ph wlr.TabletPadHandle) wlr.TabletPadHandler {
						l.add("added " + ph.Data().Name)
						l.run = func() error { return ph.Run(func(*wlr.TabletPad) {}) }
						return wlr.TabletPadFuncs{
							Button: func(_ wlr.CompositorHandle, _ wlr.TabletPadHandle, ev *wlr.TabletPadButtonEvent) {
								if ev.Button() == 2 && ev.Mode() == 1 {
									l.add("button")
								}
							},
							Ring: func(_ wlr.CompositorHandle, _ wlr.TabletPadHandle, ev *wlr.TabletPadRingEvent) {
								if ev.Position() == 90 && ev.Source() == native.TabletPadRingSourceFinger {
									l.add("ring")
								}
							},
							Strip: func(_ wlr.CompositorHandle, _ wlr.TabletPadHandle, ev *wlr.TabletPadStripEvent) {
								if ev.Position() == -1 {
									l.add("strip")
								}
							},
							Destroyed: func(wlr.CompositorHandle, wlr.TabletPadHandle) {
								l.add("destroyed")
							},
						}
					},
				}
			},
			notify: func(dev *native.InputDevice) {
				pad := dev.TabletPad()
				pad.NotifyButton(native.TabletPadButtonEvent{Button: 2, State: native.ButtonPressed, Mode: 1})
				pad.NotifyRing(native.TabletPadRingEvent{Source: native.TabletPadRingSourceFinger, Position: 90})
				pad.NotifyStrip(native.TabletPadStripEvent{Position: -1})
			},
			listeners: func(dev *native.InputDevice) int {
				ev := &dev.TabletPad().Events
				return ev.Button.Len() + ev.Ring.Len() + ev.Strip.Len() + ev.Destroy.Len()
			},
			events: []string{"added pad", "button", "ring", "strip", "destroyed", "removed"},
		},
		{
			name: "switch",
			typ:  wlr.InputDeviceSwitch,
			input: func(t *testing.T, l *deviceLog) wlr.InputManagerFuncs {
				return wlr.InputManagerFuncs{
					SwitchAdded: func(_ wlr.CompositorHandle, sh wlr.SwitchHandle) wlr.SwitchHandler {
						l.add("added " + sh.Data().Name)
						l.run = func() error { return sh.Run(func(*wlr.Switch) {}) }
						return wlr.SwitchFuncs{
							Toggle: func(_ wlr.CompositorHandle, sh wlr.SwitchHandle, ev *wlr.SwitchToggleEvent) {
								err := sh.Run(func(sw *wlr.Switch) {
									assert.True(t, sw.On(ev.Type()))
								})
								assert.NoError(t, err)
								l.add("toggle " + ev.Type().String() + " " + ev.State().String())
							},
							Destroyed: func(wlr.CompositorHandle, wlr.SwitchHandle) {
								l.add("destroyed")
							},
						}
					},
				}
			},
			notify: func(dev *native.InputDevice) {
				dev.Switch().NotifyToggle(native.SwitchToggleEvent{Type: native.SwitchTypeLid, State: native.SwitchStateOn})
			},
			listeners: func(dev *native.InputDevice) int {
				ev := &dev.Switch().Events
				return ev.Toggle.Len() + ev.Destroy.Len()
			},
			events: []string{"added lid", "toggle lid on", "destroyed", "removed"},
		},
	}

	names := map[wlr.InputDeviceType]string{
		wlr.InputDeviceTabletTool: "pen",
		wlr.InputDeviceTabletPad:  "pad",
		wlr.InputDeviceSwitch:     "lid",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l deviceLog
			input := tt.input(t, &l)
			input.InputRemoved = func(wlr.CompositorHandle, wlr.InputDeviceHandle) {
				l.add("removed")
			}
			c := build(t, wlr.Builder{Input: input})

			dev := c.Backend().AddInputDevice(tt.typ, names[tt.typ])
			require.NoError(t, c.Start())
			require.NotNil(t, l.run, "device handler never called")
			require.NoError(t, l.run())

			tt.notify(dev)
			dev.Destroy()

			assert.Equal(t, tt.events, l.events)
			assert.ErrorIs(t, l.run(), handle.ErrAlreadyDropped)
			assert.Equal(t, 0, tt.listeners(dev), "listeners left attached")
			assert.Empty(t, c.Inputs())
		})
	}
}

func TestSwitchState(t *testing.T) {
	tests := []struct {
		name   string
		states []native.SwitchState
		on     bool
	}{
		{name: "on", states: []native.SwitchState{native.SwitchStateOn}, on: true},
		{name: "off", states: []native.SwitchState{native.SwitchStateOn, native.SwitchStateOff}, on: false},
		{name: "toggle", states: []native.SwitchState{native.SwitchStateToggle}, on: true},
		{name: "toggle off", states: []native.SwitchState{native.SwitchStateOn, native.SwitchStateToggle}, on: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sh wlr.SwitchHandle
			c := build(t, wlr.Builder{
				Input: wlr.InputManagerFuncs{
					SwitchAdded: func(_ wlr.CompositorHandle, h wlr.SwitchHandle) wlr.SwitchHandler {
						sh = h
						return nil
					},
				},
			})

			dev := c.Backend().AddInputDevice(wlr.InputDeviceSwitch, "mode")
			require.NoError(t, c.Start())

			for _, s := range tt.states {
				dev.Switch().NotifyToggle(native.SwitchToggleEvent{Type: native.SwitchTypeTabletMode, State: s})
			}

			err := sh.Run(func(sw *wlr.Switch) {
				assert.Equal(t, tt.on, sw.On(wlr.SwitchTypeTabletMode))
				assert.False(t, sw.On(wlr.SwitchTypeLid))
			})
			require.NoError(t, err)
		})
	}
}
