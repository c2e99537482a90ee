package wlr_test

import (
	"context"
	"image"
	"net"
	"os"
	"testing"
	"time"

	"deedles.dev/wlr"
	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, b wlr.Builder) *wlr.Compositor {
	t.Helper()

	c, err := b.Build()
	require.NoError(t, err)
	t.Cleanup(c.Destroy)
	return c
}

func TestOutputDropout(t *testing.T) {
	var added wlr.OutputHandle
	destroyed := 0

	c := build(t, wlr.Builder{
		Output: wlr.OutputManagerFuncs{
			OutputAdded: func(_ wlr.CompositorHandle, out wlr.OutputHandle) wlr.OutputHandler {
				added = out
				return wlr.OutputFuncs{
					Destroyed: func(_ wlr.CompositorHandle, h wlr.OutputHandle) {
						assert.True(t, h.Equal(added))
						assert.True(t, h.Alive(), "output dropped before destroy callback")
						destroyed++
					},
				}
			},
		},
	})

	out := c.Backend().AddOutput(640, 480)
	require.NoError(t, c.Start())
	require.True(t, added.Alive())

	v, err := handle.Run(added, func(*wlr.Output) int { return 42 })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	out.Destroy()
	assert.Equal(t, 1, destroyed)
	assert.False(t, added.Alive())
	assert.Empty(t, c.Outputs())

	_, err = handle.Run(added, func(*wlr.Output) int { return 42 })
	assert.ErrorIs(t, err, handle.ErrAlreadyDropped)
	assert.Equal(t, 0, out.Events.Frame.Len(), "listeners left attached")
}

func TestKeyboardReentrancy(t *testing.T) {
	var outer, inner error
	c := build(t, wlr.Builder{
		Input: wlr.InputManagerFuncs{
			KeyboardAdded: func(_ wlr.CompositorHandle, kb wlr.KeyboardHandle) wlr.KeyboardHandler {
				return wlr.KeyboardFuncs{
					Key: func(_ wlr.CompositorHandle, kb wlr.KeyboardHandle, ev *wlr.KeyEvent) {
						assert.Equal(t, uint32(30), ev.Keycode())
						outer = kb.Run(func(kb *wlr.Keyboard) {
							kb.SetRepeatInfo(10, 100)
						})
					},
					RepeatInfo: func(_ wlr.CompositorHandle, kb wlr.KeyboardHandle) {
						inner = kb.Run(func(*wlr.Keyboard) {})
					},
				}
			},
		},
	})

	dev := c.Backend().AddInputDevice(wlr.InputDeviceKeyboard, "kbd")
	require.NoError(t, c.Start())

	dev.Keyboard().NotifyKey(native.KeyboardKeyEvent{Keycode: 30, State: native.KeyPressed})
	assert.NoError(t, outer)
	assert.ErrorIs(t, inner, handle.ErrAlreadyBorrowed)

	rate, delay := dev.Keyboard().RepeatInfo()
	assert.Equal(t, int32(10), rate)
	assert.Equal(t, int32(100), delay)
}

func TestKeyboardDefaults(t *testing.T) {
	var kh wlr.KeyboardHandle
	c := build(t, wlr.Builder{
		Keymap:     wlr.RuleNames{Layout: "us", Variant: "dvorak"},
		RepeatRate: 40,
		Input: wlr.InputManagerFuncs{
			KeyboardAdded: func(_ wlr.CompositorHandle, kb wlr.KeyboardHandle) wlr.KeyboardHandler {
				kh = kb
				return nil
			},
		},
	})

	c.Backend().AddInputDevice(wlr.InputDeviceKeyboard, "kbd")
	require.NoError(t, c.Start())

	err := kh.Run(func(kb *wlr.Keyboard) {
		names, ok := kb.RuleNames()
		assert.True(t, ok)
		assert.Equal(t, "dvorak", names.Variant)

		rate, delay := kb.RepeatInfo()
		assert.Equal(t, int32(40), rate)
		assert.Equal(t, int32(wlr.DefaultRepeatDelay), delay)
		assert.Equal(t, "kbd", kb.Info().Name)
	})
	require.NoError(t, err)
	assert.Equal(t, "kbd", kh.Data().Name)
}

func TestReleaseOnPanic(t *testing.T) {
	var added wlr.OutputHandle
	c := build(t, wlr.Builder{
		Output: wlr.OutputManagerFuncs{
			OutputAdded: func(_ wlr.CompositorHandle, out wlr.OutputHandle) wlr.OutputHandler {
				added = out
				return nil
			},
		},
	})
	c.Backend().AddOutput(100, 100)
	require.NoError(t, c.Start())

	assert.PanicsWithValue(t, "boom", func() {
		added.Run(func(*wlr.Output) { panic("boom") })
	})
	assert.False(t, added.Borrowed())
	assert.NoError(t, added.Run(func(*wlr.Output) {}))
}

func TestHandleIdentity(t *testing.T) {
	var added []wlr.OutputHandle
	c := build(t, wlr.Builder{
		Output: wlr.OutputManagerFuncs{
			OutputAdded: func(_ wlr.CompositorHandle, out wlr.OutputHandle) wlr.OutputHandler {
				added = append(added, out)
				return nil
			},
		},
	})
	c.Backend().AddOutput(100, 100)
	c.Backend().AddOutput(200, 200)
	require.NoError(t, c.Start())

	listed := c.Outputs()
	require.Len(t, listed, 2)
	require.Len(t, added, 2)
	assert.True(t, added[0].Equal(listed[0]))
	assert.True(t, added[1].Equal(listed[1]))
	assert.False(t, added[0].Equal(added[1]))

	byID := map[uintptr]wlr.OutputHandle{added[0].ID(): added[0]}
	_, ok := byID[listed[0].ID()]
	assert.True(t, ok)
	_, ok = byID[listed[1].ID()]
	assert.False(t, ok)
}

func canDowngrade[H any](w any) bool {
	_, ok := w.(interface{ WeakReference() H })
	return ok
}

// Wrappers handed out by Run are always borrowed, so only the
// compositor, which the caller owns, can be downgraded directly.
func TestDowngradeOnlyOwned(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{name: "compositor", ok: canDowngrade[wlr.CompositorHandle](&wlr.Compositor{})},
		{name: "output", ok: canDowngrade[wlr.OutputHandle](&wlr.Output{})},
		{name: "output layout", ok: canDowngrade[wlr.OutputLayoutHandle](&wlr.OutputLayout{})},
		{name: "input device", ok: canDowngrade[wlr.InputDeviceHandle](&wlr.InputDevice{})},
		{name: "keyboard", ok: canDowngrade[wlr.KeyboardHandle](&wlr.Keyboard{})},
		{name: "pointer", ok: canDowngrade[wlr.PointerHandle](&wlr.Pointer{})},
		{name: "touch", ok: canDowngrade[wlr.TouchHandle](&wlr.Touch{})},
		{name: "tablet tool", ok: canDowngrade[wlr.TabletToolHandle](&wlr.TabletTool{})},
		{name: "tablet pad", ok: canDowngrade[wlr.TabletPadHandle](&wlr.TabletPad{})},
		{name: "switch", ok: canDowngrade[wlr.SwitchHandle](&wlr.Switch{})},
		{name: "seat", ok: canDowngrade[wlr.SeatHandle](&wlr.Seat{})},
		{name: "surface", ok: canDowngrade[wlr.SurfaceHandle](&wlr.Surface{})},
		{name: "xdg surface", ok: canDowngrade[wlr.XDGSurfaceHandle](&wlr.XDGSurface{})},
		{name: "client", ok: canDowngrade[wlr.ClientHandle](&wlr.Client{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name == "compositor", tt.ok)
		})
	}
}

func TestZeroHandles(t *testing.T) {
	var out wlr.OutputHandle
	var kb wlr.KeyboardHandle
	var seat wlr.SeatHandle

	assert.ErrorIs(t, out.Run(func(*wlr.Output) {}), handle.ErrAlreadyDropped)
	assert.ErrorIs(t, kb.Run(func(*wlr.Keyboard) {}), handle.ErrAlreadyDropped)
	assert.ErrorIs(t, seat.Run(func(*wlr.Seat) {}), handle.ErrAlreadyDropped)
}

func TestInputRemovalOrder(t *testing.T) {
	var events []string
	var kh wlr.KeyboardHandle

	c := build(t, wlr.Builder{
		Input: wlr.InputManagerFuncs{
			InputAdded: func(_ wlr.CompositorHandle, dev wlr.InputDeviceHandle) {
				events = append(events, "added "+dev.Data().Name)
			},
			KeyboardAdded: func(_ wlr.CompositorHandle, kb wlr.KeyboardHandle) wlr.KeyboardHandler {
				kh = kb
				events = append(events, "keyboard added")
				return wlr.KeyboardFuncs{
					Destroyed: func(wlr.CompositorHandle, wlr.KeyboardHandle) {
						events = append(events, "keyboard destroyed")
					},
				}
			},
			InputRemoved: func(_ wlr.CompositorHandle, dev wlr.InputDeviceHandle) {
				events = append(events, "removed "+dev.Data().Name)
			},
		},
	})

	dev := c.Backend().AddInputDevice(wlr.InputDeviceKeyboard, "kbd")
	require.NoError(t, c.Start())
	require.Len(t, c.Inputs(), 1)

	kb := dev.Keyboard()
	dev.Destroy()

	assert.Equal(t, []string{"added kbd", "keyboard added", "keyboard destroyed", "removed kbd"}, events)
	assert.Empty(t, c.Inputs())
	assert.False(t, kh.Alive())
	assert.Equal(t, 0, kb.Events.Key.Len())
	assert.Equal(t, 0, kb.Events.Destroy.Len())
}

func TestShutdown(t *testing.T) {
	shutdown := false
	outputDestroyed := false
	var added wlr.OutputHandle

	c, err := wlr.Builder{
		Data: "state",
		Compositor: wlr.CompositorFuncs{
			Shutdown: func(ch wlr.CompositorHandle) {
				shutdown = true
				err := ch.Run(func(c *wlr.Compositor) {
					assert.Equal(t, "state", c.Data)
				})
				assert.NoError(t, err)
			},
		},
		Output: wlr.OutputManagerFuncs{
			OutputAdded: func(_ wlr.CompositorHandle, out wlr.OutputHandle) wlr.OutputHandler {
				added = out
				return wlr.OutputFuncs{
					Destroyed: func(wlr.CompositorHandle, wlr.OutputHandle) { outputDestroyed = true },
				}
			},
		},
	}.Build()
	require.NoError(t, err)

	ch := c.WeakReference()
	c.Backend().AddOutput(100, 100)
	require.NoError(t, c.Start())

	c.Destroy()
	assert.True(t, shutdown)
	assert.False(t, outputDestroyed, "destroy callback called during teardown")
	assert.False(t, added.Alive())
	assert.False(t, ch.Alive())
	assert.ErrorIs(t, c.Start(), wlr.ErrCompositorDestroyed)

	_, ok := c.NewSeat("seat0", nil)
	assert.False(t, ok)
}

func TestSurfaceList(t *testing.T) {
	var destroyed []wlr.SurfaceHandle
	c := build(t, wlr.Builder{
		Compositor: wlr.CompositorFuncs{
			NewSurface: func(_ wlr.CompositorHandle, s wlr.SurfaceHandle) wlr.SurfaceHandler {
				return wlr.SurfaceFuncs{
					Destroyed: func(_ wlr.CompositorHandle, s wlr.SurfaceHandle) {
						destroyed = append(destroyed, s)
					},
				}
			},
		},
	})

	client := c.Display().NewClient()
	s1 := c.WLCompositor().CreateSurface(client)
	s2 := c.WLCompositor().CreateSurface(client)
	s3 := c.WLCompositor().CreateSurface(nil)

	surfaces := c.Surfaces()
	require.Len(t, surfaces, 3)
	assert.Equal(t, s1.Addr(), surfaces[0].ID())

	s2.Destroy()
	surfaces = c.Surfaces()
	require.Len(t, surfaces, 2)
	assert.Equal(t, s1.Addr(), surfaces[0].ID())
	assert.Equal(t, s3.Addr(), surfaces[1].ID())

	client.Destroy()
	require.Len(t, c.Surfaces(), 1)
	assert.Equal(t, s3.Addr(), c.Surfaces()[0].ID())
	assert.Len(t, destroyed, 2)

	err := c.Surfaces()[0].Run(func(s *wlr.Surface) {
		assert.False(t, s.Client().Alive())
		assert.Nil(t, s.Buffer())
	})
	assert.NoError(t, err)
}

func TestRunAndTerminate(t *testing.T) {
	frames := 0
	c := build(t, wlr.Builder{
		FrameRate: 200,
		Output: wlr.OutputManagerFuncs{
			OutputAdded: func(_ wlr.CompositorHandle, out wlr.OutputHandle) wlr.OutputHandler {
				out.Run(func(out *wlr.Output) {
					mode, ok := out.ChooseBestMode()
					require.True(t, ok)
					require.NoError(t, out.SetMode(mode))
					out.Enable(true)
				})

				return wlr.OutputFuncs{
					Frame: func(ch wlr.CompositorHandle, oh wlr.OutputHandle) {
						err := oh.Run(func(out *wlr.Output) {
							assert.NoError(t, out.Clear(image.Black))
							assert.NoError(t, out.Commit())
						})
						assert.NoError(t, err)

						frames++
						if frames == 3 {
							ch.Run(func(c *wlr.Compositor) { c.Terminate() })
						}
					},
				}
			},
		},
	})
	c.Backend().AddOutput(64, 64)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, c.Run(ctx))
	assert.NoError(t, ctx.Err(), "compositor was not terminated")
	assert.GreaterOrEqual(t, frames, 3)
}

func TestTerminateDuringStart(t *testing.T) {
	added := 0
	c := build(t, wlr.Builder{
		Output: wlr.OutputManagerFuncs{
			OutputAdded: func(ch wlr.CompositorHandle, _ wlr.OutputHandle) wlr.OutputHandler {
				added++
				err := ch.Run(func(c *wlr.Compositor) { c.Terminate() })
				assert.NoError(t, err)
				return nil
			},
		},
	})
	c.Backend().AddOutput(64, 64)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, c.Run(ctx))
	assert.NoError(t, ctx.Err(), "terminate from a startup handler was lost")
	assert.Equal(t, 1, added)
}

func TestPost(t *testing.T) {
	c := build(t, wlr.Builder{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var data any
	go func() {
		err := c.Post(func(ch wlr.CompositorHandle) {
			ch.Run(func(c *wlr.Compositor) {
				c.Data = "posted"
				data = c.Data
				c.Terminate()
			})
		})
		assert.NoError(t, err)
	}()

	require.NoError(t, c.Run(ctx))
	assert.Equal(t, "posted", data)
}

func TestSocketClients(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	var pid int
	c := build(t, wlr.Builder{
		Socket: wlr.SocketAuto,
		Compositor: wlr.CompositorFuncs{
			NewClient: func(ch wlr.CompositorHandle, client wlr.ClientHandle) {
				client.Run(func(client *wlr.Client) {
					pid, _, _ = client.Credentials()
				})
				ch.Run(func(c *wlr.Compositor) { c.Terminate() })
			},
		},
	})
	require.Equal(t, "wayland-0", c.Socket())

	conns := make(chan *net.UnixConn, 1)
	go func() {
		conn, err := native.Dial(c.Socket())
		assert.NoError(t, err)
		conns <- conn
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, c.Run(ctx))
	require.NoError(t, ctx.Err())
	assert.Equal(t, os.Getpid(), pid)
	assert.Len(t, c.Clients(), 1)

	if conn := <-conns; conn != nil {
		conn.Close()
	}
}
