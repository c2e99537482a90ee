package main

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"deedles.dev/wlr"
	"deedles.dev/wlr/config"
	"deedles.dev/wlr/cursor"
	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/internal/log"
	"deedles.dev/wlr/internal/xslices"
)

// cascade is the offset between consecutive toplevels.
const cascade = 32

var background = color.RGBA{R: 0x30, G: 0x30, B: 0x38, A: 0xFF}

type server struct {
	cfg *config.Config
	c   *wlr.Compositor

	layout wlr.OutputLayoutHandle
	seat   wlr.SeatHandle
	cursor *wlr.Cursor

	// toplevels are the mapped toplevels, bottom first.
	toplevels []wlr.XDGSurfaceHandle
}

func newServer(cfg *config.Config) (*server, error) {
	s := server{
		cfg:    cfg,
		cursor: wlr.NewCursor(),
	}

	theme, err := cursor.LoadTheme(cfg.Cursor.Theme, cfg.Cursor.Size)
	if err != nil {
		log.Warn("cursor theme not loaded", "theme", cfg.Cursor.Theme, "err", err)
	} else if !s.cursor.SetTheme(theme, "default") {
		log.Warn("cursor theme has no default cursor", "theme", theme.Name)
	}

	b := cfg.Builder()
	b.Compositor = wlr.CompositorFuncs{
		NewClient: s.newClient,
		Shutdown:  func(wlr.CompositorHandle) { log.Info("shutting down") },
	}
	b.Output = wlr.OutputManagerFuncs{OutputAdded: s.outputAdded}
	b.Input = wlr.InputManagerFuncs{
		InputAdded:    s.inputAdded,
		KeyboardAdded: s.keyboardAdded,
		PointerAdded:  s.pointerAdded,
		InputRemoved:  s.inputRemoved,
	}
	b.XDGShell = wlr.XDGShellManagerFuncs{NewSurface: s.newXDGSurface}

	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	s.c = c

	layout, ok := c.NewOutputLayout()
	if !ok {
		c.Destroy()
		return nil, errors.New("create output layout")
	}
	s.layout = layout

	seat, ok := c.NewSeat(cfg.Seat, wlr.SeatFuncs{
		KeyboardFocusChange: func(_ wlr.CompositorHandle, _ wlr.SeatHandle, ev *wlr.FocusChangeEvent) {
			log.Debug("keyboard focus changed", "old", ev.Old(), "new", ev.New())
		},
	})
	if !ok {
		c.Destroy()
		return nil, fmt.Errorf("create seat %q", cfg.Seat)
	}
	s.seat = seat

	for range cfg.Headless.Outputs {
		c.Backend().AddOutput(cfg.Headless.Width, cfg.Headless.Height)
	}
	c.Backend().AddInputDevice(wlr.InputDeviceKeyboard, "headless-keyboard")
	c.Backend().AddInputDevice(wlr.InputDevicePointer, "headless-pointer")

	return &s, nil
}

func (s *server) newClient(_ wlr.CompositorHandle, ch wlr.ClientHandle) {
	err := ch.Run(func(client *wlr.Client) {
		pid, uid, _ := client.Credentials()
		log.Info("client connected", "pid", pid, "uid", uid)
	})
	if err != nil {
		log.Error("new client", "err", err)
	}
}

func (s *server) outputAdded(_ wlr.CompositorHandle, oh wlr.OutputHandle) wlr.OutputHandler {
	err := handle.Run2(s.layout, oh, func(layout *wlr.OutputLayout, out *wlr.Output) {
		oc, _ := s.cfg.Output(out.Name())
		err := oc.Apply(out)
		if err != nil {
			log.Error("configure output", "output", out.Name(), "err", err)
			return
		}
		err = oc.Place(layout, out)
		if err != nil {
			log.Error("place output", "output", out.Name(), "err", err)
			return
		}

		x, y, _ := out.LayoutPosition()
		log.Info("output added", "output", out.Name(), "mode", out.Mode(), "scale", out.Scale(), "x", x, "y", y)
	})
	if err != nil {
		log.Error("output added", "output", oh, "err", err)
	}

	return wlr.OutputFuncs{
		Frame: s.frame,
		ModeChange: func(_ wlr.CompositorHandle, oh wlr.OutputHandle) {
			oh.Run(func(out *wlr.Output) { log.Debug("output mode changed", "output", out.Name(), "mode", out.Mode()) })
		},
		Destroyed: func(_ wlr.CompositorHandle, oh wlr.OutputHandle) {
			log.Info("output removed", "output", oh)
		},
	}
}

func (s *server) frame(_ wlr.CompositorHandle, oh wlr.OutputHandle) {
	now := time.Now()
	err := oh.Run(func(out *wlr.Output) {
		err := out.Clear(background)
		if err != nil {
			log.Error("clear output", "output", out.Name(), "err", err)
			return
		}

		for i, xh := range s.toplevels {
			sh, err := handle.Run(xh, (*wlr.XDGSurface).Surface)
			if err != nil {
				continue
			}
			sh.Run(func(surface *wlr.Surface) {
				err := out.RenderSurface(surface, i*cascade, i*cascade)
				if err != nil {
					log.Error("render surface", "surface", sh, "err", err)
				}
				surface.SendFrameDone(now)
			})
		}

		err = s.cursor.Render(out)
		if err != nil {
			log.Error("render cursor", "output", out.Name(), "err", err)
		}

		err = out.Commit()
		if err != nil {
			log.Error("commit output", "output", out.Name(), "err", err)
		}
	})
	if err != nil {
		log.Warn("frame", "output", oh, "err", err)
	}
}

func (s *server) inputAdded(_ wlr.CompositorHandle, dh wlr.InputDeviceHandle) {
	info := dh.Data()
	log.Info("input device added", "name", info.Name, "type", info.Type)
}

func (s *server) inputRemoved(_ wlr.CompositorHandle, dh wlr.InputDeviceHandle) {
	log.Info("input device removed", "name", dh.Data().Name)
}

func (s *server) keyboardAdded(_ wlr.CompositorHandle, kh wlr.KeyboardHandle) wlr.KeyboardHandler {
	err := handle.Run2(s.seat, kh, func(seat *wlr.Seat, kb *wlr.Keyboard) {
		seat.SetCapabilities(seat.Capabilities() | wlr.SeatCapabilityKeyboard)
		seat.SetKeyboard(kb)
	})
	if err != nil {
		log.Error("attach keyboard", "keyboard", kh, "err", err)
	}

	return wlr.KeyboardFuncs{
		Key: func(_ wlr.CompositorHandle, _ wlr.KeyboardHandle, ev *wlr.KeyEvent) {
			log.Debug("key", "keycode", ev.Keycode(), "state", ev.State())
		},
	}
}

func (s *server) pointerAdded(_ wlr.CompositorHandle, ph wlr.PointerHandle) wlr.PointerHandler {
	err := s.seat.Run(func(seat *wlr.Seat) {
		seat.SetCapabilities(seat.Capabilities() | wlr.SeatCapabilityPointer)
	})
	if err != nil {
		log.Error("attach pointer", "pointer", ph, "err", err)
	}

	return wlr.PointerFuncs{
		Motion: func(_ wlr.CompositorHandle, _ wlr.PointerHandle, ev *wlr.MotionEvent) {
			dx, dy := ev.Delta()
			s.layout.Run(func(layout *wlr.OutputLayout) { s.cursor.Move(layout, dx, dy) })
		},
		MotionAbsolute: func(_ wlr.CompositorHandle, _ wlr.PointerHandle, ev *wlr.AbsoluteMotionEvent) {
			x, y := ev.Pos()
			s.layout.Run(func(layout *wlr.OutputLayout) { s.cursor.WarpAbsolute(layout, x, y) })
		},
		Button: func(_ wlr.CompositorHandle, _ wlr.PointerHandle, ev *wlr.ButtonEvent) {
			x, y := s.cursor.Position()
			log.Debug("button", "button", ev.Button(), "state", ev.State(), "x", x, "y", y)
		},
	}
}

func (s *server) newXDGSurface(_ wlr.CompositorHandle, xh wlr.XDGSurfaceHandle) wlr.XDGShellHandler {
	role, err := handle.Run(xh, (*wlr.XDGSurface).Role)
	if err != nil {
		log.Error("new xdg surface", "err", err)
		return nil
	}
	if role != wlr.XDGSurfaceRoleToplevel {
		return nil
	}

	xh.Run(func(xs *wlr.XDGSurface) {
		xs.Configure(wlr.XDGToplevelState{Activated: true})
	})

	return wlr.XDGShellFuncs{
		Map: func(_ wlr.CompositorHandle, xh wlr.XDGSurfaceHandle) {
			s.toplevels = append(s.toplevels, xh)
			s.focus(xh)
		},
		Unmap: func(_ wlr.CompositorHandle, xh wlr.XDGSurfaceHandle) {
			s.toplevels = xslices.Remove(s.toplevels, xh.Equal)
			if n := len(s.toplevels); n > 0 {
				s.focus(s.toplevels[n-1])
			}
		},
		MaximizeRequest: s.maximize,
		PingTimeout: func(_ wlr.CompositorHandle, xh wlr.XDGSurfaceHandle) {
			log.Warn("client not responding", "surface", xh)
		},
		Destroyed: func(_ wlr.CompositorHandle, xh wlr.XDGSurfaceHandle) {
			log.Debug("toplevel destroyed", "surface", xh)
		},
	}
}

func (s *server) focus(xh wlr.XDGSurfaceHandle) {
	sh, err := handle.Run(xh, (*wlr.XDGSurface).Surface)
	if err != nil {
		return
	}

	err = handle.Run2(s.seat, sh, func(seat *wlr.Seat, surface *wlr.Surface) {
		seat.SetKeyboardFocus(surface)
	})
	if err != nil {
		log.Error("focus", "surface", sh, "err", err)
	}
}

func (s *server) maximize(_ wlr.CompositorHandle, xh wlr.XDGSurfaceHandle) {
	extents, err := handle.Run(s.layout, (*wlr.OutputLayout).Extents)
	if err != nil {
		return
	}

	xh.Run(func(xs *wlr.XDGSurface) {
		xs.Configure(wlr.XDGToplevelState{
			Width:     int32(extents.Dx()),
			Height:    int32(extents.Dy()),
			Maximized: true,
			Activated: true,
		})
	})
}
