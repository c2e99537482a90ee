// Package wlr exposes the objects of a compositor library through
// handles that stay safe to hold while the library destroys the
// objects out from under them.
//
// A compositor is built from a Builder, which takes the handlers that
// are notified about new objects. Handlers are always given handles,
// never the objects themselves. To act on an object, use the handle's
// Run method:
//
//	b := wlr.Builder{
//		Output: wlr.OutputManagerFuncs{
//			OutputAdded: func(c wlr.CompositorHandle, out wlr.OutputHandle) wlr.OutputHandler {
//				out.Run(func(out *wlr.Output) {
//					if m, ok := out.ChooseBestMode(); ok {
//						out.SetMode(m)
//					}
//					out.Enable(true)
//				})
//				return nil
//			},
//		},
//	}
//
// Every method of every handler runs on the compositor's event loop.
package wlr

import (
	"context"
	"errors"
	"fmt"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/internal/log"
	"deedles.dev/wlr/internal/xslices"
	"deedles.dev/wlr/native"
)

// SocketAuto tells Builder to listen on the first free wayland-N
// socket.
const SocketAuto = "auto"

// Default keyboard repeat settings.
const (
	DefaultRepeatRate  = 25
	DefaultRepeatDelay = 600
)

var ErrCompositorDestroyed = errors.New("compositor destroyed")

type CompositorHandle = handle.Handle[*native.Display, *Compositor, *Compositor]

// The compositor is the one resource whose wrapper is never rebuilt:
// it carries too much state, so handles to it cache the wrapper itself.
var compositorKind = &handle.Kind[*native.Display, *Compositor, *Compositor]{
	Name: "compositor",
	Wrap: func(_ *native.Display, c *Compositor) *Compositor { return c },
}

// CompositorHandler is notified of compositor-wide events.
type CompositorHandler interface {
	// OnNewSurface is called when a client creates a surface. It may
	// return a handler for that surface's events.
	OnNewSurface(c CompositorHandle, s SurfaceHandle) SurfaceHandler

	OnNewClient(c CompositorHandle, client ClientHandle)

	// OnShutdown is called when the compositor is destroyed, before
	// any of its resources are.
	OnShutdown(c CompositorHandle)
}

// CompositorFuncs implements CompositorHandler by calling its fields.
// Nil fields are skipped.
type CompositorFuncs struct {
	NewSurface func(c CompositorHandle, s SurfaceHandle) SurfaceHandler
	NewClient  func(c CompositorHandle, client ClientHandle)
	Shutdown   func(c CompositorHandle)
}

func (f CompositorFuncs) OnNewSurface(c CompositorHandle, s SurfaceHandle) SurfaceHandler {
	if f.NewSurface == nil {
		return nil
	}
	return f.NewSurface(c, s)
}

func (f CompositorFuncs) OnNewClient(c CompositorHandle, client ClientHandle) {
	if f.NewClient != nil {
		f.NewClient(c, client)
	}
}

func (f CompositorFuncs) OnShutdown(c CompositorHandle) {
	if f.Shutdown != nil {
		f.Shutdown(c)
	}
}

// Builder configures a new Compositor. Nil handlers are treated as
// handlers that do nothing.
type Builder struct {
	Compositor CompositorHandler
	Input      InputManagerHandler
	Output     OutputManagerHandler
	XDGShell   XDGShellManagerHandler

	// Socket is the name of the socket that clients connect to. If it
	// is SocketAuto, a free name is picked. If it is empty, the
	// compositor doesn't listen for clients at all.
	Socket string

	// FrameRate is the number of frames per second generated for
	// enabled outputs. If it is zero or less, outputs only get frames
	// that are scheduled explicitly.
	FrameRate int

	// Keymap is set on every new keyboard. If it is the zero value,
	// RuleNamesFromEnv is used instead.
	Keymap native.RuleNames

	// RepeatRate and RepeatDelay are set on every new keyboard. Zero
	// values are replaced with DefaultRepeatRate and
	// DefaultRepeatDelay.
	RepeatRate, RepeatDelay int32

	// Data is copied into Compositor.Data.
	Data any
}

// Build creates the compositor and its native resources. The
// compositor doesn't announce any outputs or input devices until it
// is started.
func (b Builder) Build() (*Compositor, error) {
	display := native.NewDisplay()

	c := Compositor{
		res:         handle.Own(display),
		Data:        b.Data,
		handler:     b.Compositor,
		display:     display,
		backend:     native.NewHeadlessBackend(display),
		wl:          native.NewCompositor(display),
		shell:       native.NewXDGShell(display),
		fps:         b.FrameRate,
		keymap:      b.Keymap,
		repeatRate:  b.RepeatRate,
		repeatDelay: b.RepeatDelay,
	}
	if c.handler == nil {
		c.handler = CompositorFuncs{}
	}
	if c.keymap == (native.RuleNames{}) {
		c.keymap = RuleNamesFromEnv()
	}
	if c.repeatRate == 0 {
		c.repeatRate = DefaultRepeatRate
	}
	if c.repeatDelay == 0 {
		c.repeatDelay = DefaultRepeatDelay
	}

	if b.Socket != "" {
		err := c.addSocket(b.Socket)
		if err != nil {
			display.Destroy()
			return nil, fmt.Errorf("build compositor: %w", err)
		}
	}

	c.clients = newTable(clientKind)
	c.surfaces = newTable(surfaceKind)
	c.seats = newTable(seatKind)
	c.layouts = newTable(outputLayoutKind)

	display.Events.ClientCreated.Add(c.addClient)
	c.wl.Events.NewSurface.Add(c.addSurface)

	c.inputs = newInputManager(&c, b.Input)
	c.outputs = newOutputManager(&c, b.Output)
	c.xdg = newXDGShellManager(&c, b.XDGShell)

	log.Debug("compositor created", "socket", c.socket)
	return &c, nil
}

func (c *Compositor) addSocket(name string) error {
	if name == SocketAuto {
		name, err := c.display.AddSocketAuto()
		if err != nil {
			return err
		}
		c.socket = name
		return nil
	}

	err := c.display.AddSocket(name)
	if err != nil {
		return err
	}
	c.socket = name
	return nil
}

// Compositor owns the display, the backend, and every resource that
// the binding layer tracks. Everything reachable from it must only be
// used from its event loop.
type Compositor struct {
	res handle.Resource[*native.Display]

	// Data is free for use by the compositor's author.
	Data any

	handler CompositorHandler
	display *native.Display
	backend *native.Backend
	wl      *native.Compositor
	shell   *native.XDGShell
	socket  string
	fps     int

	keymap      native.RuleNames
	repeatRate  int32
	repeatDelay int32

	clients     *table[*native.Client, struct{}, *Client]
	surfaces    *table[*native.Surface, *Compositor, *Surface]
	surfaceList []SurfaceHandle
	seats       *table[*native.Seat, *Compositor, *Seat]
	layouts     *table[*native.OutputLayout, *Compositor, *OutputLayout]

	inputs  *inputManager
	outputs *outputManager
	xdg     *xdgShellManager

	started   bool
	destroyed bool
}

// resolve returns a handle to c, or false if c is gone or being torn
// down.
func (c *Compositor) resolve() (CompositorHandle, bool) {
	if (c == nil) || !c.res.Owner().Alive() {
		return CompositorHandle{}, false
	}
	return c.WeakReference(), true
}

func (c *Compositor) WeakReference() CompositorHandle {
	return compositorKind.Downgrade(c.res, c)
}

// Display returns the native display.
func (c *Compositor) Display() *native.Display { return c.display }

// Backend returns the headless backend that outputs and input devices
// are added through.
func (c *Compositor) Backend() *native.Backend { return c.backend }

// WLCompositor returns the native global that clients create surfaces
// through.
func (c *Compositor) WLCompositor() *native.Compositor { return c.wl }

// XDGShell returns the native XDG shell global.
func (c *Compositor) XDGShell() *native.XDGShell { return c.shell }

// Socket returns the name of the socket that the compositor listens
// on, or an empty string if there isn't one.
func (c *Compositor) Socket() string { return c.socket }

// Surfaces returns handles to every surface that hasn't been
// destroyed, oldest first.
func (c *Compositor) Surfaces() []SurfaceHandle {
	return append([]SurfaceHandle(nil), c.surfaceList...)
}

func (c *Compositor) Clients() []ClientHandle { return c.clients.handles() }

func (c *Compositor) Outputs() []OutputHandle { return c.outputs.outputs.handles() }

func (c *Compositor) Inputs() []InputDeviceHandle { return c.inputs.devices.handles() }

func (c *Compositor) Seats() []SeatHandle { return c.seats.handles() }

// XDGSurfaces returns handles to every XDG surface, oldest first.
func (c *Compositor) XDGSurfaces() []XDGSurfaceHandle { return c.xdg.surfaces.handles() }

// Start announces the backend's outputs and input devices and starts
// generating frames.
func (c *Compositor) Start() error {
	if c.destroyed {
		return ErrCompositorDestroyed
	}
	if c.started {
		return nil
	}

	err := c.backend.Start(c.fps)
	if err != nil {
		return fmt.Errorf("start backend: %w", err)
	}
	c.started = true

	log.Info("compositor started", "socket", c.socket, "fps", c.fps)
	return nil
}

// Run starts the compositor, if necessary, and runs its event loop
// until ctx is canceled or Terminate is called. It does not destroy
// the compositor when it returns.
func (c *Compositor) Run(ctx context.Context) error {
	err := c.Start()
	if err != nil {
		return err
	}

	c.display.Run(ctx)
	return nil
}

// Terminate makes Run return. It must be called from the event loop,
// usually from inside of a handler.
func (c *Compositor) Terminate() {
	c.display.Terminate()
}

// Post runs f on the event loop with a handle to the compositor. It is
// the only method that may be called from other goroutines.
func (c *Compositor) Post(f func(CompositorHandle)) error {
	return c.display.EventLoop().Post(func() error {
		c.dispatch(f)
		return nil
	})
}

// Destroy tears down the compositor. Handlers are told about the
// shutdown first. After that, the compositor can no longer be
// resolved, so the destroy callbacks of the resources torn down with
// it are not called, though every handle to them is still invalidated.
func (c *Compositor) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	c.dispatch(c.handler.OnShutdown)
	c.res.Owner().Drop()

	for _, e := range c.seats.store.Snapshot() {
		e.res.Ptr().Destroy()
	}
	for _, e := range c.layouts.store.Snapshot() {
		e.res.Ptr().Destroy()
	}
	c.backend.Destroy()
	c.display.Destroy()

	c.clients.clear()
	c.surfaces.clear()
	c.surfaceList = nil
	c.seats.clear()
	c.layouts.clear()
	c.inputs.clear()
	c.outputs.clear()
	c.xdg.clear()

	log.Info("compositor destroyed")
}

func (c *Compositor) addSurface(ptr *native.Surface) {
	e := c.surfaces.add(ptr, c)
	sh := c.surfaces.handle(e)
	c.surfaceList = append(c.surfaceList, sh)

	var handler SurfaceHandler
	c.dispatch(func(ch CompositorHandle) {
		handler = c.handler.OnNewSurface(ch, sh)
	})
	if handler == nil {
		handler = SurfaceFuncs{}
	}

	e.listen(
		ptr.Events.Commit.Add(func(*native.Surface) {
			c.dispatch(func(ch CompositorHandle) { handler.OnCommit(ch, sh) })
		}),
		ptr.Events.Destroy.Add(func(*native.Surface) {
			c.surfaceList = xslices.Remove(c.surfaceList, sh.Equal)
			destroyed(c, c.surfaces, ptr, handler.OnDestroyed)
		}),
	)
}

func (c *Compositor) addClient(ptr *native.Client) {
	e := c.clients.add(ptr, struct{}{})
	ch := c.clients.handle(e)

	e.listen(ptr.Events.Destroy.Add(func(*native.Client) {
		c.clients.remove(ptr)
	}))

	c.dispatch(func(comp CompositorHandle) {
		c.handler.OnNewClient(comp, ch)
	})
}
