package wlr

import (
	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
)

type (
	XDGSurfaceRole   = native.XDGSurfaceRole
	XDGToplevelState = native.XDGToplevelState
)

const (
	XDGSurfaceRoleNone     = native.XDGSurfaceRoleNone
	XDGSurfaceRoleToplevel = native.XDGSurfaceRoleToplevel
	XDGSurfaceRolePopup    = native.XDGSurfaceRolePopup
)

type XDGSurfaceHandle = handle.Handle[*native.XDGSurface, *Compositor, *XDGSurface]

var xdgSurfaceKind = &handle.Kind[*native.XDGSurface, *Compositor, *XDGSurface]{
	Name: "xdg surface",
	Wrap: func(ptr *native.XDGSurface, c *Compositor) *XDGSurface {
		return &XDGSurface{res: handle.Borrow(ptr), c: c}
	},
}

// XDGSurface is a surface with a desktop-style role, either a
// toplevel window or a popup.
type XDGSurface struct {
	res handle.Resource[*native.XDGSurface]
	c   *Compositor
}

func (xs *XDGSurface) Role() XDGSurfaceRole { return xs.res.Ptr().Role() }

// Surface returns a handle to the underlying surface.
func (xs *XDGSurface) Surface() SurfaceHandle {
	return xs.c.surfaces.lookup(xs.res.Ptr().Surface())
}

// Parent returns a handle to the parent of a popup. It is the zero
// handle for toplevels.
func (xs *XDGSurface) Parent() XDGSurfaceHandle {
	return xs.c.xdg.surfaces.lookup(xs.res.Ptr().Parent())
}

// Popups returns handles to the surface's popups.
func (xs *XDGSurface) Popups() []XDGSurfaceHandle {
	popups := xs.res.Ptr().Popups()
	hs := make([]XDGSurfaceHandle, 0, len(popups))
	for _, p := range popups {
		hs = append(hs, xs.c.xdg.surfaces.lookup(p))
	}
	return hs
}

func (xs *XDGSurface) Mapped() bool            { return xs.res.Ptr().Mapped() }
func (xs *XDGSurface) Configured() bool        { return xs.res.Ptr().Configured() }
func (xs *XDGSurface) Title() string           { return xs.res.Ptr().Title() }
func (xs *XDGSurface) AppID() string           { return xs.res.Ptr().AppID() }
func (xs *XDGSurface) State() XDGToplevelState { return xs.res.Ptr().State() }

// Configure sends the toplevel state to the client and returns the
// serial that the client must acknowledge.
func (xs *XDGSurface) Configure(state XDGToplevelState) uint32 {
	return xs.res.Ptr().Configure(state)
}

// Ping checks whether the client is still responsive. If it isn't,
// the PingTimeout handler method is called.
func (xs *XDGSurface) Ping() uint32 {
	return xs.res.Ptr().Ping()
}

// MoveRequest is a client's request to start an interactive move.
type MoveRequest struct {
	ev *native.XDGMoveEvent
}

func (ev *MoveRequest) Serial() uint32 { return ev.ev.Serial }

// ResizeRequest is a client's request to start an interactive resize.
type ResizeRequest struct {
	ev *native.XDGResizeEvent
}

func (ev *ResizeRequest) Serial() uint32 { return ev.ev.Serial }

// Edges returns a bitmask of the edges being dragged.
func (ev *ResizeRequest) Edges() uint32 { return ev.ev.Edges }

// FullscreenRequest is a client's request to enter or leave
// fullscreen.
type FullscreenRequest struct {
	ev *native.XDGFullscreenEvent
	c  *Compositor
}

func (ev *FullscreenRequest) Fullscreen() bool { return ev.ev.Fullscreen }

// Output returns a handle to the output that the client would like to
// be fullscreen on, if it has a preference.
func (ev *FullscreenRequest) Output() OutputHandle {
	return ev.c.outputs.outputs.lookup(ev.ev.Output)
}

// XDGShellHandler is notified of a single XDG surface's events.
type XDGShellHandler interface {
	OnMap(c CompositorHandle, xs XDGSurfaceHandle)
	OnUnmap(c CompositorHandle, xs XDGSurfaceHandle)

	// OnCommit is called when the underlying surface is committed.
	OnCommit(c CompositorHandle, xs XDGSurfaceHandle)

	OnPingTimeout(c CompositorHandle, xs XDGSurfaceHandle)
	OnNewPopup(c CompositorHandle, xs XDGSurfaceHandle, popup XDGSurfaceHandle)
	OnMoveRequest(c CompositorHandle, xs XDGSurfaceHandle, req *MoveRequest)
	OnResizeRequest(c CompositorHandle, xs XDGSurfaceHandle, req *ResizeRequest)
	OnMaximizeRequest(c CompositorHandle, xs XDGSurfaceHandle)
	OnFullscreenRequest(c CompositorHandle, xs XDGSurfaceHandle, req *FullscreenRequest)
	OnMinimizeRequest(c CompositorHandle, xs XDGSurfaceHandle)
	OnDestroyed(c CompositorHandle, xs XDGSurfaceHandle)
}

type XDGShellFuncs struct {
	Map               func(c CompositorHandle, xs XDGSurfaceHandle)
	Unmap             func(c CompositorHandle, xs XDGSurfaceHandle)
	Commit            func(c CompositorHandle, xs XDGSurfaceHandle)
	PingTimeout       func(c CompositorHandle, xs XDGSurfaceHandle)
	NewPopup          func(c CompositorHandle, xs XDGSurfaceHandle, popup XDGSurfaceHandle)
	MoveRequest       func(c CompositorHandle, xs XDGSurfaceHandle, req *MoveRequest)
	ResizeRequest     func(c CompositorHandle, xs XDGSurfaceHandle, req *ResizeRequest)
	MaximizeRequest   func(c CompositorHandle, xs XDGSurfaceHandle)
	FullscreenRequest func(c CompositorHandle, xs XDGSurfaceHandle, req *FullscreenRequest)
	MinimizeRequest   func(c CompositorHandle, xs XDGSurfaceHandle)
	Destroyed         func(c CompositorHandle, xs XDGSurfaceHandle)
}

func (f XDGShellFuncs) OnMap(c CompositorHandle, xs XDGSurfaceHandle) {
	if f.Map != nil {
		f.Map(c, xs)
	}
}

func (f XDGShellFuncs) OnUnmap(c CompositorHandle, xs XDGSurfaceHandle) {
	if f.Unmap != nil {
		f.Unmap(c, xs)
	}
}

func (f XDGShellFuncs) OnCommit(c CompositorHandle, xs XDGSurfaceHandle) {
	if f.Commit != nil {
		f.Commit(c, xs)
	}
}

func (f XDGShellFuncs) OnPingTimeout(c CompositorHandle, xs XDGSurfaceHandle) {
	if f.PingTimeout != nil {
		f.PingTimeout(c, xs)
	}
}

func (f XDGShellFuncs) OnNewPopup(c CompositorHandle, xs XDGSurfaceHandle, popup XDGSurfaceHandle) {
	if f.NewPopup != nil {
		f.NewPopup(c, xs, popup)
	}
}

func (f XDGShellFuncs) OnMoveRequest(c CompositorHandle, xs XDGSurfaceHandle, req *MoveRequest) {
	if f.MoveRequest != nil {
		f.MoveRequest(c, xs, req)
	}
}

func (f XDGShellFuncs) OnResizeRequest(c CompositorHandle, xs XDGSurfaceHandle, req *ResizeRequest) {
	if f.ResizeRequest != nil {
		f.ResizeRequest(c, xs, req)
	}
}

func (f XDGShellFuncs) OnMaximizeRequest(c CompositorHandle, xs XDGSurfaceHandle) {
	if f.MaximizeRequest != nil {
		f.MaximizeRequest(c, xs)
	}
}

func (f XDGShellFuncs) OnFullscreenRequest(c CompositorHandle, xs XDGSurfaceHandle, req *FullscreenRequest) {
	if f.FullscreenRequest != nil {
		f.FullscreenRequest(c, xs, req)
	}
}

func (f XDGShellFuncs) OnMinimizeRequest(c CompositorHandle, xs XDGSurfaceHandle) {
	if f.MinimizeRequest != nil {
		f.MinimizeRequest(c, xs)
	}
}

func (f XDGShellFuncs) OnDestroyed(c CompositorHandle, xs XDGSurfaceHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, xs)
	}
}

// XDGShellManagerHandler is notified when XDG surfaces come and go.
type XDGShellManagerHandler interface {
	// OnNewSurface is called when a surface is given an XDG role. It
	// may return a handler for the XDG surface's events.
	OnNewSurface(c CompositorHandle, xs XDGSurfaceHandle) XDGShellHandler

	// OnSurfaceDestroyed is called after the XDG surface's own
	// OnDestroyed.
	OnSurfaceDestroyed(c CompositorHandle, xs XDGSurfaceHandle)
}

type XDGShellManagerFuncs struct {
	NewSurface       func(c CompositorHandle, xs XDGSurfaceHandle) XDGShellHandler
	SurfaceDestroyed func(c CompositorHandle, xs XDGSurfaceHandle)
}

func (f XDGShellManagerFuncs) OnNewSurface(c CompositorHandle, xs XDGSurfaceHandle) XDGShellHandler {
	if f.NewSurface == nil {
		return nil
	}
	return f.NewSurface(c, xs)
}

func (f XDGShellManagerFuncs) OnSurfaceDestroyed(c CompositorHandle, xs XDGSurfaceHandle) {
	if f.SurfaceDestroyed != nil {
		f.SurfaceDestroyed(c, xs)
	}
}

type xdgShellManager struct {
	c        *Compositor
	handler  XDGShellManagerHandler
	surfaces *table[*native.XDGSurface, *Compositor, *XDGSurface]
}

func newXDGShellManager(c *Compositor, handler XDGShellManagerHandler) *xdgShellManager {
	if handler == nil {
		handler = XDGShellManagerFuncs{}
	}

	m := xdgShellManager{
		c:        c,
		handler:  handler,
		surfaces: newTable(xdgSurfaceKind),
	}
	c.shell.Events.NewSurface.Add(m.add)
	return &m
}

func (m *xdgShellManager) add(ptr *native.XDGSurface) {
	e := m.surfaces.add(ptr, m.c)
	xh := m.surfaces.handle(e)

	var handler XDGShellHandler
	m.c.dispatch(func(ch CompositorHandle) {
		handler = m.handler.OnNewSurface(ch, xh)
	})
	if handler == nil {
		handler = XDGShellFuncs{}
	}

	on := func(f func(CompositorHandle, XDGSurfaceHandle)) func(*native.XDGSurface) {
		return func(*native.XDGSurface) {
			m.c.dispatch(func(ch CompositorHandle) { f(ch, xh) })
		}
	}

	e.listen(
		ptr.Events.Map.Add(on(handler.OnMap)),
		ptr.Events.Unmap.Add(on(handler.OnUnmap)),
		ptr.Surface().Events.Commit.Add(func(*native.Surface) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnCommit(ch, xh) })
		}),
		ptr.Events.PingTimeout.Add(on(handler.OnPingTimeout)),
		ptr.Events.NewPopup.Add(func(popup *native.XDGSurface) {
			ph := m.surfaces.lookup(popup)
			m.c.dispatch(func(ch CompositorHandle) { handler.OnNewPopup(ch, xh, ph) })
		}),
		ptr.Events.RequestMove.Add(func(ev *native.XDGMoveEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnMoveRequest(ch, xh, &MoveRequest{ev: ev}) })
		}),
		ptr.Events.RequestResize.Add(func(ev *native.XDGResizeEvent) {
			m.c.dispatch(func(ch CompositorHandle) { handler.OnResizeRequest(ch, xh, &ResizeRequest{ev: ev}) })
		}),
		ptr.Events.RequestMaximize.Add(on(handler.OnMaximizeRequest)),
		ptr.Events.RequestFullscreen.Add(func(ev *native.XDGFullscreenEvent) {
			m.c.dispatch(func(ch CompositorHandle) {
				handler.OnFullscreenRequest(ch, xh, &FullscreenRequest{ev: ev, c: m.c})
			})
		}),
		ptr.Events.RequestMinimize.Add(on(handler.OnMinimizeRequest)),
		ptr.Events.Destroy.Add(func(*native.XDGSurface) {
			destroyed(m.c, m.surfaces, ptr, func(ch CompositorHandle, xh XDGSurfaceHandle) {
				handler.OnDestroyed(ch, xh)
				m.handler.OnSurfaceDestroyed(ch, xh)
			})
		}),
	)
}

func (m *xdgShellManager) clear() {
	m.surfaces.clear()
}
