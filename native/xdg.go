package native

import (
	"fmt"
	"time"

	"deedles.dev/wlr/internal/log"
)

// DefaultPingTimeout is how long a client has to respond to a ping
// before the PingTimeout signal fires.
const DefaultPingTimeout = 10 * time.Second

// XDGSurfaceRole is the role of an XDG surface.
type XDGSurfaceRole int

const (
	XDGSurfaceRoleNone XDGSurfaceRole = iota
	XDGSurfaceRoleToplevel
	XDGSurfaceRolePopup
)

func (r XDGSurfaceRole) String() string {
	switch r {
	case XDGSurfaceRoleToplevel:
		return "toplevel"
	case XDGSurfaceRolePopup:
		return "popup"
	default:
		return "none"
	}
}

// XDGShell is the global through which clients give their surfaces
// desktop-style roles.
type XDGShell struct {
	Object
	Events struct {
		NewSurface Signal[*XDGSurface]
		Destroy    Signal[*XDGShell]
	}

	// PingTimeout overrides DefaultPingTimeout if it is not zero.
	PingTimeout time.Duration

	display   *Display
	destroyed bool
}

func NewXDGShell(d *Display) *XDGShell {
	shell := XDGShell{
		Object:  newObject(),
		display: d,
	}
	d.Events.Destroy.Add(func(*Display) { shell.Destroy() })
	return &shell
}

// GetToplevel gives s the toplevel role.
func (shell *XDGShell) GetToplevel(s *Surface) (*XDGSurface, error) {
	return shell.newSurface(s, XDGSurfaceRoleToplevel, nil)
}

// GetPopup gives s the popup role, with parent as its parent.
func (shell *XDGShell) GetPopup(s *Surface, parent *XDGSurface) (*XDGSurface, error) {
	if parent == nil {
		return nil, fmt.Errorf("get popup for %v: no parent", &s.Object)
	}
	return shell.newSurface(s, XDGSurfaceRolePopup, parent)
}

func (shell *XDGShell) newSurface(s *Surface, role XDGSurfaceRole, parent *XDGSurface) (*XDGSurface, error) {
	if shell.destroyed {
		return nil, fmt.Errorf("get xdg surface for %v: shell destroyed", &s.Object)
	}

	xs := XDGSurface{
		Object:  newObject(),
		shell:   shell,
		surface: s,
		role:    role,
		parent:  parent,
	}
	if !s.setRole("xdg_surface", xs.commit) {
		return nil, fmt.Errorf("get xdg surface for %v: surface already has role %q", &s.Object, s.role)
	}
	xs.surfaceDestroy = s.Events.Destroy.Add(func(*Surface) { xs.Destroy() })

	shell.Events.NewSurface.Emit(&xs)
	if parent != nil {
		parent.popups = append(parent.popups, &xs)
		parent.Events.NewPopup.Emit(&xs)
	}
	return &xs, nil
}

func (shell *XDGShell) pingTimeout() time.Duration {
	if shell.PingTimeout != 0 {
		return shell.PingTimeout
	}
	return DefaultPingTimeout
}

func (shell *XDGShell) Destroy() {
	if shell.destroyed {
		return
	}
	shell.destroyed = true
	shell.Events.Destroy.Emit(shell)
}

// XDGMoveEvent is the payload of the RequestMove signal.
type XDGMoveEvent struct {
	Surface *XDGSurface
	Serial  uint32
}

// XDGResizeEvent is the payload of the RequestResize signal. Edges is
// a bitmask of the edges being dragged.
type XDGResizeEvent struct {
	Surface *XDGSurface
	Serial  uint32
	Edges   uint32
}

// XDGFullscreenEvent is the payload of the RequestFullscreen signal.
type XDGFullscreenEvent struct {
	Surface    *XDGSurface
	Fullscreen bool
	Output     *Output
}

// XDGToplevelState is the state a compositor configures a toplevel
// with.
type XDGToplevelState struct {
	Width, Height int32
	Maximized     bool
	Fullscreen    bool
	Resizing      bool
	Activated     bool
}

// XDGSurface is a surface with an XDG role.
type XDGSurface struct {
	Object
	Events struct {
		Map               Signal[*XDGSurface]
		Unmap             Signal[*XDGSurface]
		PingTimeout       Signal[*XDGSurface]
		NewPopup          Signal[*XDGSurface]
		RequestMove       Signal[*XDGMoveEvent]
		RequestResize     Signal[*XDGResizeEvent]
		RequestMaximize   Signal[*XDGSurface]
		RequestFullscreen Signal[*XDGFullscreenEvent]
		RequestMinimize   Signal[*XDGSurface]
		Destroy           Signal[*XDGSurface]
	}

	shell          *XDGShell
	surface        *Surface
	surfaceDestroy Remover
	role           XDGSurfaceRole
	parent         *XDGSurface
	popups         []*XDGSurface

	title, appID string
	state        XDGToplevelState

	serial     uint32
	configured bool
	pending    []uint32
	mapped     bool

	pingSerial uint32
	pingTimer  *time.Timer

	destroyed bool
}

func (xs *XDGSurface) Surface() *Surface           { return xs.surface }
func (xs *XDGSurface) Role() XDGSurfaceRole        { return xs.role }
func (xs *XDGSurface) Parent() *XDGSurface         { return xs.parent }
func (xs *XDGSurface) Mapped() bool                { return xs.mapped }
func (xs *XDGSurface) Configured() bool            { return xs.configured }
func (xs *XDGSurface) Title() string               { return xs.title }
func (xs *XDGSurface) AppID() string               { return xs.appID }
func (xs *XDGSurface) State() XDGToplevelState     { return xs.state }
func (xs *XDGSurface) SetTitle(title string)       { xs.title = title }
func (xs *XDGSurface) SetAppID(appID string)       { xs.appID = appID }
func (xs *XDGSurface) Popups() []*XDGSurface       { return append([]*XDGSurface(nil), xs.popups...) }
func (xs *XDGSurface) PendingConfigures() []uint32 { return append([]uint32(nil), xs.pending...) }

// Configure sends a configure event with state and returns its serial.
// The surface can't be mapped until the client has acknowledged at
// least one configure event.
func (xs *XDGSurface) Configure(state XDGToplevelState) uint32 {
	xs.serial++
	xs.state = state
	xs.pending = append(xs.pending, xs.serial)
	return xs.serial
}

// AckConfigure simulates the client acknowledging the configure event
// with the given serial, which also acknowledges every earlier one.
func (xs *XDGSurface) AckConfigure(serial uint32) error {
	for i, s := range xs.pending {
		if s == serial {
			xs.pending = xs.pending[i+1:]
			xs.configured = true
			return nil
		}
	}
	return fmt.Errorf("ack configure on %v: unknown serial %v", &xs.Object, serial)
}

func (xs *XDGSurface) commit() {
	hasBuffer := xs.surface.current.Buffer != nil
	switch {
	case !xs.mapped && hasBuffer && xs.configured:
		xs.mapped = true
		xs.Events.Map.Emit(xs)
	case xs.mapped && !hasBuffer:
		xs.unmap()
	}
}

func (xs *XDGSurface) unmap() {
	if !xs.mapped {
		return
	}
	xs.mapped = false
	xs.Events.Unmap.Emit(xs)
}

// Ping asks the client to respond to show that it is still alive. If
// it doesn't respond with Pong in time, PingTimeout is emitted.
func (xs *XDGSurface) Ping() uint32 {
	if xs.pingSerial != 0 {
		return xs.pingSerial
	}

	xs.serial++
	serial := xs.serial
	xs.pingSerial = serial

	loop := xs.shell.display.loop
	xs.pingTimer = time.AfterFunc(xs.shell.pingTimeout(), func() {
		err := loop.Post(func() error {
			if xs.destroyed || (xs.pingSerial != serial) {
				return nil
			}
			xs.pingSerial = 0
			xs.pingTimer = nil
			log.Debug("ping timeout", "surface", &xs.Object, "serial", serial)
			xs.Events.PingTimeout.Emit(xs)
			return nil
		})
		if err != nil {
			log.Debug("ping timeout dropped", "err", err)
		}
	})
	return serial
}

// Pong simulates the client's response to a ping.
func (xs *XDGSurface) Pong(serial uint32) {
	if (xs.pingSerial == 0) || (xs.pingSerial != serial) {
		return
	}
	xs.pingSerial = 0
	if xs.pingTimer != nil {
		xs.pingTimer.Stop()
		xs.pingTimer = nil
	}
}

func (xs *XDGSurface) RequestMove(serial uint32) {
	xs.Events.RequestMove.Emit(&XDGMoveEvent{Surface: xs, Serial: serial})
}

func (xs *XDGSurface) RequestResize(serial, edges uint32) {
	xs.Events.RequestResize.Emit(&XDGResizeEvent{Surface: xs, Serial: serial, Edges: edges})
}

func (xs *XDGSurface) RequestMaximize() {
	xs.Events.RequestMaximize.Emit(xs)
}

func (xs *XDGSurface) RequestFullscreen(fullscreen bool, out *Output) {
	xs.Events.RequestFullscreen.Emit(&XDGFullscreenEvent{Surface: xs, Fullscreen: fullscreen, Output: out})
}

func (xs *XDGSurface) RequestMinimize() {
	xs.Events.RequestMinimize.Emit(xs)
}

// Destroy destroys the XDG surface. Its popups are destroyed first.
// The underlying surface is not destroyed.
func (xs *XDGSurface) Destroy() {
	if xs.destroyed {
		return
	}
	xs.destroyed = true

	for _, popup := range xs.Popups() {
		popup.Destroy()
	}
	xs.unmap()

	xs.Events.Destroy.Emit(xs)

	if xs.pingTimer != nil {
		xs.pingTimer.Stop()
		xs.pingTimer = nil
	}
	xs.surfaceDestroy.Remove()
	xs.surface.onCommit = nil
	if xs.parent != nil {
		for i, p := range xs.parent.popups {
			if p == xs {
				xs.parent.popups = append(xs.parent.popups[:i], xs.parent.popups[i+1:]...)
				break
			}
		}
	}
}
