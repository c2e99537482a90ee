package wlr

import (
	"image"
	"time"

	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
)

type SurfaceHandle = handle.Handle[*native.Surface, *Compositor, *Surface]

var surfaceKind = &handle.Kind[*native.Surface, *Compositor, *Surface]{
	Name: "surface",
	Wrap: func(ptr *native.Surface, c *Compositor) *Surface {
		return &Surface{res: handle.Borrow(ptr), c: c}
	},
}

// SurfaceHandler is notified of a single surface's events.
type SurfaceHandler interface {
	OnCommit(c CompositorHandle, s SurfaceHandle)

	// OnDestroyed is called just before the surface is destroyed.
	OnDestroyed(c CompositorHandle, s SurfaceHandle)
}

type SurfaceFuncs struct {
	Commit    func(c CompositorHandle, s SurfaceHandle)
	Destroyed func(c CompositorHandle, s SurfaceHandle)
}

func (f SurfaceFuncs) OnCommit(c CompositorHandle, s SurfaceHandle) {
	if f.Commit != nil {
		f.Commit(c, s)
	}
}

func (f SurfaceFuncs) OnDestroyed(c CompositorHandle, s SurfaceHandle) {
	if f.Destroyed != nil {
		f.Destroyed(c, s)
	}
}

// Surface is a client's surface.
type Surface struct {
	res handle.Resource[*native.Surface]
	c   *Compositor
}

// Client returns a handle to the client that created the surface. It
// is the zero handle for surfaces created by the compositor itself.
func (s *Surface) Client() ClientHandle {
	return s.c.clients.lookup(s.res.Ptr().Client())
}

// Buffer returns the currently committed buffer, or nil if there is
// none.
func (s *Surface) Buffer() image.Image {
	return s.res.Ptr().Current().Buffer
}

// Size returns the size of the surface in surface-local coordinates.
func (s *Surface) Size() (width, height int) {
	return s.res.Ptr().Current().Size()
}

// Damage returns the area damaged by the last commit.
func (s *Surface) Damage() image.Rectangle {
	return s.res.Ptr().Current().Damage
}

// Role returns the name of the surface's role, if it has one.
func (s *Surface) Role() string {
	return s.res.Ptr().Role()
}

// SendFrameDone tells the client that its last frame was presented at
// t.
func (s *Surface) SendFrameDone(t time.Time) {
	s.res.Ptr().SendFrameDone(t)
}
