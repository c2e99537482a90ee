package native

import (
	"image"
	"time"
)

// SurfaceState is the double-buffered state of a surface.
type SurfaceState struct {
	Buffer image.Image
	Damage image.Rectangle
	Scale  int32
	DX, DY int32
}

// Size returns the size of the attached buffer divided by the buffer
// scale.
func (s SurfaceState) Size() (width, height int) {
	if s.Buffer == nil {
		return 0, 0
	}
	scale := int(s.Scale)
	if scale <= 0 {
		scale = 1
	}
	b := s.Buffer.Bounds()
	return b.Dx() / scale, b.Dy() / scale
}

// Surface is a client's rectangular area that can be displayed.
type Surface struct {
	Object
	Events struct {
		Commit  Signal[*Surface]
		Destroy Signal[*Surface]
	}

	client    *Client
	pending   SurfaceState
	current   SurfaceState
	role      string
	onCommit  func()
	frames    []func(time.Time)
	destroyed bool
}

func newSurface(client *Client) *Surface {
	return &Surface{
		Object:  newObject(),
		client:  client,
		pending: SurfaceState{Scale: 1},
		current: SurfaceState{Scale: 1},
	}
}

func (s *Surface) Client() *Client       { return s.client }
func (s *Surface) Current() SurfaceState { return s.current }
func (s *Surface) Pending() SurfaceState { return s.pending }
func (s *Surface) Role() string          { return s.role }

// Attach sets the pending buffer. A nil buffer unmaps the surface on
// the next commit.
func (s *Surface) Attach(buf image.Image, dx, dy int32) {
	s.pending.Buffer = buf
	s.pending.DX = dx
	s.pending.DY = dy
}

// Damage marks part of the pending buffer as changed.
func (s *Surface) Damage(r image.Rectangle) {
	s.pending.Damage = s.pending.Damage.Union(r)
}

func (s *Surface) SetBufferScale(scale int32) {
	s.pending.Scale = scale
}

// Frame registers a callback that is called when the compositor next
// presents the surface.
func (s *Surface) Frame(done func(time.Time)) {
	s.frames = append(s.frames, done)
}

// SendFrameDone calls and discards all pending frame callbacks.
func (s *Surface) SendFrameDone(t time.Time) {
	frames := s.frames
	s.frames = nil
	for _, done := range frames {
		done(t)
	}
}

// Commit applies the pending state. The role's commit hook, if any,
// runs before the Commit signal is emitted.
func (s *Surface) Commit() {
	if s.destroyed {
		return
	}

	s.current = s.pending
	s.pending.Damage = image.Rectangle{}
	s.pending.DX, s.pending.DY = 0, 0

	if s.onCommit != nil {
		s.onCommit()
	}
	s.Events.Commit.Emit(s)
}

// setRole assigns a role to the surface. A surface can only ever have
// one role.
func (s *Surface) setRole(role string, onCommit func()) bool {
	if (s.role != "") && (s.role != role) {
		return false
	}
	s.role = role
	s.onCommit = onCommit
	return true
}

// Destroy destroys the surface, as if the client had destroyed it.
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true

	s.Events.Destroy.Emit(s)
	s.frames = nil
	s.onCommit = nil
}

// Compositor is the global that clients create surfaces through.
type Compositor struct {
	Object
	Events struct {
		NewSurface Signal[*Surface]
		Destroy    Signal[*Compositor]
	}

	display   *Display
	destroyed bool
}

func NewCompositor(d *Display) *Compositor {
	c := Compositor{
		Object:  newObject(),
		display: d,
	}
	d.Events.Destroy.Add(func(*Display) { c.Destroy() })
	return &c
}

// CreateSurface creates a new surface on behalf of client. The surface
// is destroyed when the client disconnects.
func (c *Compositor) CreateSurface(client *Client) *Surface {
	if c.destroyed {
		return nil
	}

	s := newSurface(client)
	if client != nil {
		lis := client.Events.Destroy.Add(func(*Client) { s.Destroy() })
		s.Events.Destroy.Add(func(*Surface) { lis.Remove() })
	}

	c.Events.NewSurface.Emit(s)
	return s
}

func (c *Compositor) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.Events.Destroy.Emit(c)
}
