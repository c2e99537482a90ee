package handle

// State is the borrow state of a live resource.
type State uint8

const (
	// Free means that nobody is currently running against the resource.
	Free State = iota

	// Borrowed means that a Guard for the resource is outstanding.
	Borrowed
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case Borrowed:
		return "borrowed"
	default:
		return "unknown"
	}
}

// cell is the liveliness flag shared by the single Owner of a resource
// and every Weak observing it.
type cell struct {
	alive bool
	state State
}

// Owner is the strong side of a liveliness flag. Exactly one exists
// per live resource, held by the wrapper that was created when the
// native library announced the resource. The zero Owner owns nothing.
type Owner struct {
	c *cell
}

// NewOwner returns an Owner for a freshly created, unborrowed
// resource.
func NewOwner() Owner {
	return Owner{c: &cell{alive: true}}
}

// Valid reports whether o actually owns a liveliness flag.
func (o Owner) Valid() bool {
	return o.c != nil
}

// Alive reports whether o has not yet been dropped.
func (o Owner) Alive() bool {
	return (o.c != nil) && o.c.alive
}

// Weak returns a new weak observer of the flag owned by o.
func (o Owner) Weak() Weak {
	return Weak{c: o.c}
}

// Drop marks the resource as dead. Every Weak observing it will fail
// to resolve from now on. Dropping is irreversible and idempotent.
func (o Owner) Drop() {
	if o.c != nil {
		o.c.alive = false
	}
}

// Weak observes a liveliness flag without keeping the resource alive.
// The zero Weak observes nothing and never resolves.
type Weak struct {
	c *cell
}

// Alive reports whether the observed resource still exists.
func (w Weak) Alive() bool {
	return (w.c != nil) && w.c.alive
}

// Borrowed reports whether the observed resource is alive and
// currently borrowed.
func (w Weak) Borrowed() bool {
	return w.Alive() && (w.c.state == Borrowed)
}

// Same reports whether w and other observe the same flag.
func (w Weak) Same(other Weak) bool {
	return w.c == other.c
}
