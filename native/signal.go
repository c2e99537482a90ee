package native

// Signal is a list of listeners that are notified, in the order that
// they were added, when the signal is emitted.
type Signal[E any] struct {
	listeners []*Listener[E]
}

// Listener is a callback attached to a Signal.
type Listener[E any] struct {
	notify func(E)
	signal *Signal[E]
}

// Remover is implemented by listeners of any signal.
type Remover interface {
	Remove()
}

// Add attaches f to the signal. The returned Listener can be used to
// detach it again.
func (s *Signal[E]) Add(f func(E)) *Listener[E] {
	lis := &Listener[E]{notify: f, signal: s}
	s.listeners = append(s.listeners, lis)
	return lis
}

// Emit calls every attached listener with v. Listeners may add and
// remove listeners, including themselves, while the signal is being
// emitted. Removed listeners that have not been called yet are
// skipped. Added listeners are not called until the next emission.
func (s *Signal[E]) Emit(v E) {
	listeners := make([]*Listener[E], len(s.listeners))
	copy(listeners, s.listeners)

	for _, lis := range listeners {
		if lis.signal == nil {
			continue
		}
		lis.notify(v)
	}
}

// Len returns the number of attached listeners.
func (s *Signal[E]) Len() int {
	return len(s.listeners)
}

// Remove detaches lis from its signal. Removing a listener twice does
// nothing.
func (lis *Listener[E]) Remove() {
	s := lis.signal
	if s == nil {
		return
	}
	lis.signal = nil

	for i, v := range s.listeners {
		if v == lis {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}
