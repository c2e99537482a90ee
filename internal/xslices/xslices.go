package xslices

// Filter returns the elements of s for which f returns true, in
// order, in a new slice.
func Filter[T any, S ~[]T](s S, f func(T) bool) (r S) {
	r = make(S, 0, len(s))
	for _, v := range s {
		if f(v) {
			r = append(r, v)
		}
	}
	return r
}

// Remove returns s without the elements for which f returns true,
// reusing the backing array of s.
func Remove[T any, S ~[]T](s S, f func(T) bool) S {
	r := s[:0]
	for _, v := range s {
		if !f(v) {
			r = append(r, v)
		}
	}
	clear(s[len(r):])
	return r
}
