package segment

// Reader consumes a view front to back. It holds its own copy of the view and
// cannot be rewound; build a new Reader to read again.
type Reader[T any, V Viewer[T, V]] struct {
	view V
	pos  int
}

// NewReader returns a Reader positioned before the first element of v.
func NewReader[T any, V Viewer[T, V]](v V) *Reader[T, V] {
	return &Reader[T, V]{view: v}
}

// Peek returns the next element without consuming it.
func (r *Reader[T, V]) Peek() (T, error) {
	if r.pos >= r.view.Len() {
		var zero T
		return zero, ErrEndOfView
	}
	return r.view.Get(r.pos)
}

// Next returns the next element and advances.
func (r *Reader[T, V]) Next() (T, error) {
	v, err := r.Peek()
	if err != nil {
		return v, err
	}
	r.pos++
	return v, nil
}

// Remaining returns how many elements are left.
func (r *Reader[T, V]) Remaining() int { return r.view.Len() - r.pos }

// Consumed returns how many elements have been read.
func (r *Reader[T, V]) Consumed() int { return r.pos }

// Rest returns the unread part of the view.
func (r *Reader[T, V]) Rest() (V, error) {
	return r.view.Skip(r.pos)
}
