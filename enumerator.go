package segment

// Enumerator walks a Segment front to back. Call Next before the first
// Current; Reset rewinds to before the first element.
type Enumerator[T any] struct {
	src     Source[T]
	start   int
	end     int
	current int
}

// Next advances the cursor and reports whether an element is available.
func (e *Enumerator[T]) Next() bool {
	if e.current < e.end {
		e.current++
		return e.current < e.end
	}
	return false
}

// Current returns the element under the cursor.
func (e *Enumerator[T]) Current() (T, error) {
	var zero T
	if e.current < e.start {
		return zero, ErrEnumNotStarted
	}
	if e.current >= e.end {
		return zero, ErrEnumEnded
	}
	return e.src.At(e.current), nil
}

// Reset rewinds the cursor.
func (e *Enumerator[T]) Reset() {
	e.current = e.start - 1
}

// SingleEnumerator walks a Single.
type SingleEnumerator[T any] struct {
	item    T
	current int
}

func (e *SingleEnumerator[T]) Next() bool {
	if e.current < 0 {
		e.current = 0
		return true
	}
	e.current = 1
	return false
}

func (e *SingleEnumerator[T]) Current() (T, error) {
	var zero T
	if e.current < 0 {
		return zero, ErrEnumNotStarted
	}
	if e.current > 0 {
		return zero, ErrEnumEnded
	}
	return e.item, nil
}

func (e *SingleEnumerator[T]) Reset() {
	e.current = -1
}
