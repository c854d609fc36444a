package segment

import (
	"fmt"
	"iter"

	"github.com/rawbytedev/segment/internal/common"
)

// Single is a view of exactly one element, stored inline. There is no empty
// Single; every shrinking operation either fails or returns the same element.
type Single[T any] struct {
	item T
}

// NewSingle returns a view of item.
func NewSingle[T any](item T) Single[T] {
	return Single[T]{item: item}
}

// Item returns the element.
func (s Single[T]) Item() T { return s.item }

// Len is always 1.
func (s Single[T]) Len() int { return 1 }

// Get returns the element for index 0.
func (s Single[T]) Get(i int) (T, error) {
	if i != 0 {
		var zero T
		return zero, indexError("Get", i, 0)
	}
	return s.item, nil
}

// Equal compares the held elements.
func (s Single[T]) Equal(other Single[T]) bool {
	return common.Equal(s.item, other.item)
}

// SliceFrom accepts only start 0.
func (s Single[T]) SliceFrom(start int) (Single[T], error) {
	if start != 0 {
		return Single[T]{}, indexError("SliceFrom", start, 0)
	}
	return s, nil
}

// Slice accepts only start 0 and length 1.
func (s Single[T]) Slice(start, n int) (Single[T], error) {
	if start != 0 {
		return Single[T]{}, indexError("Slice", start, 0)
	}
	if n != 1 {
		return Single[T]{}, &RangeError{Op: "Slice", Arg: "length", Value: n, Limit: 1, Kind: ErrIndexRange}
	}
	return s, nil
}

// Skip accepts only 0.
func (s Single[T]) Skip(n int) (Single[T], error) {
	if n != 0 {
		return Single[T]{}, countError("Skip", n, 0)
	}
	return s, nil
}

// Take accepts only 1.
func (s Single[T]) Take(n int) (Single[T], error) {
	if n != 1 {
		return Single[T]{}, countError("Take", n, 1)
	}
	return s, nil
}

// TakeLast accepts only 1.
func (s Single[T]) TakeLast(n int) (Single[T], error) {
	if n != 1 {
		return Single[T]{}, countError("TakeLast", n, 1)
	}
	return s, nil
}

// SkipLast accepts only 0.
func (s Single[T]) SkipLast(n int) (Single[T], error) {
	if n != 0 {
		return Single[T]{}, countError("SkipLast", n, 0)
	}
	return s, nil
}

// Segment converts the view into a general Segment. Each call boxes the
// element into a fresh source, so two conversions are never Equal.
func (s Single[T]) Segment() Segment[T] {
	return Segment[T]{src: &inline[T]{item: s.item}, count: 1}
}

// Enumerate returns a restartable cursor yielding the element once.
func (s Single[T]) Enumerate() SingleEnumerator[T] {
	return SingleEnumerator[T]{item: s.item, current: -1}
}

func (s Single[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		yield(0, s.item)
	}
}

func (s Single[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		yield(s.item)
	}
}

// Reader returns a sequential reader over the element.
func (s Single[T]) Reader() *Reader[T, Single[T]] {
	return NewReader[T](s)
}

func (s Single[T]) String() string {
	return fmt.Sprintf("Single[%v]", s.item)
}
