// Package segment provides allocation-free views over indexable sequences.
//
// A Segment borrows a Source and remembers an offset and a count. Shrinking a
// Segment produces a new value over the same source; neither the source nor
// the original view is touched. Views do not synchronize access: mutating a
// source while views over it are in use is the caller's responsibility, and
// shrinking a source below a view's bound is undefined behaviour.
package segment

import (
	"fmt"
	"iter"
	"strings"

	"github.com/rawbytedev/segment/internal/common"
)

// Segment is a window [offset, offset+count) over a Source. The zero value is
// the canonical empty view, which has no source.
type Segment[T any] struct {
	src    Source[T]
	offset int
	count  int
}

// Empty returns the canonical sourceless view.
func Empty[T any]() Segment[T] {
	return Segment[T]{}
}

// Of returns a view over the whole source.
func Of[T any](src Source[T]) (Segment[T], error) {
	if src == nil {
		return Segment[T]{}, ErrNilSource
	}
	return Segment[T]{src: src, count: src.Len()}, nil
}

// New returns a view over count elements of src starting at offset.
// offset may equal src.Len() when count is zero.
func New[T any](src Source[T], offset, count int) (Segment[T], error) {
	if src == nil {
		return Segment[T]{}, ErrNilSource
	}
	n := src.Len()
	if common.WindowOutside(offset, count, n) {
		if common.OutsideInclusive(offset, n) {
			return Segment[T]{}, &RangeError{Op: "New", Arg: "offset", Value: offset, Limit: n, Kind: ErrConstruction}
		}
		return Segment[T]{}, &RangeError{Op: "New", Arg: "count", Value: count, Limit: n - offset, Kind: ErrConstruction}
	}
	return Segment[T]{src: src, offset: offset, count: count}, nil
}

// AsSegment returns a view from offset to the end of src. A nil source yields
// the empty view.
func AsSegment[T any](src Source[T], offset int) (Segment[T], error) {
	if src == nil {
		return Segment[T]{}, nil
	}
	return New(src, offset, src.Len()-offset)
}

// FromSlice returns a view over all of s. A nil slice yields the empty view.
//
// Wrapping s in a Source allocates once per call. Callers constructing views
// in a hot path should wrap once with SliceOf and use Of or New, which do not
// allocate when handed an existing Source.
func FromSlice[T any](s []T) Segment[T] {
	if s == nil {
		return Segment[T]{}
	}
	return Segment[T]{src: SliceOf(s), count: len(s)}
}

// FromSliceRange returns a view over s[offset:offset+count]. A nil slice
// yields the empty view.
func FromSliceRange[T any](s []T, offset, count int) (Segment[T], error) {
	if s == nil {
		return Segment[T]{}, nil
	}
	return New[T](SliceOf(s), offset, count)
}

// HasSource reports whether the view references a source.
func (s Segment[T]) HasSource() bool { return s.src != nil }

// Source returns the borrowed source, or nil for the empty view.
func (s Segment[T]) Source() Source[T] { return s.src }

// Offset returns the start of the window within the source.
func (s Segment[T]) Offset() int { return s.offset }

// Len returns the number of elements in the view.
func (s Segment[T]) Len() int { return s.count }

// Get returns the element at position i of the view.
func (s Segment[T]) Get(i int) (T, error) {
	if common.IndexOutside(i, s.count) {
		var zero T
		return zero, indexError("Get", i, s.count-1)
	}
	return s.src.At(s.offset + i), nil
}

// Equal reports whether both views are sourceless, or whether they share the
// same source instance, offset and count. Contents are never compared.
func (s Segment[T]) Equal(other Segment[T]) bool {
	if s.src == nil || other.src == nil {
		return s.src == nil && other.src == nil
	}
	return common.SameRef(s.src, other.src) &&
		s.offset == other.offset &&
		s.count == other.count
}

// SliceFrom returns the view over [start, Len()).
func (s Segment[T]) SliceFrom(start int) (Segment[T], error) {
	if s.src == nil {
		return Segment[T]{}, nil
	}
	if common.OutsideInclusive(start, s.count) {
		return Segment[T]{}, indexError("SliceFrom", start, s.count)
	}
	return Segment[T]{src: s.src, offset: s.offset + start, count: s.count - start}, nil
}

// Slice returns the view over [start, start+n).
func (s Segment[T]) Slice(start, n int) (Segment[T], error) {
	if s.src == nil {
		return Segment[T]{}, nil
	}
	if common.OutsideInclusive(start, s.count) {
		return Segment[T]{}, indexError("Slice", start, s.count)
	}
	if common.OutsideInclusive(n, s.count-start) {
		return Segment[T]{}, &RangeError{Op: "Slice", Arg: "length", Value: n, Limit: s.count - start, Kind: ErrIndexRange}
	}
	return Segment[T]{src: s.src, offset: s.offset + start, count: n}, nil
}

// Skip drops the first n elements.
func (s Segment[T]) Skip(n int) (Segment[T], error) {
	if s.src == nil {
		return Segment[T]{}, nil
	}
	if common.OutsideInclusive(n, s.count) {
		return Segment[T]{}, countError("Skip", n, s.count)
	}
	return Segment[T]{src: s.src, offset: s.offset + n, count: s.count - n}, nil
}

// Take keeps the first n elements.
func (s Segment[T]) Take(n int) (Segment[T], error) {
	if s.src == nil {
		return Segment[T]{}, nil
	}
	if common.OutsideInclusive(n, s.count) {
		return Segment[T]{}, countError("Take", n, s.count)
	}
	return Segment[T]{src: s.src, offset: s.offset, count: n}, nil
}

// TakeLast keeps the last n elements. An n larger than Len() surfaces as the
// count error of the underlying Skip.
func (s Segment[T]) TakeLast(n int) (Segment[T], error) {
	return s.Skip(s.count - n)
}

// SkipLast drops the last n elements.
func (s Segment[T]) SkipLast(n int) (Segment[T], error) {
	return s.Take(s.count - n)
}

// ToSlice materializes the view into a new slice.
//
// TODO: the guard returns nothing for every sourced view; invert it to
// "no source or empty" once callers confirm they want the copy. Use CopyTo
// meanwhile.
func (s Segment[T]) ToSlice() []T {
	if s.src != nil || s.count == 0 {
		return []T{}
	}
	out := make([]T, s.count)
	s.CopyTo(out)
	return out
}

// CopyTo copies up to len(dst) elements of the view into dst and returns the
// number copied.
func (s Segment[T]) CopyTo(dst []T) int {
	if s.src == nil {
		return 0
	}
	if src, ok := s.src.(Slice[T]); ok {
		return copy(dst, src.Slice()[s.offset:s.offset+s.count])
	}
	n := min(len(dst), s.count)
	for i := 0; i < n; i++ {
		dst[i] = s.src.At(s.offset + i)
	}
	return n
}

// IndexOf returns the position of the first element equal to item, or -1.
func (s Segment[T]) IndexOf(item T) int {
	return s.IndexFunc(func(v T) bool { return common.Equal(v, item) })
}

// IndexFunc returns the position of the first element satisfying f, or -1.
func (s Segment[T]) IndexFunc(f func(T) bool) int {
	if s.src == nil {
		return -1
	}
	for i := 0; i < s.count; i++ {
		if f(s.src.At(s.offset + i)) {
			return i
		}
	}
	return -1
}

// Contains reports whether any element equals item.
func (s Segment[T]) Contains(item T) bool {
	return s.IndexOf(item) >= 0
}

// Single converts a one-element view to a Single.
func (s Segment[T]) Single() (Single[T], error) {
	if s.count != 1 {
		return Single[T]{}, &RangeError{Op: "Single", Arg: "length", Value: s.count, Limit: 1, Kind: ErrCountRange}
	}
	return Single[T]{item: s.src.At(s.offset)}, nil
}

// Enumerate returns a restartable cursor over the view.
func (s Segment[T]) Enumerate() Enumerator[T] {
	if s.src == nil {
		return Enumerator[T]{current: -1}
	}
	return Enumerator[T]{
		src:     s.src,
		start:   s.offset,
		end:     s.offset + s.count,
		current: s.offset - 1,
	}
}

// All yields position and element pairs in order.
func (s Segment[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.count; i++ {
			if !yield(i, s.src.At(s.offset+i)) {
				return
			}
		}
	}
}

// Values yields the elements in order.
func (s Segment[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < s.count; i++ {
			if !yield(s.src.At(s.offset + i)) {
				return
			}
		}
	}
}

// Reader returns a sequential reader positioned at the first element.
func (s Segment[T]) Reader() *Reader[T, Segment[T]] {
	return NewReader[T](s)
}

// MarshalYAML encodes the view as a sequence of its elements.
func (s Segment[T]) MarshalYAML() (any, error) {
	out := make([]T, s.count)
	s.CopyTo(out)
	return out, nil
}

func (s Segment[T]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Segment[%d:%d]", s.offset, s.count)
	b.WriteByte('[')
	for i, v := range s.All() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, v)
	}
	b.WriteByte(']')
	return b.String()
}
