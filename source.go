package segment

import "unsafe"

// Source is the random-access, fixed-length sequence a Segment borrows from.
// Implementations must keep Len stable for as long as views over them exist.
//
// Segments compare sources by identity, so sources should be pointers or
// other comparable values. A source whose dynamic type is not comparable is
// never considered identical to anything, itself included.
type Source[T any] interface {
	// Len returns the number of elements in the source
	Len() int
	// At returns the element at index i
	At(i int) T
}

// Slice adapts a Go slice to Source without copying it. It is two words wide
// and comparable: two Slice values are the same source when they share the
// backing array start and length.
//
// The runtime gives every zero-length allocation the same base address, so
// Slice values over distinct empty slices are indistinguishable and compare
// as the same source.
type Slice[T any] struct {
	ptr *T
	len int
}

// SliceOf wraps s. The capacity is forgotten.
func SliceOf[T any](s []T) Slice[T] {
	return Slice[T]{ptr: unsafe.SliceData(s), len: len(s)}
}

func (s Slice[T]) Len() int { return s.len }

func (s Slice[T]) At(i int) T { return s.Slice()[i] }

// Slice returns the wrapped Go slice.
func (s Slice[T]) Slice() []T {
	if s.ptr == nil {
		return nil
	}
	return unsafe.Slice(s.ptr, s.len)
}

// inline backs a Segment converted from a Single.
type inline[T any] struct {
	item T
}

func (s *inline[T]) Len() int { return 1 }

func (s *inline[T]) At(i int) T {
	if i != 0 {
		panic(indexError("At", i, 0))
	}
	return s.item
}
