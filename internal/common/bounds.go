package common

// Negative values wrap to large unsigned ones, so one comparison covers both ends.

// IndexOutside reports whether i falls outside [0, n).
func IndexOutside(i, n int) bool {
	return uint(i) >= uint(n)
}

// OutsideInclusive reports whether i falls outside [0, n].
func OutsideInclusive(i, n int) bool {
	return uint(i) > uint(n)
}

// WindowOutside reports whether [offset, offset+count) does not fit inside [0, n).
func WindowOutside(offset, count, n int) bool {
	return uint(offset) > uint(n) || uint(count) > uint(n-offset)
}
