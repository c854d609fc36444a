package common

import "reflect"

// Equal compares two values of the same type. Nil values are equal to each
// other and unequal to anything else. Values that can be compared with ==
// are, the rest fall back to reflect.DeepEqual. Comparability is decided per
// value, since an interface field may hold a slice or map.
func Equal[T any](a, b T) bool {
	x, y := any(a), any(b)
	if isNil(x) || isNil(y) {
		return isNil(x) && isNil(y)
	}
	if reflect.TypeOf(x) != reflect.TypeOf(y) {
		return false
	}
	if canCompare(x) && canCompare(y) {
		return x == y
	}
	return reflect.DeepEqual(x, y)
}

// SameRef reports whether a and b are the identical reference. Values that
// cannot be compared with == are never identical.
func SameRef(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !canCompare(a) || !canCompare(b) {
		return false
	}
	return a == b
}

// canCompare reports whether == on v cannot panic, looking through interface
// fields at what they hold.
func canCompare(v any) bool {
	return reflect.ValueOf(v).Comparable()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
