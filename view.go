package segment

// Viewer is the capability every view kind provides. V is the concrete kind
// returned by the shrinking operations, so generic code keeps static types:
//
//	func First[T any, V Viewer[T, V]](v V) (T, error) { return v.Get(0) }
type Viewer[T, V any] interface {
	Len() int
	Get(i int) (T, error)
	SliceFrom(start int) (V, error)
	Slice(start, n int) (V, error)
	Skip(n int) (V, error)
	Take(n int) (V, error)
	SkipLast(n int) (V, error)
	TakeLast(n int) (V, error)
}

// View is the kind-erased capability. It satisfies Viewer[T, View[T]].
type View[T any] interface {
	Len() int
	Get(i int) (T, error)
	SliceFrom(start int) (View[T], error)
	Slice(start, n int) (View[T], error)
	Skip(n int) (View[T], error)
	Take(n int) (View[T], error)
	SkipLast(n int) (View[T], error)
	TakeLast(n int) (View[T], error)
}

var (
	_ Viewer[int, Segment[int]] = Segment[int]{}
	_ Viewer[int, Single[int]]  = Single[int]{}
	_ View[int]                 = erased[int, Segment[int]]{}
)

// Erase hides the concrete kind of v behind View.
func Erase[T any, V Viewer[T, V]](v V) View[T] {
	return erased[T, V]{v: v}
}

type erased[T any, V Viewer[T, V]] struct {
	v V
}

func (e erased[T, V]) Len() int { return e.v.Len() }

func (e erased[T, V]) Get(i int) (T, error) { return e.v.Get(i) }

func (e erased[T, V]) SliceFrom(start int) (View[T], error) {
	return wrap[T, V](e.v.SliceFrom(start))
}

func (e erased[T, V]) Slice(start, n int) (View[T], error) {
	return wrap[T, V](e.v.Slice(start, n))
}

func (e erased[T, V]) Skip(n int) (View[T], error) {
	return wrap[T, V](e.v.Skip(n))
}

func (e erased[T, V]) Take(n int) (View[T], error) {
	return wrap[T, V](e.v.Take(n))
}

func (e erased[T, V]) SkipLast(n int) (View[T], error) {
	return wrap[T, V](e.v.SkipLast(n))
}

func (e erased[T, V]) TakeLast(n int) (View[T], error) {
	return wrap[T, V](e.v.TakeLast(n))
}

func wrap[T any, V Viewer[T, V]](v V, err error) (View[T], error) {
	if err != nil {
		return nil, err
	}
	return erased[T, V]{v: v}, nil
}

// Collect copies the elements of any view into a new slice.
func Collect[T any, V Viewer[T, V]](v V) ([]T, error) {
	out := make([]T, v.Len())
	for i := range out {
		x, err := v.Get(i)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}
