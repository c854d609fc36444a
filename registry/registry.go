// Package registry keeps at most one instance per type. A Registry is an
// ordinary value passed where it is needed, or carried in a context.
package registry

import (
	"context"
	"reflect"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rawbytedev/segment/internal/util"
)

// Registry maps a type to its single instance. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	items *orderedmap.OrderedMap[reflect.Type, any]
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{items: orderedmap.New[reflect.Type, any]()}
}

// Set stores v as the instance of T, replacing any previous one. The
// registration order of T is kept from its first Set.
func Set[T any](r *Registry, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items.Set(reflect.TypeFor[T](), v)
}

// Get returns the instance of T. The second return value reports whether
// one was registered.
func Get[T any](r *Registry) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lookup[T](r)
}

// Of returns the registered *T, creating and registering a zero T on first
// use. A stored nil *T counts as unregistered.
func Of[T any](r *Registry) *T {
	if v, _ := Get[*T](r); v != nil {
		return v
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, _ := lookup[*T](r); v != nil {
		return v
	}
	v := new(T)
	r.items.Set(reflect.TypeFor[*T](), v)
	return v
}

// Delete removes the instance of T and reports whether there was one.
func Delete[T any](r *Registry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items.Delete(reflect.TypeFor[T]())
	return ok
}

// Types lists the registered types in registration order.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reflect.Type, 0, r.items.Len())
	for pair := r.items.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items.Len()
}

func lookup[T any](r *Registry) (T, bool) {
	var zero T
	v, ok := r.items.Get(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	if v == nil {
		return zero, true
	}
	typed, ok := v.(T)
	util.Assert(ok, "registry: stored value has the wrong type")
	return typed, true
}

type ctxKey struct{}

// WithRegistry returns a copy of ctx carrying r.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// FromContext returns the Registry carried by ctx.
func FromContext(ctx context.Context) (*Registry, bool) {
	r, ok := ctx.Value(ctxKey{}).(*Registry)
	return r, ok && r != nil
}
