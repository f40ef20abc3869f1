// Package registry implements the write-once set of published constants.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrUndefined indicates the requested constant has not been defined.
	ErrUndefined = errors.New("constant is not defined")
	// ErrTypeMismatch indicates the constant holds a value of a different type.
	ErrTypeMismatch = errors.New("constant has a different type")
	// ErrUnsupportedValue indicates a value that is not a string, bool or int.
	ErrUnsupportedValue = errors.New("constant values must be string, bool or int")
)

// Registry maps constant names to typed values. Once a name is defined its
// value never changes; later definitions are ignored.
type Registry struct {
	mu     sync.RWMutex
	values map[string]any
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{values: make(map[string]any)}
}

// Define stores value under name unless name is already defined, and reports
// whether it stored. Unsupported value types are never stored.
func (r *Registry) Define(name string, value any) bool {
	defined, err := r.DefineChecked(name, value)
	return err == nil && defined
}

// DefineChecked behaves like Define but reports unsupported value types.
func (r *Registry) DefineChecked(name string, value any) (bool, error) {
	switch value.(type) {
	case string, bool, int:
	default:
		return false, fmt.Errorf("%w: %s is %T", ErrUnsupportedValue, name, value)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.values[name]; ok {
		return false, nil
	}
	r.values[name] = value
	return true, nil
}

// Defined reports whether name has a value.
func (r *Registry) Defined(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Lookup returns the value for name.
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[name]
	return v, ok
}

// String returns the string constant stored under name.
func (r *Registry) String(name string) (string, error) {
	return lookupAs[string](r, name)
}

// Bool returns the bool constant stored under name.
func (r *Registry) Bool(name string) (bool, error) {
	return lookupAs[bool](r, name)
}

// Int returns the int constant stored under name.
func (r *Registry) Int(name string) (int, error) {
	return lookupAs[int](r, name)
}

// Names returns all defined names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Snapshot returns a copy of every defined constant.
func (r *Registry) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Len returns the number of defined constants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

func lookupAs[T any](r *Registry, name string) (T, error) {
	var zero T
	v, ok := r.Lookup(name)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUndefined, name)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrTypeMismatch, name, v)
	}
	return typed, nil
}
