package di

import (
	"fmt"
	"reflect"

	"github.com/kbukum/beankit/errors"
)

// MustResolve resolves a component as T and panics on failure. Use it in
// wiring code where a missing component is a programming error.
//
//	srv := di.MustResolve[*Server](c, "server")
func MustResolve[T any](c *Container, name string) T {
	result, err := Resolve[T](c, name)
	if err != nil {
		panic(fmt.Sprintf("di: %v", err))
	}
	return result
}

// Resolve resolves a component as T. It fails with TYPE_MISMATCH when the
// instance is not a T.
//
//	store, err := di.Resolve[Store](c, "store")
//	if err != nil {
//	    return fmt.Errorf("failed to get store: %w", err)
//	}
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	instance, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.TypeMismatch(name, reflect.TypeOf((*T)(nil)).Elem().String(), typeName(instance))
	}
	return result, nil
}

// TryResolve resolves an optional component, returning false on any failure.
//
//	if metrics, ok := di.TryResolve[Metrics](c, "metrics"); ok {
//	    metrics.Record(...)
//	}
func TryResolve[T any](c *Container, name string) (T, bool) {
	result, err := Resolve[T](c, name)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}
