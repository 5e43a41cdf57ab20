package binding

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/kbukum/beankit/errors"
)

// Binder creates and configures instances of one target type.
type Binder interface {
	// TypeName is the name descriptors use in TargetType.
	TypeName() string
	// New allocates a raw, unconfigured instance.
	New() any
	// Set assigns a resolved value to a named property of instance.
	Set(instance any, property string, v any) error
	// Invoke calls a named hook on instance.
	Invoke(instance any, hook string) error
	// Properties lists the assignable property names, sorted.
	Properties() []string
}

// Setter assigns a resolved value to a field of *T.
type Setter[T any] func(target *T, v any) error

// Type is a Binder for *T built from explicit setters and hooks.
type Type[T any] struct {
	name    string
	newFn   func() *T
	setters map[string]Setter[T]
	hooks   map[string]func(*T) error
}

// NewType creates a binder for *T. newFn may be nil, in which case new(T)
// is used.
func NewType[T any](name string, newFn func() *T) *Type[T] {
	return &Type[T]{
		name:    name,
		newFn:   newFn,
		setters: make(map[string]Setter[T]),
		hooks:   make(map[string]func(*T) error),
	}
}

// Property registers a setter for name.
func (t *Type[T]) Property(name string, set Setter[T]) *Type[T] {
	t.setters[name] = set
	return t
}

// Hook registers a named hook callable as an init or destroy hook.
func (t *Type[T]) Hook(name string, fn func(*T) error) *Type[T] {
	t.hooks[name] = fn
	return t
}

func (t *Type[T]) TypeName() string { return t.name }

// InstanceType is the dynamic type of instances returned by New.
func (t *Type[T]) InstanceType() reflect.Type {
	return reflect.TypeOf((*T)(nil))
}

func (t *Type[T]) New() any {
	if t.newFn != nil {
		return t.newFn()
	}
	return new(T)
}

func (t *Type[T]) Set(instance any, property string, v any) error {
	target, err := t.cast(instance)
	if err != nil {
		return err
	}
	set, ok := t.setters[property]
	if !ok {
		return errors.PropertyResolution(t.name, property, fmt.Errorf("type %s has no property %q", t.name, property))
	}
	if err := set(target, v); err != nil {
		return errors.PropertyResolution(t.name, property, err)
	}
	return nil
}

func (t *Type[T]) Invoke(instance any, hook string) error {
	target, err := t.cast(instance)
	if err != nil {
		return err
	}
	fn, ok := t.hooks[hook]
	if !ok {
		return errors.Hook(t.name, hook, fmt.Errorf("type %s has no hook %q", t.name, hook))
	}
	if err := fn(target); err != nil {
		return errors.Hook(t.name, hook, err)
	}
	return nil
}

func (t *Type[T]) Properties() []string {
	names := make([]string, 0, len(t.setters))
	for name := range t.setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Type[T]) cast(instance any) (*T, error) {
	target, ok := instance.(*T)
	if !ok || target == nil {
		return nil, errors.TypeMismatch(t.name, fmt.Sprintf("%T", (*T)(nil)), fmt.Sprintf("%T", instance))
	}
	return target, nil
}
