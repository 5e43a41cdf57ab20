package binding

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/beankit/errors"
)

// typed is implemented by binders that know the dynamic type of their
// instances, enabling ForInstance lookups.
type typed interface {
	InstanceType() reflect.Type
}

// Registry holds binders by type name and by instance type.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Binder
	byType map[reflect.Type]Binder
}

// NewRegistry creates an empty binder registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Binder),
		byType: make(map[reflect.Type]Binder),
	}
}

// Register adds binders. Type names must be unique.
func (r *Registry) Register(binders ...Binder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range binders {
		if b == nil || b.TypeName() == "" {
			return errors.InvalidInput("type_name", "binder type name is required")
		}
		name := b.TypeName()
		if _, exists := r.byName[name]; exists {
			return errors.AlreadyExists("binder", name)
		}
		r.byName[name] = b
		if tb, ok := b.(typed); ok {
			r.byType[tb.InstanceType()] = b
		}
	}
	return nil
}

// Lookup returns the binder for a type name.
func (r *Registry) Lookup(typeName string) (Binder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byName[typeName]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("no binder registered for type %q", typeName)).
			WithDetail("type", typeName)
	}
	return b, nil
}

// ForInstance returns the binder whose instances have the dynamic type of
// instance.
func (r *Registry) ForInstance(instance any) (Binder, error) {
	t := reflect.TypeOf(instance)

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byType[t]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("no binder registered for %v", t)).
			WithDetail("type", fmt.Sprint(t))
	}
	return b, nil
}

// TypeNames returns all registered type names, sorted.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
