package descriptor

import (
	"sort"
	"sync"

	"github.com/kbukum/beankit/errors"
)

// Source supplies descriptors by name. Containers implement it to let a
// child descriptor inherit from a descriptor held by a parent container.
type Source interface {
	Lookup(name string) (*Descriptor, error)
}

// Registry stores descriptors and aliases for one container.
//
// Descriptors are written by a single loader before first use. The alias map
// may change at any time through RegisterAlias and is guarded by the
// registry's RWMutex.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
	order       []string
	aliases     map[string]string
	frozen      bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]*Descriptor),
		aliases:     make(map[string]string),
	}
}

// Register stores a copy of d.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil || d.Name == "" {
		return errors.InvalidInput("name", "descriptor name is required")
	}
	if d.Abstract() && d.Parent == "" {
		return errors.InvalidInput("target_type", "descriptor "+d.Name+" has neither a target type nor a parent")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.InvalidInput("name", "registry is frozen, cannot register "+d.Name)
	}
	if _, exists := r.descriptors[d.Name]; exists {
		return errors.AlreadyExists("descriptor", d.Name)
	}
	if _, exists := r.aliases[d.Name]; exists {
		return errors.AlreadyExists("alias", d.Name)
	}

	cp := *d
	cp.Properties = copyProperties(d.Properties)
	r.descriptors[d.Name] = &cp
	r.order = append(r.order, d.Name)
	return nil
}

// RegisterAll registers each descriptor in order, stopping at the first error.
func (r *Registry) RegisterAll(ds ...*Descriptor) error {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Freeze rejects further descriptor registration. Aliases stay writable.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Lookup resolves aliases and returns a copy of the descriptor.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[r.resolveAlias(name)]
	if !ok {
		return nil, errors.NotFound(name)
	}
	cp := *d
	cp.Properties = copyProperties(d.Properties)
	return &cp, nil
}

// Contains reports whether name, or the name it aliases, is defined here.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.descriptors[r.resolveAlias(name)]
	return ok
}

// ResolveAlias returns the canonical name for name, or name itself.
func (r *Registry) ResolveAlias(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveAlias(name)
}

func (r *Registry) resolveAlias(name string) string {
	// Aliases may point at other aliases. RegisterAlias refuses cycles, the
	// bound is a guard against concurrent misuse.
	for i := 0; i <= len(r.aliases); i++ {
		next, ok := r.aliases[name]
		if !ok {
			return name
		}
		name = next
	}
	return name
}

// RegisterAlias makes alias resolve to name.
func (r *Registry) RegisterAlias(name, alias string) error {
	if name == "" || alias == "" {
		return errors.InvalidInput("alias", "name and alias are required")
	}
	if name == alias {
		return errors.InvalidInput("alias", "alias "+alias+" points at itself")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[alias]; exists {
		return errors.AlreadyExists("descriptor", alias)
	}
	if r.resolveAlias(name) == alias {
		return errors.InvalidInput("alias", "alias "+alias+" would create a cycle")
	}
	if existing, ok := r.aliases[alias]; ok {
		if existing == name {
			return nil
		}
		return errors.AlreadyExists("alias", alias).WithDetail("target", existing)
	}
	r.aliases[alias] = name
	return nil
}

// AliasesOf returns every alias that resolves to canonical, sorted.
func (r *Registry) AliasesOf(canonical string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for alias := range r.aliases {
		if alias != canonical && r.resolveAlias(alias) == canonical {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// Names returns descriptor names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}
