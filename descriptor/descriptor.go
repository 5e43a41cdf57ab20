package descriptor

import (
	"fmt"

	"github.com/kbukum/beankit/value"
)

// Scope determines how many instances a container builds for a descriptor.
type Scope int

const (
	// ScopeDefault inherits the parent's scope, or resolves to Singleton.
	ScopeDefault Scope = iota
	// Singleton shares one instance per container.
	Singleton
	// Prototype builds a new instance per request.
	Prototype
)

func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Prototype:
		return "prototype"
	case ScopeDefault:
		return "default"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// ParseScope converts "singleton" or "prototype" (or "") to a Scope.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "":
		return ScopeDefault, nil
	case "singleton":
		return Singleton, nil
	case "prototype":
		return Prototype, nil
	}
	return ScopeDefault, fmt.Errorf("unknown scope %q", s)
}

// Property assigns a value spec to a named property.
type Property struct {
	Name  string
	Value value.Spec
}

// Prop is shorthand for a Property literal.
func Prop(name string, v value.Spec) Property {
	return Property{Name: name, Value: v}
}

// Descriptor describes how to build one named component.
type Descriptor struct {
	Name  string
	Scope Scope
	// TargetType names a type registered with the binding layer. Empty on
	// abstract child descriptors until merged.
	TargetType string
	// Properties are applied in order.
	Properties  []Property
	InitHook    string
	DestroyHook string
	// Parent names a descriptor to inherit from.
	Parent string
	// DependencyCheck validates the instance after properties are applied.
	DependencyCheck bool
	// Lazy excludes a singleton from eager pre-instantiation.
	Lazy bool
}

// Abstract reports whether the descriptor cannot be built on its own.
func (d *Descriptor) Abstract() bool {
	return d.TargetType == ""
}

// Merged is the flattened form of a descriptor after inheritance. Each
// merge produces a new value; nothing in it is shared with the registry.
type Merged struct {
	Name            string
	Scope           Scope
	TargetType      string
	Properties      []Property
	InitHook        string
	DestroyHook     string
	DependencyCheck bool
	Lazy            bool
	// Chain lists the descriptor names merged, child first.
	Chain []string
}

// IsSingleton reports whether the merged scope is Singleton.
func (m *Merged) IsSingleton() bool {
	return m.Scope != Prototype
}

// Property returns the merged assignment for name.
func (m *Merged) Property(name string) (Property, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

func copyProperties(props []Property) []Property {
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = Property{Name: p.Name}
		if p.Value != nil {
			out[i].Value = p.Value.Clone()
		}
	}
	return out
}
