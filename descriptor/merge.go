package descriptor

import (
	"github.com/kbukum/beankit/errors"
)

// DefaultMaxDepth bounds the parent chain walked by Merge.
const DefaultMaxDepth = 32

// Merge flattens the inheritance chain of name into a new Merged value.
//
// Properties come from the root ancestor first, in declaration order; each
// descendant replaces same-named properties in place and appends new ones in
// its own declaration order. Scope, target type and hooks are taken from the
// nearest descriptor that sets them. Parent chains longer than maxDepth,
// which includes every cyclic chain, fail with CYCLIC_PARENT_CHAIN.
func Merge(src Source, name string, maxDepth int) (*Merged, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	m, err := merge(src, name, nil, maxDepth)
	if err != nil {
		return nil, err
	}
	if m.Scope == ScopeDefault {
		m.Scope = Singleton
	}
	return m, nil
}

func merge(src Source, name string, chain []string, maxDepth int) (*Merged, error) {
	chain = append(chain, name)
	if len(chain) > maxDepth {
		return nil, errors.CyclicParentChain(chain[0], chain)
	}

	d, err := src.Lookup(name)
	if err != nil {
		if len(chain) > 1 && errors.IsNotFound(err) {
			return nil, errors.NotFound(name).WithDetail("child", chain[len(chain)-2])
		}
		return nil, err
	}
	if d.Parent == "" {
		return &Merged{
			Name:            d.Name,
			Scope:           d.Scope,
			TargetType:      d.TargetType,
			Properties:      copyProperties(d.Properties),
			InitHook:        d.InitHook,
			DestroyHook:     d.DestroyHook,
			DependencyCheck: d.DependencyCheck,
			Lazy:            d.Lazy,
			Chain:           append([]string(nil), chain...),
		}, nil
	}

	parent, err := merge(src, d.Parent, chain, maxDepth)
	if err != nil {
		return nil, err
	}
	return overlay(parent, d), nil
}

// overlay applies child on top of parent. parent is a fresh value owned by
// the caller, so it is modified in place.
func overlay(parent *Merged, child *Descriptor) *Merged {
	m := parent
	m.Name = child.Name
	m.Lazy = child.Lazy
	m.DependencyCheck = parent.DependencyCheck || child.DependencyCheck
	if child.Scope != ScopeDefault {
		m.Scope = child.Scope
	}
	if child.TargetType != "" {
		m.TargetType = child.TargetType
	}
	if child.InitHook != "" {
		m.InitHook = child.InitHook
	}
	if child.DestroyHook != "" {
		m.DestroyHook = child.DestroyHook
	}

	index := make(map[string]int, len(m.Properties))
	for i, p := range m.Properties {
		index[p.Name] = i
	}
	for _, p := range copyProperties(child.Properties) {
		if i, ok := index[p.Name]; ok {
			m.Properties[i] = p
			continue
		}
		index[p.Name] = len(m.Properties)
		m.Properties = append(m.Properties, p)
	}
	return m
}
