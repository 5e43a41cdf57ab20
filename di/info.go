package di

import (
	"context"
	"strconv"

	"github.com/kbukum/beankit/observability"
)

// State is the lifecycle state of a named component in one container.
type State string

const (
	StateRegistered State = "registered"
	StateInProgress State = "in_progress"
	StateCached     State = "cached"
)

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Name       string   `json:"name"`
	Scope      string   `json:"scope"`
	TargetType string   `json:"target_type,omitempty"`
	Parent     string   `json:"parent,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
	Lazy       bool     `json:"lazy,omitempty"`
	State      State    `json:"state"`
	Error      string   `json:"error,omitempty"`
}

// Registrations lists the container's own descriptors in registration order.
func (c *Container) Registrations() []RegistrationInfo {
	names := c.registry.Names()
	result := make([]RegistrationInfo, 0, len(names))
	for _, name := range names {
		result = append(result, c.registration(name))
	}
	return result
}

// Registration describes one component, searching ancestors when name is
// not defined here.
func (c *Container) Registration(name string) (RegistrationInfo, bool) {
	canonical := c.registry.ResolveAlias(stripFactoryPrefix(name))
	if !c.registry.Contains(canonical) {
		if c.parent != nil {
			return c.parent.Registration(name)
		}
		return RegistrationInfo{}, false
	}
	return c.registration(canonical), true
}

func (c *Container) registration(name string) RegistrationInfo {
	info := RegistrationInfo{
		Name:    name,
		Aliases: c.registry.AliasesOf(name),
		State:   c.state(name),
	}
	if d, err := c.registry.Lookup(name); err == nil {
		info.Parent = d.Parent
	}
	merged, err := c.merge(name)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Scope = merged.Scope.String()
	info.TargetType = merged.TargetType
	info.Lazy = merged.Lazy
	return info
}

func (c *Container) state(name string) State {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	if _, ok := c.singletons[name]; ok {
		return StateCached
	}
	if _, ok := c.inProgress[name]; ok {
		return StateInProgress
	}
	return StateRegistered
}

// CheckHealth reports the container as down after Shutdown, up otherwise.
func (c *Container) CheckHealth(_ context.Context) observability.Health {
	c.cacheMu.RLock()
	cached, inProgress := len(c.singletons), len(c.inProgress)
	c.cacheMu.RUnlock()

	h := observability.Health{
		Name:   c.name,
		Status: observability.HealthStatusUp,
		Details: map[string]string{
			"id":          c.id,
			"registered":  strconv.Itoa(c.registry.Len()),
			"cached":      strconv.Itoa(cached),
			"in_progress": strconv.Itoa(inProgress),
		},
	}
	if c.stopped.Load() {
		h.Status = observability.HealthStatusDown
		h.Message = "container shut down"
	}
	return h
}
