package di

import (
	"github.com/kbukum/beankit/logger"
	"github.com/kbukum/beankit/observability"
	"github.com/kbukum/beankit/validation"
)

// DestroyOrder selects the order Shutdown destroys singletons in.
type DestroyOrder int

const (
	// DestroyReverse destroys singletons in reverse construction order, so a
	// component is destroyed before the dependencies it finished after.
	DestroyReverse DestroyOrder = iota
	// DestroyUnordered destroys singletons in map iteration order.
	DestroyUnordered
)

func (o DestroyOrder) String() string {
	if o == DestroyUnordered {
		return "unordered"
	}
	return "reverse"
}

// Option configures a Container.
type Option func(*Container)

// WithParent sets the container consulted for names not defined locally.
func WithParent(parent *Container) Option {
	return func(c *Container) { c.parent = parent }
}

// WithLogger sets the container logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) { c.log = l }
}

// WithName names the container in logs, telemetry and introspection.
func WithName(name string) Option {
	return func(c *Container) { c.name = name }
}

// WithMaxParentDepth bounds descriptor parent chains.
func WithMaxParentDepth(depth int) Option {
	return func(c *Container) { c.maxParentDepth = depth }
}

// WithDestroyOrder sets the Shutdown order.
func WithDestroyOrder(order DestroyOrder) Option {
	return func(c *Container) { c.destroyOrder = order }
}

// WithTelemetry records spans and metrics for construction and destruction.
func WithTelemetry(t *observability.Telemetry) Option {
	return func(c *Container) { c.tel = t }
}

// WithValidator sets the validator used for dependency checks.
func WithValidator(v *validation.Validator) Option {
	return func(c *Container) { c.validator = v }
}

// WithDependencyCheck validates every constructed component, not only those
// whose descriptor enables the check.
func WithDependencyCheck(all bool) Option {
	return func(c *Container) { c.checkAll = all }
}

// WithPreInstantiate makes Start build every eager singleton.
func WithPreInstantiate(enabled bool) Option {
	return func(c *Container) { c.preInstantiate = enabled }
}
