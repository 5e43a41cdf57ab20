package di

import (
	"context"
	"fmt"

	"github.com/kbukum/beankit/component"
	"github.com/kbukum/beankit/observability"
)

var _ component.Component = (*Container)(nil)

// Start pre-instantiates singletons when the container was configured to.
func (c *Container) Start(_ context.Context) error {
	c.stopped.Store(false)
	if !c.preInstantiate {
		return nil
	}
	return c.PreInstantiateSingletons()
}

// Stop shuts the container down.
func (c *Container) Stop(_ context.Context) error {
	return c.Shutdown()
}

// Health maps CheckHealth onto the component registry's health model.
func (c *Container) Health(ctx context.Context) component.Health {
	h := c.CheckHealth(ctx)
	status := component.StatusHealthy
	switch h.Status {
	case observability.HealthStatusDown:
		status = component.StatusUnhealthy
	case observability.HealthStatusDegraded:
		status = component.StatusDegraded
	}
	return component.Health{Name: h.Name, Status: status, Message: h.Message}
}

// Describe summarizes the container for startup logs.
func (c *Container) Describe() component.Description {
	details := fmt.Sprintf("%d components", c.registry.Len())
	if c.parent != nil {
		details += ", parent=" + c.parent.Name()
	}
	return component.Description{Type: "container", Details: details}
}
