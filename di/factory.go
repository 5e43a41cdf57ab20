package di

import (
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/errors"
	"github.com/kbukum/beankit/logger"
)

// Factory is implemented by components that produce the instance callers
// actually receive. The factory itself is cached according to its
// descriptor's scope; its products are never cached.
type Factory interface {
	// IsSingleton reports whether the factory instance is shared. Keep it
	// aligned with the descriptor scope.
	IsSingleton() bool
	// CreateInstance returns a new product.
	CreateInstance() (any, error)
	// PassThroughAssignments are applied to every product after creation.
	PassThroughAssignments() []descriptor.Property
}

// productOf returns what a Get for name yields given the resolved instance.
func (c *Container) productOf(req *request, name string, instance any, deref bool) (any, error) {
	factory, isFactory := instance.(Factory)
	if deref {
		if !isFactory {
			return nil, errors.ExpectedFactory(name, typeName(instance))
		}
		return factory, nil
	}
	if !isFactory {
		return instance, nil
	}
	return c.createProduct(req, name, factory)
}

func (c *Container) createProduct(req *request, name string, factory Factory) (any, error) {
	product, err := factory.CreateInstance()
	if err != nil {
		return nil, errors.Construction(name, err)
	}

	assignments := factory.PassThroughAssignments()
	if len(assignments) > 0 {
		binder, err := c.binders.ForInstance(product)
		if err != nil {
			return nil, errors.Construction(name, err)
		}
		if err := c.applyProperties(req, name, binder, product, assignments); err != nil {
			return nil, err
		}
	}

	c.log.Debug("factory product created", logger.Fields(
		logger.FieldComponent, name,
		logger.FieldTargetType, typeName(product),
		logger.FieldCount, len(assignments),
	))
	return product, nil
}
