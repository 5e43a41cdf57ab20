package di

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/errors"
	"github.com/kbukum/beankit/logger"
)

// Initializer is called after all properties are applied.
type Initializer interface {
	AfterPropertiesSet() error
}

// ContainerAware receives the container that built it, after init hooks.
type ContainerAware interface {
	SetContainer(c *Container)
}

// Disposable is called when the container shuts down. Instances that do not
// implement it but implement io.Closer are closed instead.
type Disposable interface {
	Destroy() error
}

// PreInstantiateSingletons builds every concrete, non-lazy singleton in
// registration order and stops at the first failure.
func (c *Container) PreInstantiateSingletons() error {
	start := time.Now()
	count := 0
	for _, name := range c.registry.Names() {
		merged, err := c.merge(name)
		if err != nil {
			return err
		}
		if !merged.IsSingleton() || merged.Lazy || merged.TargetType == "" {
			continue
		}
		if _, err := c.instanceOf(newRequest(), name, merged); err != nil {
			return err
		}
		count++
	}
	c.stopped.Store(false)
	c.log.Info("singletons pre-instantiated", logger.Fields(
		logger.FieldCount, count,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return nil
}

// Shutdown destroys every cached singleton and clears the cache. Each
// instance's Destroy (or Close) runs before its named destroy hook. A
// failure is logged and collected; the rest are still destroyed. The
// returned error joins all failures.
func (c *Container) Shutdown() error {
	c.mu.Lock()
	c.cacheMu.Lock()
	instances := c.singletons
	names := append([]string(nil), c.order...)
	c.singletons = make(map[string]any)
	c.order = nil
	c.cacheMu.Unlock()
	c.mu.Unlock()

	switch c.destroyOrder {
	case DestroyUnordered:
		names = names[:0]
		for name := range instances {
			names = append(names, name)
		}
	default:
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}

	ctx := context.Background()
	var errs []error
	for _, name := range names {
		if err := c.destroy(ctx, name, instances[name]); err != nil {
			c.log.Error("destroy failed", logger.MergeWithError(logger.Fields(
				logger.FieldComponent, name,
			), err))
			errs = append(errs, err)
		}
	}
	c.tel.Cached(ctx, -int64(len(instances)))
	c.stopped.Store(true)

	c.log.Info("container shut down", logger.Fields(
		logger.FieldCount, len(names),
		"failed", len(errs),
		"order", c.destroyOrder.String(),
	))
	return stderrors.Join(errs...)
}

func (c *Container) destroy(ctx context.Context, name string, instance any) (err error) {
	_, op := c.tel.StartDestroy(ctx, name)
	defer func() { op.End(err) }()

	var errs []error
	switch d := instance.(type) {
	case Disposable:
		if err := d.Destroy(); err != nil {
			errs = append(errs, errors.Hook(name, "Destroy", err))
		}
	case io.Closer:
		if err := d.Close(); err != nil {
			errs = append(errs, errors.Hook(name, "Close", err))
		}
	}

	merged, err := c.merge(name)
	if err != nil {
		errs = append(errs, err)
		return stderrors.Join(errs...)
	}
	if merged.DestroyHook != "" {
		var binder binding.Binder
		if binder, err = c.binders.Lookup(merged.TargetType); err != nil {
			errs = append(errs, err)
		} else if err := binder.Invoke(instance, merged.DestroyHook); err != nil {
			errs = append(errs, errors.Hook(name, merged.DestroyHook, hookCause(err)))
		}
	}
	return stderrors.Join(errs...)
}
