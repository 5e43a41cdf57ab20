package di

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/errors"
	"github.com/kbukum/beankit/logger"
	"github.com/kbukum/beankit/value"
)

// get resolves name within an ongoing request.
func (c *Container) get(req *request, name string) (any, error) {
	deref := strings.HasPrefix(name, FactoryPrefix)
	bare := stripFactoryPrefix(name)
	canonical := c.registry.ResolveAlias(bare)

	if !c.registry.Contains(canonical) {
		if c.parent != nil {
			return c.parent.get(req, name)
		}
		return nil, errors.NotFound(bare)
	}

	merged, err := c.merge(canonical)
	if err != nil {
		return nil, err
	}
	instance, err := c.instanceOf(req, canonical, merged)
	if err != nil {
		return nil, err
	}
	return c.productOf(req, canonical, instance, deref)
}

// instanceOf returns the raw instance for a local descriptor, dispatching
// by scope.
func (c *Container) instanceOf(req *request, name string, merged *descriptor.Merged) (any, error) {
	if merged.IsSingleton() {
		return c.singleton(req, name, merged)
	}
	return c.construct(req, name, merged)
}

// cached reads the singleton cache without taking mu.
func (c *Container) cached(name string) (any, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	instance, ok := c.singletons[name]
	return instance, ok
}

func (c *Container) singleton(req *request, name string, merged *descriptor.Merged) (any, error) {
	if instance, ok := c.cached(name); ok {
		return instance, nil
	}

	release := c.acquire(req)
	defer release()

	if instance, ok := c.cached(name); ok {
		return instance, nil
	}
	if instance, ok := c.inProgress[name]; ok {
		c.log.Debug("returning early reference to singleton in construction", logger.Fields(
			logger.FieldComponent, name,
		))
		c.tel.EarlyReference(req.ctx, name)
		return instance, nil
	}

	instance, err := c.construct(req, name, merged)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.singletons[name] = instance
	c.order = append(c.order, name)
	delete(c.inProgress, name)
	c.cacheMu.Unlock()
	c.tel.Cached(req.ctx, 1)
	return instance, nil
}

// construct builds one instance of merged. Singletons must be constructed
// with mu held.
func (c *Container) construct(req *request, name string, merged *descriptor.Merged) (any, error) {
	start := time.Now()
	ctx, op := c.tel.StartConstruct(req.ctx, name, merged.Scope.String(), merged.TargetType)
	parentCtx := req.ctx
	req.ctx = ctx
	defer func() { req.ctx = parentCtx }()

	instance, err := c.build(req, name, merged)
	op.End(err)
	if err != nil {
		c.log.Debug("component construction failed", logger.MergeWithError(logger.Fields(
			logger.FieldComponent, name,
			logger.FieldScope, merged.Scope.String(),
		), err))
		return nil, err
	}

	c.log.Debug("component constructed", logger.Fields(
		logger.FieldComponent, name,
		logger.FieldScope, merged.Scope.String(),
		logger.FieldTargetType, merged.TargetType,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return instance, nil
}

func (c *Container) build(req *request, name string, merged *descriptor.Merged) (instance any, err error) {
	if merged.TargetType == "" {
		return nil, errors.Construction(name, errors.InvalidInput("target_type",
			fmt.Sprintf("descriptor chain %v declares no target type", merged.Chain)))
	}
	binder, err := c.binders.Lookup(merged.TargetType)
	if err != nil {
		return nil, errors.Construction(name, err)
	}

	instance = binder.New()
	factory, isFactory := instance.(Factory)
	if merged.IsSingleton() && !isFactory {
		c.cacheMu.Lock()
		c.inProgress[name] = instance
		c.cacheMu.Unlock()
		defer func() {
			if err != nil {
				c.cacheMu.Lock()
				delete(c.inProgress, name)
				c.cacheMu.Unlock()
			}
		}()
	}

	if err := c.applyProperties(req, name, binder, instance, merged.Properties); err != nil {
		return nil, err
	}
	if merged.DependencyCheck || c.checkAll {
		if err := c.checkDependencies(name, instance); err != nil {
			return nil, err
		}
	}
	if err := c.initialize(name, binder, instance, merged.InitHook); err != nil {
		return nil, errors.Construction(name, err)
	}

	if isFactory && factory.IsSingleton() != merged.IsSingleton() {
		c.log.Warn("factory scope differs from descriptor scope, descriptor scope wins", logger.Fields(
			logger.FieldComponent, name,
			logger.FieldScope, merged.Scope.String(),
		))
	}
	return instance, nil
}

// applyProperties resolves every assignment, applies those that resolved
// and reports all failures together.
func (c *Container) applyProperties(req *request, name string, binder binding.Binder, instance any, props []descriptor.Property) error {
	failures := &errors.PropertyErrors{Component: name}

	resolved := make([]any, len(props))
	ok := make([]bool, len(props))
	for i, p := range props {
		v, err := c.resolveValue(req, p.Value)
		if err != nil {
			failures.Add(p.Name, err)
			continue
		}
		resolved[i], ok[i] = v, true
	}

	for i, p := range props {
		if !ok[i] {
			continue
		}
		if err := binder.Set(instance, p.Name, resolved[i]); err != nil {
			failures.Add(p.Name, err)
		}
	}

	if failures.Empty() {
		return nil
	}
	return errors.Construction(name, failures)
}

func (c *Container) resolveValue(req *request, spec value.Spec) (any, error) {
	switch s := spec.(type) {
	case nil:
		return nil, nil
	case value.Literal:
		return s.Value, nil
	case value.Reference:
		return c.get(req, s.Target)
	case value.List:
		out := make([]any, len(s.Items))
		for i, item := range s.Items {
			v, err := c.resolveValue(req, item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case value.Map:
		out := value.NewOrderedMap(len(s.Entries))
		for _, entry := range s.Entries {
			v, err := c.resolveValue(req, entry.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", entry.Key, err)
			}
			out.Set(entry.Key, v)
		}
		return out, nil
	case value.Properties:
		out := make(map[string]string, len(s.Values))
		for k, v := range s.Values {
			out[k] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value kind %s", spec.Kind())
}

func (c *Container) checkDependencies(name string, instance any) error {
	violations := c.validator.Check(instance)
	if len(violations) == 0 {
		return nil
	}
	failures := &errors.PropertyErrors{Component: name}
	for _, v := range violations {
		failures.Add(v.Field, stderrors.New(v.Message))
	}
	return errors.Construction(name, failures)
}

// initialize runs construction hooks: AfterPropertiesSet, the named init
// hook, then SetContainer.
func (c *Container) initialize(name string, binder binding.Binder, instance any, initHook string) error {
	if in, ok := instance.(Initializer); ok {
		if err := in.AfterPropertiesSet(); err != nil {
			return errors.Hook(name, "AfterPropertiesSet", err)
		}
	}
	if initHook != "" {
		if err := binder.Invoke(instance, initHook); err != nil {
			return errors.Hook(name, initHook, hookCause(err))
		}
	}
	if aware, ok := instance.(ContainerAware); ok {
		aware.SetContainer(c)
	}
	return nil
}

// hookCause unwraps a binder's HOOK_FAILED error so the engine can re-wrap
// it under the component name.
func hookCause(err error) error {
	if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.ErrCodeHook && appErr.Cause != nil {
		return appErr.Cause
	}
	return err
}
