package di

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/config"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/errors"
	"github.com/kbukum/beankit/logger"
	"github.com/kbukum/beankit/observability"
	"github.com/kbukum/beankit/validation"
)

// FactoryPrefix marks a request for a factory itself rather than its product.
const FactoryPrefix = "&"

// Container resolves named components from a descriptor registry.
type Container struct {
	id             string
	name           string
	registry       *descriptor.Registry
	binders        *binding.Registry
	parent         *Container
	log            *logger.Logger
	tel            *observability.Telemetry
	validator      *validation.Validator
	maxParentDepth int
	destroyOrder   DestroyOrder
	checkAll       bool
	preInstantiate bool

	// mu serializes the singleton path: check cache, construct, populate.
	// active is the request that took mu; only the holder reads or writes it.
	mu     reentrantMutex
	active *request
	// cacheMu guards singletons, order and inProgress. Writers also hold mu.
	cacheMu    sync.RWMutex
	singletons map[string]any
	order      []string
	inProgress map[string]any

	stopped atomic.Bool
}

// New creates a container over registry and binders.
func New(registry *descriptor.Registry, binders *binding.Registry, opts ...Option) *Container {
	c := &Container{
		id:             uuid.NewString(),
		name:           "root",
		registry:       registry,
		binders:        binders,
		maxParentDepth: descriptor.DefaultMaxDepth,
		singletons:     make(map[string]any),
		inProgress:     make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.GetGlobalLogger()
	}
	c.log = c.log.WithFields(logger.Fields(
		logger.FieldContainer, c.name,
		logger.FieldContainerID, c.id,
	))
	if c.validator == nil {
		c.validator = validation.Default()
	}
	c.tel = c.tel.ForContainer(c.name, c.id)
	return c
}

// NewFromConfig creates a container with settings from cfg. Explicit opts
// are applied after the config and win over it.
func NewFromConfig(cfg *config.ContainerConfig, registry *descriptor.Registry, binders *binding.Registry, opts ...Option) (*Container, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	order := DestroyReverse
	if cfg.DestroyOrder == config.DestroyOrderUnordered {
		order = DestroyUnordered
	}
	base := []Option{
		WithName(cfg.Name),
		WithMaxParentDepth(cfg.MaxParentDepth),
		WithDestroyOrder(order),
		WithDependencyCheck(cfg.DependencyCheck),
		WithPreInstantiate(cfg.PreInstantiate),
	}
	return New(registry, binders, append(base, opts...)...), nil
}

// ID returns the container's unique ID.
func (c *Container) ID() string { return c.id }

// Name returns the container's name.
func (c *Container) Name() string { return c.name }

// Parent returns the parent container, or nil.
func (c *Container) Parent() *Container { return c.parent }

// Get returns the component registered under name. A leading "&" on a
// factory component returns the factory instead of its product.
func (c *Container) Get(name string) (any, error) {
	return c.get(c.request(), name)
}

// GetAs is Get followed by a check that the instance is assignable to typ.
func (c *Container) GetAs(name string, typ reflect.Type) (any, error) {
	instance, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	if typ != nil && (instance == nil || !reflect.TypeOf(instance).AssignableTo(typ)) {
		return nil, errors.TypeMismatch(name, typ.String(), typeName(instance))
	}
	return instance, nil
}

// Contains reports whether name resolves here or in an ancestor.
func (c *Container) Contains(name string) bool {
	bare := stripFactoryPrefix(name)
	if c.registry.Contains(bare) {
		return true
	}
	return c.parent != nil && c.parent.Contains(bare)
}

// IsSingleton reports whether Get(name) returns a shared instance. For a
// factory component this is the factory's own IsSingleton, so the factory
// is resolved to answer: a factory not yet built is constructed (and cached
// when its descriptor is singleton). Other components are answered from the
// merged descriptor without allocating anything.
func (c *Container) IsSingleton(name string) (bool, error) {
	bare := stripFactoryPrefix(name)
	canonical := c.registry.ResolveAlias(bare)
	if !c.registry.Contains(canonical) {
		if c.parent != nil {
			return c.parent.IsSingleton(name)
		}
		return false, errors.NotFound(bare)
	}

	merged, err := c.merge(canonical)
	if err != nil {
		return false, err
	}
	if strings.HasPrefix(name, FactoryPrefix) {
		return merged.IsSingleton(), nil
	}

	binder, err := c.binders.Lookup(merged.TargetType)
	if err != nil {
		return false, err
	}
	if !isFactoryBinder(binder) {
		return merged.IsSingleton(), nil
	}
	instance, err := c.Get(FactoryPrefix + canonical)
	if err != nil {
		return false, err
	}
	return instance.(Factory).IsSingleton(), nil
}

// AliasesOf returns the aliases of name's canonical name, asking the parent
// when name is not defined here.
func (c *Container) AliasesOf(name string) []string {
	bare := stripFactoryPrefix(name)
	canonical := c.registry.ResolveAlias(bare)
	if !c.registry.Contains(canonical) && c.parent != nil {
		return c.parent.AliasesOf(name)
	}
	aliases := c.registry.AliasesOf(canonical)
	if canonical != bare {
		aliases = append(aliases, canonical)
		aliases = removeString(aliases, bare)
	}
	return aliases
}

// RegisterAlias makes alias resolve to name in this container. A name
// defined only in an ancestor is aliased in that ancestor.
func (c *Container) RegisterAlias(name, alias string) error {
	if !c.registry.Contains(name) && c.parent != nil && c.parent.Contains(name) {
		return c.parent.RegisterAlias(name, alias)
	}
	if err := c.registry.RegisterAlias(name, alias); err != nil {
		return err
	}
	c.log.Debug("alias registered", logger.Fields(
		logger.FieldComponent, name,
		"alias", alias,
	))
	return nil
}

// Lookup returns the descriptor for name, falling back to the parent. It
// lets a descriptor inherit from one defined in an ancestor container.
func (c *Container) Lookup(name string) (*descriptor.Descriptor, error) {
	d, err := c.registry.Lookup(name)
	if err != nil && errors.IsNotFound(err) && c.parent != nil {
		return c.parent.Lookup(name)
	}
	return d, err
}

// Merged returns the flattened descriptor for name.
func (c *Container) Merged(name string) (*descriptor.Merged, error) {
	canonical := c.registry.ResolveAlias(stripFactoryPrefix(name))
	if !c.registry.Contains(canonical) && c.parent != nil {
		return c.parent.Merged(name)
	}
	return c.merge(canonical)
}

func (c *Container) merge(name string) (*descriptor.Merged, error) {
	return descriptor.Merge(c, name, c.maxParentDepth)
}

// request tracks one top-level Get through nested resolutions.
type request struct {
	ctx context.Context
}

func newRequest() *request {
	return &request{ctx: context.Background()}
}

// request returns the request to resolve under. A call made while this
// goroutine is constructing a singleton (from a hook or a factory) joins
// the constructing request, so it sees the same in-progress instances.
func (c *Container) request() *request {
	if c.mu.heldByCaller() && c.active != nil {
		return c.active
	}
	return newRequest()
}

// acquire takes c.mu, re-entering it when this goroutine already holds it.
func (c *Container) acquire(req *request) (release func()) {
	if c.mu.Lock() {
		c.active = req
		return func() {
			c.active = nil
			c.mu.Unlock()
		}
	}
	return c.mu.Unlock
}

var factoryType = reflect.TypeOf((*Factory)(nil)).Elem()

// isFactoryBinder reports whether binder builds Factory instances. Binders
// that expose their instance type are checked without allocating.
func isFactoryBinder(binder binding.Binder) bool {
	if typed, ok := binder.(interface{ InstanceType() reflect.Type }); ok {
		return typed.InstanceType().Implements(factoryType)
	}
	_, ok := binder.New().(Factory)
	return ok
}

func stripFactoryPrefix(name string) string {
	return strings.TrimLeft(name, FactoryPrefix)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

func removeString(items []string, s string) []string {
	out := items[:0]
	for _, item := range items {
		if item != s {
			out = append(out, item)
		}
	}
	return out
}
