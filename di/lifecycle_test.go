package di

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/component"
	"github.com/kbukum/beankit/config"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/errors"
	"github.com/kbukum/beankit/observability"
	"github.com/kbukum/beankit/value"
)

// chain registers a -> b -> c, so construction completes c, b, a.
func chain(destroyHook map[string]string) []*descriptor.Descriptor {
	a := def("a", "Node", named("a"), descriptor.Prop("next", value.Ref("b")))
	b := def("b", "Node", named("b"), descriptor.Prop("next", value.Ref("c")))
	c := def("c", "Node", named("c"))
	for _, d := range []*descriptor.Descriptor{a, b, c} {
		d.DestroyHook = "close"
		if hook, ok := destroyHook[d.Name]; ok {
			d.DestroyHook = hook
		}
	}
	return []*descriptor.Descriptor{a, b, c}
}

func TestShutdown_ReverseConstructionOrder(t *testing.T) {
	log := &eventLog{}
	c := newContainer(t, []binding.Binder{nodeType("Node", log)}, chain(nil))
	first := mustNode(t, c, "a")

	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	want := []string{"close:a", "close:b", "close:c"}
	if got := log.list(); !reflect.DeepEqual(got, want) {
		t.Errorf("destroy events = %v, want %v", got, want)
	}

	if err := c.Shutdown(); err != nil {
		t.Fatalf("second Shutdown() error = %v", err)
	}
	if got := log.list(); len(got) != 3 {
		t.Errorf("second shutdown destroyed again: %v", got)
	}

	if mustNode(t, c, "a") == first {
		t.Error("Get after Shutdown returned the destroyed instance")
	}
}

func TestShutdown_Unordered(t *testing.T) {
	log := &eventLog{}
	c := newContainer(t, []binding.Binder{nodeType("Node", log)}, chain(nil), WithDestroyOrder(DestroyUnordered))
	mustGet(t, c, "a")

	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	got := log.list()
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"close:a", "close:b", "close:c"}) {
		t.Errorf("destroy events = %v", got)
	}
}

func TestShutdown_FailingHookDoesNotStopOthers(t *testing.T) {
	log := &eventLog{}
	c := newContainer(t, []binding.Binder{nodeType("Node", log)}, chain(map[string]string{"b": "fail"}))
	mustGet(t, c, "a")

	err := c.Shutdown()
	if !errors.IsHook(err) {
		t.Fatalf("Shutdown() error = %v, want HOOK_FAILED", err)
	}
	if !strings.Contains(err.Error(), "close failed") {
		t.Errorf("error %q does not carry the hook's cause", err)
	}
	want := []string{"close:a", "fail:b", "close:c"}
	if got := log.list(); !reflect.DeepEqual(got, want) {
		t.Errorf("destroy events = %v, want %v", got, want)
	}
	if c.CheckHealth(context.Background()).Details["cached"] != "0" {
		t.Error("cache not cleared after failed shutdown")
	}
}

func TestShutdown_PrototypesAreNotDestroyed(t *testing.T) {
	log := &eventLog{}
	p := def("p", "Node", named("p"))
	p.Scope, p.DestroyHook = descriptor.Prototype, "close"
	c := newContainer(t, []binding.Binder{nodeType("Node", log)}, []*descriptor.Descriptor{p})
	mustGet(t, c, "p")
	if err := c.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if got := log.list(); len(got) != 0 {
		t.Errorf("prototype destroyed: %v", got)
	}
}

func countingType(name string, built *atomic.Int32) *binding.Type[node] {
	return binding.NewType(name, func() *node {
		built.Add(1)
		return &node{}
	}).Property("name", binding.Field(func(n *node, v string) { n.Name = v }))
}

func TestPreInstantiateSingletons(t *testing.T) {
	var built atomic.Int32
	lazy := def("lazy", "Counted")
	lazy.Lazy = true
	proto := def("proto", "Counted")
	proto.Scope = descriptor.Prototype
	c := newContainer(t,
		[]binding.Binder{countingType("Counted", &built)},
		[]*descriptor.Descriptor{def("eager", "Counted"), lazy, proto, {Name: "derived", Parent: "eager"}},
	)

	if err := c.PreInstantiateSingletons(); err != nil {
		t.Fatalf("PreInstantiateSingletons() error = %v", err)
	}
	if got := built.Load(); got != 2 {
		t.Errorf("instances built = %d, want 2 (eager, derived)", got)
	}
	states := make(map[string]State)
	for _, info := range c.Registrations() {
		states[info.Name] = info.State
	}
	want := map[string]State{"eager": StateCached, "lazy": StateRegistered, "proto": StateRegistered, "derived": StateCached}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("states = %v, want %v", states, want)
	}

	mustGet(t, c, "lazy")
	if got := built.Load(); got != 3 {
		t.Errorf("lazy singleton not built on demand, built = %d", got)
	}
}

func TestPreInstantiateSingletons_StopsAtFailure(t *testing.T) {
	c := newContainer(t,
		[]binding.Binder{nodeType("Node", &eventLog{})},
		[]*descriptor.Descriptor{
			def("bad", "Node", descriptor.Prop("next", value.Ref("ghost"))),
			def("good", "Node"),
		},
	)
	if err := c.PreInstantiateSingletons(); !errors.IsConstruction(err) {
		t.Errorf("PreInstantiateSingletons() error = %v, want CONSTRUCTION_FAILED", err)
	}
	if info, _ := c.Registration("good"); info.State != StateRegistered {
		t.Error("pre-instantiation continued past a failure")
	}
}

func TestContainer_ComponentLifecycle(t *testing.T) {
	var built atomic.Int32
	c := newContainer(t,
		[]binding.Binder{countingType("Counted", &built)},
		[]*descriptor.Descriptor{def("eager", "Counted")},
		WithName("app"), WithPreInstantiate(true),
	)
	var _ component.Describable = c
	ctx := context.Background()

	reg := component.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.StartAll(ctx); err != nil {
		t.Fatalf("StartAll() error = %v", err)
	}
	if built.Load() != 1 {
		t.Error("Start did not pre-instantiate")
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy || h.Name != "app" {
		t.Errorf("Health() = %+v", h)
	}

	h := c.CheckHealth(ctx)
	if h.Details["cached"] != "1" || h.Details["registered"] != "1" || h.Details["id"] != c.ID() {
		t.Errorf("CheckHealth() details = %v", h.Details)
	}

	if err := reg.StopAll(ctx); err != nil {
		t.Fatalf("StopAll() error = %v", err)
	}
	if got := c.CheckHealth(ctx).Status; got != observability.HealthStatusDown {
		t.Errorf("status after stop = %s", got)
	}
	if got := c.Health(ctx).Status; got != component.StatusUnhealthy {
		t.Errorf("component status after stop = %s", got)
	}

	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if c.Health(ctx).Status != component.StatusHealthy || built.Load() != 2 {
		t.Error("restart did not rebuild singletons")
	}
	if d := c.Describe(); d.Type != "container" || d.Details != "1 components" {
		t.Errorf("Describe() = %+v", d)
	}
}

func TestNewFromConfig_PreInstantiateOnStart(t *testing.T) {
	var built atomic.Int32
	reg := descriptor.NewRegistry()
	if err := reg.Register(def("eager", "Counted")); err != nil {
		t.Fatal(err)
	}
	binders := binding.NewRegistry()
	if err := binders.Register(countingType("Counted", &built)); err != nil {
		t.Fatal(err)
	}
	c, err := NewFromConfig(&config.ContainerConfig{PreInstantiate: true}, reg, binders)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if built.Load() != 1 || c.Name() != "root" {
		t.Errorf("built = %d, name = %q", built.Load(), c.Name())
	}
}
