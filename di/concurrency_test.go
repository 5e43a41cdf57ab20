package di

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/value"
)

func TestGet_ConcurrentSingletonBuiltOnce(t *testing.T) {
	var built atomic.Int32
	c := newContainer(t,
		[]binding.Binder{countingType("Counted", &built)},
		[]*descriptor.Descriptor{def("shared", "Counted", named("shared"))},
	)

	const workers = 32
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get("shared")
			if err != nil {
				t.Errorf("Get() error = %v", err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if got := built.Load(); got != 1 {
		t.Errorf("instances built = %d, want 1", got)
	}
	for i, r := range results {
		if r != results[0] {
			t.Fatalf("worker %d got a different instance", i)
		}
	}
}

func TestGet_ConcurrentCyclesAcrossHierarchy(t *testing.T) {
	log := &eventLog{}
	parent := newContainer(t,
		[]binding.Binder{nodeType("Node", log)},
		[]*descriptor.Descriptor{
			def("a", "Node", named("a"), descriptor.Prop("next", value.Ref("b"))),
			def("b", "Node", named("b"), descriptor.Prop("next", value.Ref("a"))),
		},
	)
	child := newContainer(t,
		[]binding.Binder{nodeType("Node", log)},
		[]*descriptor.Descriptor{
			def("x", "Node", named("x"), descriptor.Prop("next", value.Ref("y")), descriptor.Prop("peers", value.ListOf(value.Ref("a")))),
			def("y", "Node", named("y"), descriptor.Prop("next", value.Ref("x")), descriptor.Prop("peers", value.ListOf(value.Ref("b")))),
			{Name: "p", TargetType: "Node", Scope: descriptor.Prototype, Properties: []descriptor.Property{descriptor.Prop("next", value.Ref("x"))}},
		},
		WithParent(parent),
	)

	names := []string{"a", "b", "x", "y", "p"}
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if _, err := child.Get(name); err != nil {
				t.Errorf("Get(%q) error = %v", name, err)
			}
		}(names[i%len(names)])
	}
	wg.Wait()

	a, b := mustNode(t, parent, "a"), mustNode(t, parent, "b")
	x, y := mustNode(t, child, "x"), mustNode(t, child, "y")
	if a.Next != b || b.Next != a || x.Next != y || y.Next != x {
		t.Error("cycles resolved to inconsistent instances")
	}
	if x.Peers[0] != a || y.Peers[0] != b {
		t.Error("child references to the parent resolved to different instances")
	}
	if inProgressLen(parent) != 0 || inProgressLen(child) != 0 {
		t.Error("in-progress residue after concurrent construction")
	}
}

func TestGet_ConcurrentPrototypes(t *testing.T) {
	var built atomic.Int32
	proto := def("proto", "Counted")
	proto.Scope = descriptor.Prototype
	c := newContainer(t, []binding.Binder{countingType("Counted", &built)}, []*descriptor.Descriptor{proto})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get("proto"); err != nil {
				t.Errorf("Get() error = %v", err)
			}
		}()
	}
	wg.Wait()
	if got := built.Load(); got != 16 {
		t.Errorf("prototypes built = %d, want 16", got)
	}
}
