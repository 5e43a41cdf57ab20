package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/component"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/di"
	"github.com/kbukum/beankit/logger"
)

// NewContainer registers binders and descriptors in fresh registries and
// returns a container over them. It logs nothing unless opts add a logger.
func NewContainer(t testing.TB, binders []binding.Binder, descriptors []*descriptor.Descriptor, opts ...di.Option) *di.Container {
	t.Helper()
	br := binding.NewRegistry()
	if err := br.Register(binders...); err != nil {
		t.Fatalf("register binders: %v", err)
	}
	dr := descriptor.NewRegistry()
	if err := dr.RegisterAll(descriptors...); err != nil {
		t.Fatalf("register descriptors: %v", err)
	}
	return di.New(dr, br, append([]di.Option{di.WithLogger(logger.Nop())}, opts...)...)
}

// Setup starts c and stops it when the test ends.
func Setup(t testing.TB, c component.Component) {
	t.Helper()
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("failed to start component %s: %v", c.Name(), err)
	}
	t.Cleanup(func() {
		if err := c.Stop(ctx); err != nil {
			t.Errorf("failed to stop component %s: %v", c.Name(), err)
		}
	})
}

// RequireState fails the test unless name is registered in c with state.
func RequireState(t testing.TB, c *di.Container, name string, state di.State) {
	t.Helper()
	info, ok := c.Registration(name)
	if !ok {
		t.Fatalf("%s: no registration for %q", c.Name(), name)
	}
	if info.State != state {
		t.Fatalf("%s: %q state = %s, want %s", c.Name(), name, info.State, state)
	}
}

// RequireSame fails the test unless a and b resolve to the same instance.
func RequireSame(t testing.TB, c *di.Container, a, b string) {
	t.Helper()
	x, err := c.Get(a)
	if err != nil {
		t.Fatalf("Get(%q): %v", a, err)
	}
	y, err := c.Get(b)
	if err != nil {
		t.Fatalf("Get(%q): %v", b, err)
	}
	if x != y {
		t.Fatalf("%q and %q resolved to different instances", a, b)
	}
}
