package testutil

import (
	"testing"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/di"
	"github.com/kbukum/beankit/value"
)

type widget struct {
	Label string
	Peer  *widget
}

func widgetBinders() []binding.Binder {
	return []binding.Binder{
		binding.NewType[widget]("Widget", nil).
			Property("label", binding.Field(func(w *widget, v string) { w.Label = v })).
			Property("peer", binding.Field(func(w *widget, v *widget) { w.Peer = v })),
	}
}

func TestNewContainer_SetupAndState(t *testing.T) {
	c := NewContainer(t, widgetBinders(), []*descriptor.Descriptor{
		{Name: "a", TargetType: "Widget", Properties: []descriptor.Property{
			descriptor.Prop("label", value.Of("a")),
			descriptor.Prop("peer", value.Ref("b")),
		}},
		{Name: "b", TargetType: "Widget", Properties: []descriptor.Property{
			descriptor.Prop("peer", value.Ref("a")),
		}},
	}, di.WithName("widgets"), di.WithPreInstantiate(true))
	Setup(t, c)

	RequireState(t, c, "a", di.StateCached)
	RequireState(t, c, "b", di.StateCached)

	a := di.MustResolve[*widget](c, "a")
	if a.Peer.Peer != a {
		t.Error("cycle not closed")
	}
	if err := c.RegisterAlias("a", "first"); err != nil {
		t.Fatal(err)
	}
	RequireSame(t, c, "a", "first")
}
