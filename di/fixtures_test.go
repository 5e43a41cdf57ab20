package di

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/logger"
	"github.com/kbukum/beankit/value"
)

type node struct {
	Name     string
	Port     int
	Next     *node
	Peers    []*node
	Index    map[string]*node
	Tags     []string
	Settings map[string]string
}

// eventLog is a goroutine-safe record of hook calls.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func nodeType(name string, log *eventLog) *binding.Type[node] {
	return binding.NewType(name, func() *node { return &node{} }).
		Property("name", binding.Field(func(n *node, v string) { n.Name = v })).
		Property("port", binding.Field(func(n *node, v int) { n.Port = v })).
		Property("next", binding.Field(func(n *node, v *node) { n.Next = v })).
		Property("peers", binding.SliceField(func(n *node, v []*node) { n.Peers = v })).
		Property("index", binding.MapField(func(n *node, v map[string]*node) { n.Index = v })).
		Property("tags", binding.Field(func(n *node, v []string) { n.Tags = v })).
		Property("settings", binding.Field(func(n *node, v map[string]string) { n.Settings = v })).
		Hook("close", func(n *node) error {
			log.add("close:" + n.Name)
			return nil
		}).
		Hook("observe", func(n *node) error {
			next := "<nil>"
			if n.Next != nil {
				next = n.Next.Name
			}
			log.add("observe:" + n.Name + "->" + next)
			return nil
		}).
		Hook("fail", func(n *node) error {
			log.add("fail:" + n.Name)
			return stderrors.New("close failed")
		})
}

func def(name, targetType string, props ...descriptor.Property) *descriptor.Descriptor {
	return &descriptor.Descriptor{Name: name, TargetType: targetType, Properties: props}
}

func named(name string) descriptor.Property {
	return descriptor.Prop("name", value.Of(name))
}

func newContainer(t *testing.T, binders []binding.Binder, ds []*descriptor.Descriptor, opts ...Option) *Container {
	t.Helper()
	reg := descriptor.NewRegistry()
	if err := reg.RegisterAll(ds...); err != nil {
		t.Fatalf("RegisterAll() error = %v", err)
	}
	br := binding.NewRegistry()
	if err := br.Register(binders...); err != nil {
		t.Fatalf("Register binders error = %v", err)
	}
	return New(reg, br, append([]Option{WithLogger(logger.Nop())}, opts...)...)
}

func mustGet(t *testing.T, c *Container, name string) any {
	t.Helper()
	v, err := c.Get(name)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", name, err)
	}
	return v
}

func mustNode(t *testing.T, c *Container, name string) *node {
	t.Helper()
	n, ok := mustGet(t, c, name).(*node)
	if !ok {
		t.Fatalf("Get(%q) is not *node", name)
	}
	return n
}

func inProgressLen(c *Container) int {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	return len(c.inProgress)
}
