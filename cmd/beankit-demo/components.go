package main

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/beankit/binding"
	"github.com/kbukum/beankit/descriptor"
	"github.com/kbukum/beankit/di"
	"github.com/kbukum/beankit/value"
)

// Clock stamps orders in a fixed zone.
type Clock struct {
	Zone string
	loc  *time.Location
}

func (c *Clock) AfterPropertiesSet() error {
	loc, err := time.LoadLocation(c.Zone)
	if err != nil {
		return fmt.Errorf("clock zone: %w", err)
	}
	c.loc = loc
	return nil
}

func (c *Clock) Now() time.Time { return time.Now().In(c.loc) }

// Connection is one handle produced by ConnectionFactory.
type Connection struct {
	ID    int64
	DSN   string
	Clock *Clock
}

// ConnectionFactory hands out a new Connection per request.
type ConnectionFactory struct {
	DSN    string
	opened atomic.Int64
}

func (f *ConnectionFactory) IsSingleton() bool { return true }

func (f *ConnectionFactory) CreateInstance() (any, error) {
	return &Connection{ID: f.opened.Add(1), DSN: f.DSN}, nil
}

func (f *ConnectionFactory) PassThroughAssignments() []descriptor.Property {
	return []descriptor.Property{descriptor.Prop("clock", value.Ref("clock"))}
}

// OrderRepository keeps orders in memory.
type OrderRepository struct {
	Conn *Connection

	mu     sync.Mutex
	orders map[string]time.Time
}

func (r *OrderRepository) Save(id string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.orders == nil {
		r.orders = make(map[string]time.Time)
	}
	r.orders[id] = at
}

func (r *OrderRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// OrderService and Notifier reference each other.
type OrderService struct {
	Repo       *OrderRepository
	Notifier   *Notifier
	Clock      *Clock
	Currencies []string
}

func (s *OrderService) Place(id string) string {
	s.Repo.Save(id, s.Clock.Now())
	return s.Notifier.Notify(id)
}

type Notifier struct {
	Service  *OrderService
	Channels map[string]string
	sent     atomic.Int64
}

func (n *Notifier) Notify(id string) string {
	n.sent.Add(1)
	channels := make([]string, 0, len(n.Channels))
	for name := range n.Channels {
		channels = append(channels, name)
	}
	sort.Strings(channels)
	return fmt.Sprintf("order %s announced on %v", id, channels)
}

// Destroy reports how many notifications went out.
func (n *Notifier) Destroy() error {
	fmt.Printf("notifier: %d notification(s) sent\n", n.sent.Load())
	return nil
}

// OrderHandler lives in the child container and reaches the service through
// the root.
type OrderHandler struct {
	Service *OrderService
	Routes  map[string]string
}

func (h *OrderHandler) Drain() error {
	fmt.Printf("order-handler: drained %d route(s)\n", len(h.Routes))
	return nil
}

func binders() []binding.Binder {
	return []binding.Binder{
		binding.NewType[Clock]("Clock", nil).
			Property("zone", binding.Field(func(c *Clock, v string) { c.Zone = v })),
		binding.NewType[Connection]("Connection", nil).
			Property("clock", binding.Field(func(c *Connection, v *Clock) { c.Clock = v })),
		binding.NewType[ConnectionFactory]("ConnectionFactory", nil).
			Property("dsn", binding.Field(func(f *ConnectionFactory, v string) { f.DSN = v })),
		binding.NewType[OrderRepository]("OrderRepository", nil).
			Property("conn", binding.Field(func(r *OrderRepository, v *Connection) { r.Conn = v })),
		binding.NewType[OrderService]("OrderService", nil).
			Property("repo", binding.Field(func(s *OrderService, v *OrderRepository) { s.Repo = v })).
			Property("notifier", binding.Field(func(s *OrderService, v *Notifier) { s.Notifier = v })).
			Property("clock", binding.Field(func(s *OrderService, v *Clock) { s.Clock = v })).
			Property("currencies", binding.Field(func(s *OrderService, v []string) { s.Currencies = v })),
		binding.NewType[Notifier]("Notifier", nil).
			Property("service", binding.Field(func(n *Notifier, v *OrderService) { n.Service = v })).
			Property("channels", binding.Field(func(n *Notifier, v map[string]string) { n.Channels = v })),
		binding.NewType[OrderHandler]("OrderHandler", nil).
			Property("service", binding.Field(func(h *OrderHandler, v *OrderService) { h.Service = v })).
			Property("routes", binding.MapField(func(h *OrderHandler, v map[string]string) { h.Routes = v })).
			Hook("drain", (*OrderHandler).Drain),
	}
}

// rootDescriptors wires the shared graph: a factory-backed repository and a
// service/notifier cycle.
func rootDescriptors(cfg OrdersConfig) []*descriptor.Descriptor {
	return []*descriptor.Descriptor{
		{Name: "clock", TargetType: "Clock", Properties: []descriptor.Property{
			descriptor.Prop("zone", value.Of(cfg.Zone)),
		}},
		{Name: "connections", TargetType: "ConnectionFactory", Properties: []descriptor.Property{
			descriptor.Prop("dsn", value.Of(cfg.DSN)),
		}},
		{Name: "repository", TargetType: "OrderRepository", Properties: []descriptor.Property{
			descriptor.Prop("conn", value.Ref("connections")),
		}},
		{Name: "order-service", TargetType: "OrderService", Properties: []descriptor.Property{
			descriptor.Prop("repo", value.Ref("repository")),
			descriptor.Prop("notifier", value.Ref("notifier")),
			descriptor.Prop("clock", value.Ref("clock")),
			descriptor.Prop("currencies", value.Of([]string{"EUR", "USD"})),
		}},
		{Name: "notifier", TargetType: "Notifier", Lazy: true, Properties: []descriptor.Property{
			descriptor.Prop("service", value.Ref("order-service")),
			descriptor.Prop("channels", value.Props(cfg.Channels)),
		}},
	}
}

// webDescriptors are resolved in the child container.
func webDescriptors() []*descriptor.Descriptor {
	return []*descriptor.Descriptor{
		{Name: "order-handler", TargetType: "OrderHandler", DestroyHook: "drain", Properties: []descriptor.Property{
			descriptor.Prop("service", value.Ref("orders")),
			descriptor.Prop("routes", value.MapOf(
				value.Entry("POST /orders", value.Of("place")),
				value.Entry("GET /orders", value.Of("list")),
			)),
		}},
	}
}

// describeGraph resolves the entry points and reports how they are wired.
func describeGraph(root, web *di.Container) ([]string, error) {
	handler, err := di.Resolve[*OrderHandler](web, "order-handler")
	if err != nil {
		return nil, err
	}
	service := handler.Service
	conn, err := di.Resolve[*Connection](root, "connections")
	if err != nil {
		return nil, err
	}
	factory, err := di.Resolve[*ConnectionFactory](root, "&connections")
	if err != nil {
		return nil, err
	}
	aliases := root.AliasesOf("order-service")

	return []string{
		fmt.Sprintf("order-handler.service is the root order-service: %t", service == di.MustResolve[*OrderService](root, "order-service")),
		fmt.Sprintf("order-service -> notifier -> order-service closes the cycle: %t", service.Notifier.Service == service),
		fmt.Sprintf("repository connection #%d, fresh connection #%d, factory opened %d", service.Repo.Conn.ID, conn.ID, factory.opened.Load()),
		fmt.Sprintf("connection clock zone: %s", conn.Clock.Zone),
		fmt.Sprintf("order-service aliases: %v", aliases),
		fmt.Sprintf("place: %s", service.Place("A-1")),
	}, nil
}
