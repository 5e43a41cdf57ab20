package inspect

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/beankit/di"
	"github.com/kbukum/beankit/errors"
	"github.com/kbukum/beankit/logger"
	"github.com/kbukum/beankit/observability"
)

// ContainerSummary is the list view of one container.
type ContainerSummary struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Parent     string                     `json:"parent,omitempty"`
	Registered int                        `json:"registered"`
	Status     observability.HealthStatus `json:"status"`
}

// ContainerDetail is a container summary with its registrations.
type ContainerDetail struct {
	ContainerSummary
	Components []di.RegistrationInfo `json:"components"`
}

// Handler serves introspection for a fixed set of containers.
type Handler struct {
	service string
	engine  *gin.Engine
	log     *logger.Logger

	mu         sync.RWMutex
	containers []*di.Container
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger used by the request middleware.
func WithLogger(l *logger.Logger) HandlerOption {
	return func(h *Handler) { h.log = l }
}

// NewHandler creates a handler for containers. service names the health
// report.
func NewHandler(service string, containers []*di.Container, opts ...HandlerOption) *Handler {
	h := &Handler{
		service:    service,
		engine:     gin.New(),
		containers: append([]*di.Container(nil), containers...),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.WithComponent("inspect")
	}

	h.engine.Use(recovery(h.log), requestID(), requestLogger(h.log))
	h.engine.GET("/health", h.health)
	h.engine.GET("/containers", h.listContainers)
	h.engine.GET("/containers/:container", h.getContainer)
	h.engine.GET("/containers/:container/components/:component", h.getComponent)
	return h
}

// Add exposes another container.
func (h *Handler) Add(c *di.Container) {
	h.mu.Lock()
	h.containers = append(h.containers, c)
	h.mu.Unlock()
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.engine.ServeHTTP(w, r)
}

// Routes lists the registered routes as "METHOD path".
func (h *Handler) Routes() []string {
	routes := h.engine.Routes()
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Method+" "+r.Path)
	}
	return out
}

func (h *Handler) snapshot() []*di.Container {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*di.Container(nil), h.containers...)
}

// find matches key against container IDs first, then names.
func (h *Handler) find(key string) (*di.Container, error) {
	containers := h.snapshot()
	for _, c := range containers {
		if c.ID() == key {
			return c, nil
		}
	}
	for _, c := range containers {
		if c.Name() == key {
			return c, nil
		}
	}
	return nil, errors.NotFound(key).WithDetail("kind", "container")
}

func (h *Handler) health(c *gin.Context) {
	containers := h.snapshot()
	checkers := make([]observability.HealthChecker, len(containers))
	for i, container := range containers {
		checkers[i] = container
	}
	report := observability.CheckAll(c.Request.Context(), h.service, "", checkers...)
	status := http.StatusOK
	if report.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (h *Handler) listContainers(c *gin.Context) {
	containers := h.snapshot()
	out := make([]ContainerSummary, 0, len(containers))
	for _, container := range containers {
		out = append(out, summarize(c, container))
	}
	respondOK(c, out)
}

func (h *Handler) getContainer(c *gin.Context) {
	container, err := h.find(c.Param("container"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ContainerDetail{
		ContainerSummary: summarize(c, container),
		Components:       container.Registrations(),
	})
}

func (h *Handler) getComponent(c *gin.Context) {
	container, err := h.find(c.Param("container"))
	if err != nil {
		respondError(c, err)
		return
	}
	name := c.Param("component")
	info, ok := container.Registration(name)
	if !ok {
		respondError(c, errors.NotFound(name).WithDetail("container", container.Name()))
		return
	}
	respondOK(c, info)
}

func summarize(c *gin.Context, container *di.Container) ContainerSummary {
	health := container.CheckHealth(c.Request.Context())
	s := ContainerSummary{
		ID:         container.ID(),
		Name:       container.Name(),
		Registered: len(container.Registrations()),
		Status:     health.Status,
	}
	if p := container.Parent(); p != nil {
		s.Parent = p.Name()
	}
	return s
}
