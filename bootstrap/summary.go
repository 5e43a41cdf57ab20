package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/beankit/component"
	"github.com/kbukum/beankit/di"
)

// Summary prints what the application started with.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a summary printer writing to out, or stdout when nil.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stdout
	}
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// DisplaySummary prints containers, other components and live health.
func (s *Summary) DisplaySummary(registry *component.Registry) {
	w := s.out
	fmt.Fprintf(w, "\n🚀 %s v%s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	var containers []*di.Container
	var others []component.Description
	for _, c := range registry.All() {
		if container, ok := c.(*di.Container); ok {
			containers = append(containers, container)
			continue
		}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = c.Name()
			}
			others = append(others, desc)
		}
	}

	if len(containers) > 0 {
		fmt.Fprintf(w, "📦 Containers\n")
		for i, c := range containers {
			fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(containers)), containerLine(c))
		}
		fmt.Fprintln(w)
	}

	if len(others) > 0 {
		fmt.Fprintf(w, "📊 Infrastructure\n")
		for i, d := range others {
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(others)), d.Name, d.Type, d.Details)
		}
		fmt.Fprintln(w)
	}

	results := registry.HealthAll(context.Background())
	if len(results) == 0 {
		fmt.Fprintf(w, "   └── No components registered\n\n")
		return
	}
	fmt.Fprintf(w, "🏥 Health Check\n")
	healthy := 0
	for i, h := range results {
		msg := ""
		if h.Message != "" {
			msg = " (" + h.Message + ")"
		}
		if h.Status == component.StatusHealthy {
			healthy++
		}
		fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(results)), healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
	}
	if healthy == len(results) {
		fmt.Fprintf(w, "\n✅ All components healthy (%d/%d)\n\n", healthy, len(results))
	} else {
		fmt.Fprintf(w, "\n⚠️  Some components have issues (%d/%d healthy)\n\n", healthy, len(results))
	}
}

func containerLine(c *di.Container) string {
	var cached, lazy int
	infos := c.Registrations()
	for _, info := range infos {
		if info.State == di.StateCached {
			cached++
		}
		if info.Lazy {
			lazy++
		}
	}
	line := fmt.Sprintf("%s: %d registered, %d cached", c.Name(), len(infos), cached)
	if lazy > 0 {
		line += fmt.Sprintf(", %d lazy", lazy)
	}
	if p := c.Parent(); p != nil {
		line += " (parent " + p.Name() + ")"
	}
	return line
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
