package observability

import "context"

// HealthStatus is the state a container reports. A container is down after
// Shutdown until it is started again.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// rank orders statuses from best to worst.
var rank = map[HealthStatus]int{
	HealthStatusUp:       0,
	HealthStatusDegraded: 1,
	HealthStatusDown:     2,
}

// Health is one container's report. Details carry its ID and the
// registered, cached and in-progress counts.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthChecker is implemented by *di.Container.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// HealthReport combines the reports of the containers a service runs. Its
// status is the worst status added.
type HealthReport struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Containers []Health     `json:"containers,omitempty"`
}

// CheckAll asks every checker in order and combines the results.
func CheckAll(ctx context.Context, service, version string, checkers ...HealthChecker) *HealthReport {
	report := &HealthReport{Service: service, Version: version, Status: HealthStatusUp}
	for _, c := range checkers {
		report.Add(c.CheckHealth(ctx))
	}
	return report
}

// Add records h. Unknown statuses count as down.
func (r *HealthReport) Add(h Health) {
	r.Containers = append(r.Containers, h)
	worst, ok := rank[h.Status]
	if !ok {
		worst = rank[HealthStatusDown]
	}
	if worst > rank[r.Status] {
		r.Status = h.Status
		if !ok {
			r.Status = HealthStatusDown
		}
	}
}
