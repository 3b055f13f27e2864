package component

import "context"

// HealthStatus is the state a component reports on the health endpoint.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

func (s HealthStatus) severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Worse returns whichever of s and other is less healthy. Unrecognized
// statuses count as unhealthy.
func (s HealthStatus) Worse(other HealthStatus) HealthStatus {
	if other.severity() > s.severity() {
		return other
	}
	return s
}

// Health is one component's entry in a health report.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthChecker is implemented by discovery clients that can report their
// own registration state.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// Component is a unit the Registry starts, stops and health-checks.
type Component interface {
	// Name identifies the component and must be unique within a Registry.
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is logged once a Describable component has started.
type Description struct {
	// Name is the display name; the component's Name() when empty.
	Name    string
	Type    string
	Details string
	// Port is 0 when the component listens on nothing.
	Port int
}

// Describable components summarize themselves in the startup log.
type Describable interface {
	Describe() Description
}

// Route is an HTTP route a component serves. Handler names the handler for
// logs.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider components serve HTTP routes, such as the status and health
// pages a registered instance exposes to the registry.
type RouteProvider interface {
	Routes() []Route
}
