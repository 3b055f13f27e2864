package observability

import (
	"net/http"

	"github.com/kbukum/discoverykit/component"
)

// HealthReport is the aggregate health of a service and its components.
type HealthReport struct {
	Service    string                 `json:"service"`
	Status     component.HealthStatus `json:"status"`
	Components []component.Health     `json:"components"`
}

// NewHealthReport aggregates component results. The service takes the
// status of its least healthy component.
func NewHealthReport(service string, results []component.Health) HealthReport {
	status := component.StatusHealthy
	for _, h := range results {
		status = status.Worse(h.Status)
	}
	if results == nil {
		results = []component.Health{}
	}
	return HealthReport{Service: service, Status: status, Components: results}
}

// HTTPStatus is 503 for an unhealthy service and 200 otherwise, degraded
// included.
func (r HealthReport) HTTPStatus() int {
	if r.Status == component.StatusHealthy || r.Status == component.StatusDegraded {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
