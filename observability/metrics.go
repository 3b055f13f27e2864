package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kbukum/discoverykit/errors"
)

// DiscoveryMetrics holds the instruments recorded while resolving options
// and registering discovery clients.
type DiscoveryMetrics struct {
	registrations      metric.Int64Counter
	resolutionFailures metric.Int64Counter
	bindingMatches     metric.Int64Counter
	resolveDuration    metric.Float64Histogram
}

// NewDiscoveryMetrics creates metric instruments on the given meter.
func NewDiscoveryMetrics(meter metric.Meter) (*DiscoveryMetrics, error) {
	registrations, err := meter.Int64Counter("discovery.registrations",
		metric.WithDescription("Discovery clients registered, by client type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating discovery.registrations counter: %w", err)
	}

	resolutionFailures, err := meter.Int64Counter("discovery.resolution.failures",
		metric.WithDescription("Failed discovery option resolutions, by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating discovery.resolution.failures counter: %w", err)
	}

	bindingMatches, err := meter.Int64Counter("discovery.binding.matches",
		metric.WithDescription("Platform service bindings recognized as discovery services"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating discovery.binding.matches counter: %w", err)
	}

	resolveDuration, err := meter.Float64Histogram("discovery.resolve.duration",
		metric.WithDescription("Duration of discovery option resolution in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating discovery.resolve.duration histogram: %w", err)
	}

	return &DiscoveryMetrics{
		registrations:      registrations,
		resolutionFailures: resolutionFailures,
		bindingMatches:     bindingMatches,
		resolveDuration:    resolveDuration,
	}, nil
}

// NoopDiscoveryMetrics returns instruments that record nothing.
func NoopDiscoveryMetrics() *DiscoveryMetrics {
	m, _ := NewDiscoveryMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}

// RecordRegistration counts a client registered into a container.
func (m *DiscoveryMetrics) RecordRegistration(ctx context.Context, clientType string) {
	m.registrations.Add(ctx, 1, metric.WithAttributes(
		ClientTypeKey.String(clientType),
	))
}

// RecordResolution records the outcome and duration of one resolution.
// Failures are counted by error code.
func (m *DiscoveryMetrics) RecordResolution(ctx context.Context, clientType string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
		m.resolutionFailures.Add(ctx, 1, metric.WithAttributes(
			ErrorCodeKey.String(string(errors.CodeOf(err))),
		))
	}
	m.resolveDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		ClientTypeKey.String(clientType),
		attribute.String("status", status),
	))
}

// RecordBindingMatches records how many bindings matched a lookup.
func (m *DiscoveryMetrics) RecordBindingMatches(ctx context.Context, matches int) {
	m.bindingMatches.Add(ctx, int64(matches))
}
