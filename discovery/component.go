package discovery

import (
	"context"
	"fmt"

	"github.com/kbukum/discoverykit/component"
	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/di"
	"github.com/kbukum/discoverykit/logger"
	"github.com/kbukum/discoverykit/observability"
)

// Component registers the discovery client during component startup and
// closes it on shutdown.
type Component struct {
	registrar   *Registrar
	container   di.Container
	tree        config.Tree
	serviceName string
	client      Client
	log         *logger.Logger
}

// ComponentOption configures a Component.
type ComponentOption func(*Component)

// WithServiceName restricts binding lookup to the named service binding.
func WithServiceName(name string) ComponentOption {
	return func(c *Component) { c.serviceName = name }
}

// WithRegistrar replaces the registrar used by Start.
func WithRegistrar(r *Registrar) ComponentOption {
	return func(c *Component) { c.registrar = r }
}

// NewComponent creates a discovery Component for use with the component registry.
func NewComponent(container di.Container, tree config.Tree, log *logger.Logger, opts ...ComponentOption) *Component {
	c := &Component{
		container: container,
		tree:      tree,
		log:       log.WithComponent("discovery"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registrar == nil {
		c.registrar = NewRegistrar(WithRegistrarLogger(c.log))
	}
	return c
}

// ensure Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "discovery" }

// Client returns the constructed discovery client, or nil if not started.
func (c *Component) Client() Client { return c.client }

// Start registers the client and resolves it from the container.
func (c *Component) Start(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanStart)
	defer span.End()

	var err error
	if c.serviceName != "" {
		observability.Annotate(ctx, observability.ServiceNameKey.String(c.serviceName))
		err = c.registrar.RegisterFromConfigNamed(ctx, c.container, c.tree, c.serviceName)
	} else {
		err = c.registrar.RegisterFromConfig(ctx, c.container, c.tree)
	}
	if err != nil {
		observability.RecordError(ctx, err)
		return fmt.Errorf("discovery start: %w", err)
	}

	client, err := di.Resolve[Client](c.container, di.Pkg.DiscoveryClient)
	if err != nil {
		observability.RecordError(ctx, err)
		return fmt.Errorf("discovery start: %w", err)
	}
	c.client = client

	c.log.Info("discovery component started", logger.Fields(
		"description", client.Description(),
	))
	return nil
}

// Stop closes the client if it was constructed.
func (c *Component) Stop(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	c.log.Info("discovery component stopping")
	return c.client.Close()
}

// Health reports the client's own health when it can check it.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "discovery not initialized",
		}
	}

	if _, ok := c.client.(UnknownClient); ok {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusHealthy,
			Message: "no registry configured",
		}
	}

	checker, ok := c.client.(component.HealthChecker)
	if !ok {
		return component.Health{Name: c.Name(), Status: component.StatusHealthy}
	}
	h := checker.CheckHealth(ctx)
	h.Name = c.Name()
	return h
}

// Describe returns summary info for the startup log.
func (c *Component) Describe() component.Description {
	if c.client == nil {
		return component.Description{Name: "Discovery", Type: "discovery", Details: "not started"}
	}
	inst := c.client.LocalServiceInstance()
	details := c.client.Description()
	if inst.ServiceID != "" {
		details = fmt.Sprintf("%s app=%s host=%s", details, inst.ServiceID, inst.Host)
	}
	return component.Description{
		Name:    "Discovery",
		Type:    "discovery",
		Details: details,
		Port:    inst.Port,
	}
}

// Routes reports the HTTP routes the client serves, if any.
func (c *Component) Routes() []component.Route {
	if rp, ok := c.client.(component.RouteProvider); ok {
		return rp.Routes()
	}
	return nil
}
