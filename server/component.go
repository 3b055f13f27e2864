package server

import (
	"cmp"
	"context"
	"slices"
	"sync/atomic"

	"github.com/kbukum/discoverykit/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*ServerComponent)(nil)
	_ component.Describable   = (*ServerComponent)(nil)
	_ component.RouteProvider = (*ServerComponent)(nil)
)

// ServerComponent runs a Server as a registry component. Health may be
// polled concurrently with Start and Stop.
type ServerComponent struct {
	server  *Server
	serving atomic.Bool
}

// NewComponent wraps s.
func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{server: s}
}

func (sc *ServerComponent) Name() string { return componentName }

func (sc *ServerComponent) Start(ctx context.Context) error {
	if err := sc.server.Start(ctx); err != nil {
		return err
	}
	sc.serving.Store(true)
	return nil
}

// Stop shuts the server down. Stopping a server that never started is a
// no-op.
func (sc *ServerComponent) Stop(ctx context.Context) error {
	if !sc.serving.Swap(false) {
		return nil
	}
	return sc.server.Stop(ctx)
}

// Health is healthy while the listener is bound and serving.
func (sc *ServerComponent) Health(ctx context.Context) component.Health {
	if !sc.serving.Load() {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "HTTP server not started",
		}
	}
	return component.Health{
		Name:    componentName,
		Status:  component.StatusHealthy,
		Details: map[string]string{"addr": sc.server.Addr()},
	}
}

func (sc *ServerComponent) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: sc.server.Addr(),
		Port:    sc.server.config.Port,
	}
}

// Routes lists the mounted routes ordered by path, then method.
func (sc *ServerComponent) Routes() []component.Route {
	routes := make([]component.Route, 0)
	for _, r := range sc.server.engine.Routes() {
		routes = append(routes, component.Route{Method: r.Method, Path: r.Path, Handler: r.Handler})
	}
	slices.SortFunc(routes, func(a, b component.Route) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Method, b.Method))
	})
	return routes
}
