package discovery

import (
	"context"
	"sync"

	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/di"
	"github.com/kbukum/discoverykit/errors"
	"github.com/kbukum/discoverykit/logger"
	"github.com/kbukum/discoverykit/observability"
)

// Registrar registers exactly one discovery client factory into a
// container. Each call adds a registration; callers register once per
// startup. The client is constructed on first resolution of
// di.Pkg.DiscoveryClient.
type Registrar struct {
	resolver *Resolver
	log      *logger.Logger
	metrics  *observability.DiscoveryMetrics
}

// RegistrarOption configures a Registrar.
type RegistrarOption func(*Registrar)

// WithResolver sets the resolver used by the configuration paths.
func WithResolver(r *Resolver) RegistrarOption {
	return func(reg *Registrar) { reg.resolver = r }
}

// WithRegistrarLogger sets the logger used by the registrar and by the
// clients it constructs.
func WithRegistrarLogger(l *logger.Logger) RegistrarOption {
	return func(reg *Registrar) { reg.log = l }
}

// WithRegistrarMetrics sets the instruments the registrar records into.
func WithRegistrarMetrics(m *observability.DiscoveryMetrics) RegistrarOption {
	return func(reg *Registrar) { reg.metrics = m }
}

// NewRegistrar creates a Registrar.
func NewRegistrar(opts ...RegistrarOption) *Registrar {
	r := &Registrar{
		log:     logger.Get("discovery"),
		metrics: observability.NoopDiscoveryMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.resolver == nil {
		r.resolver = NewResolver(WithResolverLogger(r.log), WithResolverMetrics(r.metrics))
	}
	return r
}

// RegisterFromConfig resolves options from tree and platform bindings. When
// nothing selects a registry, UnknownClient is registered.
func (r *Registrar) RegisterFromConfig(ctx context.Context, c di.Container, tree config.Tree) error {
	if c == nil {
		return errors.InvalidArgument("container")
	}
	if tree == nil {
		return errors.InvalidArgument("config")
	}
	opts, err := r.resolver.Resolve(ctx, tree)
	if err != nil {
		return err
	}
	return r.registerResolved(ctx, c, opts)
}

// RegisterFromConfigNamed is RegisterFromConfig restricted to the service
// binding named serviceName.
func (r *Registrar) RegisterFromConfigNamed(ctx context.Context, c di.Container, tree config.Tree, serviceName string) error {
	if c == nil {
		return errors.InvalidArgument("container")
	}
	if serviceName == "" {
		return errors.InvalidArgument("serviceName")
	}
	if tree == nil {
		return errors.InvalidArgument("config")
	}
	opts, err := r.resolver.ResolveNamed(ctx, tree, serviceName)
	if err != nil {
		return err
	}
	return r.registerResolved(ctx, c, opts)
}

// RegisterFromOptions registers a client for explicit options. Options with
// ClientTypeUnknown are rejected before the container is touched.
func (r *Registrar) RegisterFromOptions(ctx context.Context, c di.Container, opts *Options) error {
	if c == nil {
		return errors.InvalidArgument("container")
	}
	if opts == nil {
		return errors.InvalidArgument("options")
	}
	return r.register(ctx, c, opts)
}

// RegisterFromSetup builds options by applying setup to NewOptions, then
// registers them like RegisterFromOptions.
func (r *Registrar) RegisterFromSetup(ctx context.Context, c di.Container, setup func(*Options)) error {
	if c == nil {
		return errors.InvalidArgument("container")
	}
	if setup == nil {
		return errors.InvalidArgument("setup")
	}
	opts := NewOptions()
	setup(opts)
	return r.register(ctx, c, opts)
}

func (r *Registrar) registerResolved(ctx context.Context, c di.Container, opts *Options) error {
	if opts.ClientType != ClientTypeUnknown {
		return r.register(ctx, c, opts)
	}

	r.log.Warn("no discovery registry configured, registering unknown client")
	if err := c.RegisterLazy(di.Pkg.DiscoveryClient, func() (Client, error) {
		return UnknownClient{}, nil
	}); err != nil {
		return errors.Internal("registering discovery client", err)
	}
	if err := c.RegisterSingleton(di.Pkg.DiscoveryOptions, opts); err != nil {
		return errors.Internal("registering discovery options", err)
	}
	r.metrics.RecordRegistration(ctx, opts.ClientType.String())
	return nil
}

func (r *Registrar) register(ctx context.Context, c di.Container, opts *Options) (err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRegister,
		observability.ClientTypeKey.String(opts.ClientType.String()))
	defer func() {
		observability.RecordError(ctx, err)
		span.End()
	}()

	if opts.ClientType == ClientTypeUnknown {
		return errors.InvalidState(ClientTypeUnknown.String(), "a client type must be selected before registering a discovery client")
	}
	p, ok := LookupProvider(opts.ClientType)
	if !ok {
		return errors.InvalidState(opts.ClientType.String(), "no discovery provider registered for client type")
	}

	client := opts.ClientOptions
	if client == nil {
		client = p.DefaultClientOptions()
		r.log.Warn("client options missing, using compatibility defaults", logger.Fields(
			logger.FieldClientType, opts.ClientType.String(),
		))
	}
	reg := opts.RegistrationOptions
	if reg == nil {
		reg = p.DefaultRegistrationOptions()
		r.log.Warn("registration options missing, using compatibility defaults", logger.Fields(
			logger.FieldClientType, opts.ClientType.String(),
		))
	}
	if client.ClientType() != opts.ClientType || reg.ClientType() != opts.ClientType {
		return errors.InvalidState(opts.ClientType.String(), "options payload does not match the client type")
	}
	if p.Validate != nil {
		if err := p.Validate(client, reg); err != nil {
			return err
		}
	}

	final := &Options{ClientType: opts.ClientType, ClientOptions: client, RegistrationOptions: reg}
	log := r.log
	if err := c.RegisterLazy(di.Pkg.DiscoveryClient, func() (Client, error) {
		return p.NewClient(final.ClientOptions, final.RegistrationOptions, log)
	}); err != nil {
		return errors.Internal("registering discovery client", err)
	}
	if err := c.RegisterSingleton(di.Pkg.DiscoveryOptions, final); err != nil {
		return errors.Internal("registering discovery options", err)
	}

	r.metrics.RecordRegistration(ctx, opts.ClientType.String())
	r.log.Info("discovery client registered", logger.Fields(
		logger.FieldClientType, opts.ClientType.String(),
	))
	return nil
}

var (
	defaultOnce      sync.Once
	defaultRegistrar *Registrar
)

// DefaultRegistrar returns a Registrar built on first use from the global
// logger and the process environment.
func DefaultRegistrar() *Registrar {
	defaultOnce.Do(func() {
		defaultRegistrar = NewRegistrar()
	})
	return defaultRegistrar
}

// RegisterFromConfig registers a client using the default Registrar.
func RegisterFromConfig(ctx context.Context, c di.Container, tree config.Tree) error {
	return DefaultRegistrar().RegisterFromConfig(ctx, c, tree)
}

// RegisterFromConfigNamed registers a client using the default Registrar.
func RegisterFromConfigNamed(ctx context.Context, c di.Container, tree config.Tree, serviceName string) error {
	return DefaultRegistrar().RegisterFromConfigNamed(ctx, c, tree, serviceName)
}

// RegisterFromOptions registers a client using the default Registrar.
func RegisterFromOptions(ctx context.Context, c di.Container, opts *Options) error {
	return DefaultRegistrar().RegisterFromOptions(ctx, c, opts)
}

// RegisterFromSetup registers a client using the default Registrar.
func RegisterFromSetup(ctx context.Context, c di.Container, setup func(*Options)) error {
	return DefaultRegistrar().RegisterFromSetup(ctx, c, setup)
}
