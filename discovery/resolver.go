package discovery

import (
	"context"
	"time"

	"github.com/kbukum/discoverykit/cloudfoundry"
	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/errors"
	"github.com/kbukum/discoverykit/logger"
	"github.com/kbukum/discoverykit/observability"
)

// Resolver combines configuration with platform service bindings into one
// Options value. Bindings take precedence over configured connection data.
type Resolver struct {
	source  cloudfoundry.Source
	log     *logger.Logger
	metrics *observability.DiscoveryMetrics
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSource replaces the platform metadata source. The default reads
// VCAP_SERVICES and VCAP_APPLICATION from the environment.
func WithSource(src cloudfoundry.Source) ResolverOption {
	return func(r *Resolver) { r.source = src }
}

// WithResolverLogger sets the logger used by the resolver.
func WithResolverLogger(l *logger.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

// WithResolverMetrics sets the instruments the resolver records into.
func WithResolverMetrics(m *observability.DiscoveryMetrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		source:  cloudfoundry.NewEnvSource(),
		log:     logger.Get("discovery"),
		metrics: observability.NoopDiscoveryMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve binds options from tree and merges the single registry service
// binding, if any.
func (r *Resolver) Resolve(ctx context.Context, tree config.Tree) (*Options, error) {
	if tree == nil {
		return nil, errors.InvalidArgument("config")
	}
	return r.resolve(ctx, tree, "")
}

// ResolveNamed is Resolve restricted to the service binding named
// serviceName, which must exist.
func (r *Resolver) ResolveNamed(ctx context.Context, tree config.Tree, serviceName string) (*Options, error) {
	if tree == nil {
		return nil, errors.InvalidArgument("config")
	}
	if serviceName == "" {
		return nil, errors.InvalidArgument("serviceName")
	}
	return r.resolve(ctx, tree, serviceName)
}

func (r *Resolver) resolve(ctx context.Context, tree config.Tree, serviceName string) (opts *Options, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanResolve)
	if serviceName != "" {
		span.SetAttributes(observability.ServiceNameKey.String(serviceName))
	}
	defer func() {
		clientType := ClientTypeUnknown.String()
		if opts != nil {
			clientType = opts.ClientType.String()
		}
		observability.RecordError(ctx, err)
		r.metrics.RecordResolution(ctx, clientType, err, time.Since(start))
		span.End()
	}()

	opts, err = Bind(tree)
	if err != nil {
		return nil, err
	}
	source := "config"
	if opts.ClientType == ClientTypeUnknown {
		source = "none"
	}

	services, err := r.source.Services()
	if err != nil {
		return nil, err
	}
	override, err := ResolveServiceBinding(services, serviceName)
	if err != nil {
		return nil, err
	}
	if override != nil {
		r.metrics.RecordBindingMatches(ctx, 1)
		if err := r.mergeOverride(ctx, tree, opts, override); err != nil {
			return nil, err
		}
		source = "service_binding"
	}

	if opts.ClientType != ClientTypeUnknown {
		if err := r.applyApplication(tree, opts); err != nil {
			return nil, err
		}
	}

	observability.Annotate(ctx,
		observability.ClientTypeKey.String(opts.ClientType.String()),
		observability.SourceKey.String(source),
	)
	r.log.Debug("discovery options resolved", logger.Fields(
		logger.FieldClientType, opts.ClientType.String(),
		logger.FieldSource, source,
		logger.FieldServiceName, serviceName,
	))
	return opts, nil
}

// mergeOverride applies binding connection data on top of configuration.
// A binding without matching configuration selects its own client type.
func (r *Resolver) mergeOverride(ctx context.Context, tree config.Tree, opts *Options, o *ConnectionOverride) error {
	observability.Annotate(ctx, observability.BindingKey.String(o.BindingName))
	p, ok := LookupProvider(o.ClientType)
	if !ok {
		return errors.InvalidState(o.ClientType.String(), "no provider registered for service binding "+o.BindingName)
	}

	if opts.ClientType == ClientTypeUnknown {
		bound, err := bindProvider(p, tree)
		if err != nil {
			return err
		}
		*opts = *bound
	}
	if opts.ClientType != o.ClientType {
		return errors.InvalidState(opts.ClientType.String(),
			"configuration selects a different registry than service binding "+o.BindingName+" ("+o.ClientType.String()+")")
	}
	if opts.ClientOptions == nil {
		opts.ClientOptions = p.DefaultClientOptions()
	}

	if err := p.ApplyOverride(opts.ClientOptions, *o); err != nil {
		return err
	}
	r.log.Debug("service binding overrides configured connection", logger.Fields(
		logger.FieldBinding, o.BindingName,
		logger.FieldClientType, o.ClientType.String(),
	))
	return nil
}

func (r *Resolver) applyApplication(tree config.Tree, opts *Options) error {
	p, ok := LookupProvider(opts.ClientType)
	if !ok || p.ApplyApplication == nil || opts.RegistrationOptions == nil {
		return nil
	}
	app, err := r.source.Application()
	if err != nil {
		return err
	}
	if app == nil {
		return nil
	}
	return p.ApplyApplication(opts.RegistrationOptions, app, tree)
}
