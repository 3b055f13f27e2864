package component

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/discoverykit/errors"
	"github.com/kbukum/discoverykit/logger"
)

// DefaultStopTimeout bounds each component's Stop.
const DefaultStopTimeout = 10 * time.Second

type entry struct {
	c       Component
	started bool
}

// Registry starts components in registration order and stops them in
// reverse, so a component may depend on any registered before it.
type Registry struct {
	mu          sync.RWMutex
	entries     []*entry
	names       map[string]bool
	stopTimeout time.Duration
	log         *logger.Logger
}

// NewRegistry creates an empty registry logging to log, or discarding logs
// when log is nil.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		names:       make(map[string]bool),
		stopTimeout: DefaultStopTimeout,
		log:         log,
	}
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if r.names[name] {
		return errors.InvalidState(name, "component already registered")
	}
	r.names[name] = true
	r.entries = append(r.entries, &entry{c: c})
	r.log.Debug("component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// Names lists the registered components in start order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.c.Name()
	}
	return names
}

// StartAll starts every component in order. When one fails, those already
// started are stopped again and the start error is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		name := e.c.Name()
		if err := e.c.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.Fields(
				logger.FieldComponent, name,
				logger.FieldError, err.Error(),
			))
			if stopErr := r.stopStarted(ctx); stopErr != nil {
				r.log.Warn("rollback after failed start incomplete", logger.Fields(
					logger.FieldError, stopErr.Error(),
				))
			}
			return fmt.Errorf("start %s: %w", name, err)
		}
		e.started = true
		r.log.Info("component started", describe(e.c))
	}
	return nil
}

// StopAll stops started components in reverse order, giving each
// DefaultStopTimeout. Every component is stopped even when some fail.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopStarted(ctx)
}

func (r *Registry) stopStarted(ctx context.Context) error {
	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if !e.started {
			continue
		}
		name := e.c.Name()
		stopCtx, cancel := context.WithTimeout(ctx, r.stopTimeout)
		err := e.c.Stop(stopCtx)
		cancel()
		e.started = false
		if err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
			r.log.Error("component stop failed", logger.Fields(
				logger.FieldComponent, name,
				logger.FieldError, err.Error(),
			))
			continue
		}
		r.log.Info("component stopped", logger.Fields(logger.FieldComponent, name))
	}
	return stderrors.Join(errs...)
}

// HealthAll checks every component concurrently. Results are in
// registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, len(r.entries))
	var wg sync.WaitGroup
	for i, e := range r.entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := e.c.Health(ctx)
			if h.Name == "" {
				h.Name = e.c.Name()
			}
			results[i] = h
		}()
	}
	wg.Wait()
	return results
}

func describe(c Component) map[string]interface{} {
	fields := logger.Fields(logger.FieldComponent, c.Name())
	if d, ok := c.(Describable); ok {
		desc := d.Describe()
		fields["type"] = desc.Type
		fields["details"] = desc.Details
		if desc.Port != 0 {
			fields["port"] = desc.Port
		}
	}
	if rp, ok := c.(RouteProvider); ok {
		fields["routes"] = len(rp.Routes())
	}
	return fields
}
