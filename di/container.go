package di

import (
	"cmp"
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/kbukum/discoverykit/errors"
	"github.com/kbukum/discoverykit/logger"
)

// RegistrationMode tells how a key's instance comes to exist.
type RegistrationMode int

const (
	// Lazy instances are built by their constructor on first Resolve.
	Lazy RegistrationMode = iota
	// Singleton instances are handed over already built.
	Singleton
)

func (m RegistrationMode) String() string {
	switch m {
	case Lazy:
		return "lazy"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Container holds one instance per key for its whole lifetime.
type Container interface {
	// RegisterLazy registers a constructor of one of the forms
	// func() T, func() (T, error), func(context.Context) ... or
	// func(Container) ....
	RegisterLazy(key string, constructor interface{}) error
	RegisterSingleton(key string, instance interface{}) error
	Resolve(key string) (interface{}, error)
	Has(key string) bool
	// Registrations lists every registration made, in order, including
	// ones a later registration under the same key superseded.
	Registrations() []RegistrationInfo
	// Close closes built instances implementing Close() error, newest
	// first.
	Close() error
}

// RegistrationInfo describes one registration.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool

	// Superseded marks a registration replaced by a later one under the
	// same key. Resolve never returns it.
	Superseded bool
}

type entry struct {
	key         string
	mode        RegistrationMode
	seq         int
	constructor reflect.Value

	mu          sync.Mutex
	instance    interface{}
	initialized bool
}

func (e *entry) info(superseded bool) RegistrationInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return RegistrationInfo{Key: e.key, Mode: e.mode, Initialized: e.initialized, Superseded: superseded}
}

type container struct {
	mu         sync.RWMutex
	live       map[string]*entry
	superseded []*entry
	seq        int
	log        *logger.Logger
}

// NewContainer returns an empty Container.
func NewContainer() Container {
	return &container{
		live: make(map[string]*entry),
		log:  logger.Get("di"),
	}
}

func (c *container) RegisterLazy(key string, constructor interface{}) error {
	fn := reflect.ValueOf(constructor)
	if constructor == nil || fn.Kind() != reflect.Func {
		return errors.InvalidArgument("constructor").
			WithDetail("key", key).
			WithDetail("type", fmt.Sprintf("%T", constructor))
	}
	c.add(&entry{key: key, mode: Lazy, constructor: fn})
	return nil
}

func (c *container) RegisterSingleton(key string, instance interface{}) error {
	c.add(&entry{key: key, mode: Singleton, instance: instance, initialized: true})
	return nil
}

// add makes e the live registration for its key. A registration it replaces
// stays listed as superseded and is still closed by Close if it was built.
func (c *container) add(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	e.seq = c.seq
	if prev, ok := c.live[e.key]; ok {
		c.superseded = append(c.superseded, prev)
		c.log.Warn("component registration superseded", logger.Fields(
			logger.FieldComponent, e.key,
			"previous_mode", prev.mode.String(),
		))
	}
	c.live[e.key] = e
}

func (c *container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.live[key]
	return ok
}

// Resolve returns the instance registered under key. A failing lazy
// constructor is retried on the next Resolve; a successful one never runs
// again, however many callers race on the first Resolve.
func (c *container) Resolve(key string) (interface{}, error) {
	c.mu.RLock()
	e, ok := c.live[key]
	c.mu.RUnlock()
	if !ok {
		return nil, errors.InvalidState(key, "component not registered")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return e.instance, nil
	}
	instance, err := c.construct(e.constructor)
	if err != nil {
		c.log.Debug("lazy component construction failed", logger.Fields(
			logger.FieldComponent, key,
			logger.FieldError, err.Error(),
		))
		return nil, fmt.Errorf("construct %s: %w", key, err)
	}
	e.instance, e.initialized = instance, true
	c.log.Debug("lazy component constructed", logger.Fields(logger.FieldComponent, key))
	return instance, nil
}

var (
	contextType   = reflect.TypeFor[context.Context]()
	containerType = reflect.TypeFor[Container]()
	errorType     = reflect.TypeFor[error]()
)

func (c *container) construct(fn reflect.Value) (interface{}, error) {
	t := fn.Type()
	var args []reflect.Value
	switch {
	case t.NumIn() == 0:
	case t.NumIn() == 1 && t.In(0) == contextType:
		args = []reflect.Value{reflect.ValueOf(context.Background())}
	case t.NumIn() == 1 && t.In(0) == containerType:
		args = []reflect.Value{reflect.ValueOf(Container(c))}
	default:
		return nil, fmt.Errorf("constructor %s must take nothing, a context.Context or a di.Container", t)
	}

	switch out := fn.Call(args); {
	case len(out) == 1:
		return out[0].Interface(), nil
	case len(out) == 2 && t.Out(1) == errorType:
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		return nil, fmt.Errorf("constructor %s must return T or (T, error)", t)
	}
}

// all returns every entry ordered by registration.
func (c *container) all() []*entry {
	entries := make([]*entry, 0, len(c.live)+len(c.superseded))
	entries = append(entries, c.superseded...)
	for _, e := range c.live {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *entry) int { return cmp.Compare(a.seq, b.seq) })
	return entries
}

func (c *container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]RegistrationInfo, 0, len(c.live)+len(c.superseded))
	for _, e := range c.all() {
		infos = append(infos, e.info(c.live[e.key] != e))
	}
	return infos
}

func (c *container) Close() error {
	c.mu.RLock()
	entries := c.all()
	c.mu.RUnlock()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		e.mu.Lock()
		closer, ok := e.instance.(interface{ Close() error })
		built := e.initialized
		e.mu.Unlock()
		if !built || !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			c.log.Warn("component close failed", logger.Fields(
				logger.FieldComponent, e.key,
				logger.FieldError, err.Error(),
			))
			errs = append(errs, fmt.Errorf("close %s: %w", e.key, err))
		}
	}
	return stderrors.Join(errs...)
}
