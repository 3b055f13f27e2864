package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/discoverykit/component"
	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/di"
	"github.com/kbukum/discoverykit/errors"
	"github.com/kbukum/discoverykit/logger"
)

// LoggingKey is the configuration branch read into logger.Config.
const LoggingKey = "logging"

// App hosts the components of a service that registers with a discovery
// registry. The configuration tree and logger are registered in the
// container under di.Pkg.Config and di.Pkg.Logger.
type App struct {
	Name       string
	Tree       config.Tree
	Container  di.Container
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates an application from a configuration tree. The logger is
// built from the tree's logging branch unless WithLogger is given.
func NewApp(name string, tree config.Tree, opts ...Option) (*App, error) {
	if tree == nil {
		return nil, errors.InvalidArgument("config")
	}

	app := &App{
		Name:            name,
		Tree:            tree,
		gracefulTimeout: DefaultGracefulTimeout,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Container == nil {
		app.Container = di.NewContainer()
	}
	if app.Logger == nil {
		var cfg logger.Config
		if tree.IsSet(LoggingKey) {
			if err := tree.UnmarshalKey(LoggingKey, &cfg); err != nil {
				return nil, fmt.Errorf("logging config: %w", err)
			}
		}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		app.Logger = logger.New(&cfg, name)
		logger.SetGlobalLogger(app.Logger)
	}
	app.Components = component.NewRegistry(app.Logger)
	logger.Register(name, app.Logger)

	if err := app.Container.RegisterSingleton(di.Pkg.Config, tree); err != nil {
		return nil, err
	}
	if err := app.Container.RegisterSingleton(di.Pkg.Logger, app.Logger); err != nil {
		return nil, err
	}
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	results := a.Components.HealthAll(ctx)
	var unhealthy []string
	for _, h := range results {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run starts every component, runs the start and ready hooks, then blocks
// until a shutdown signal or ctx is done and shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask is Run for finite work: task runs after startup and shutdown
// follows when it returns or a signal cancels its context.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

func (a *App) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, PhaseStart, a.onStart); err != nil {
		return err
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields("error", err.Error()))
	}
	if err := runHooks(ctx, PhaseReady, a.onReady); err != nil {
		return err
	}

	a.Logger.Info("Application started", logger.Fields(
		"components", a.Components.Names(),
		"duration", time.Since(start).String(),
	))
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App) Shutdown(ctx context.Context) error {
	return a.stop()
}

func (a *App) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error

	// stop hooks run first so the instance leaves the registry before its
	// components go away
	if err := runHooks(ctx, PhaseStop, a.onStop); err != nil {
		a.Logger.Error("Stop hooks failed", logger.ErrorFields("stop_hooks", err))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Components stopped with errors", logger.ErrorFields("stop_components", err))
		errs = append(errs, err)
	}
	if err := a.Container.Close(); err != nil {
		a.Logger.Error("DI container close error", logger.ErrorFields("close_container", err))
		errs = append(errs, err)
	}

	a.Logger.Info("Application shutdown complete")
	return stderrors.Join(errs...)
}
