package bootstrap

import (
	"time"

	"github.com/kbukum/discoverykit/di"
	"github.com/kbukum/discoverykit/logger"
)

// DefaultGracefulTimeout bounds shutdown unless WithGracefulTimeout is given.
const DefaultGracefulTimeout = 15 * time.Second

// Option overrides a default of NewApp.
type Option func(*App)

// WithLogger replaces the logger built from the logging branch. The global
// logger is left untouched.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) { a.Logger = l }
}

// WithGracefulTimeout bounds the stop hooks and component shutdown together.
// Non-positive durations keep the default.
func WithGracefulTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.gracefulTimeout = d
		}
	}
}

// WithContainer registers into c instead of a new container.
func WithContainer(c di.Container) Option {
	return func(a *App) { a.Container = c }
}
