package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Hook is a lifecycle callback run by Run and RunTask.
type Hook func(ctx context.Context) error

// Phase names the lifecycle point a hook runs at.
type Phase string

const (
	// PhaseStart runs after components start and before the ready check.
	PhaseStart Phase = "start"
	// PhaseReady runs after the ready check, for example to begin serving
	// the instance's status and health pages.
	PhaseReady Phase = "ready"
	// PhaseStop runs at shutdown before components stop, so the instance
	// leaves the registry while its dependencies are still up.
	PhaseStop Phase = "stop"
)

// HookError reports the failing hook by phase and registration order.
type HookError struct {
	Phase Phase
	Index int
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook %d: %v", e.Phase, e.Index, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// OnStart registers hooks for PhaseStart.
func (a *App) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers hooks for PhaseReady.
func (a *App) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers hooks for PhaseStop.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks runs hooks in registration order. Start and ready hooks stop at
// the first failure; stop hooks all run and their errors are joined.
func runHooks(ctx context.Context, phase Phase, hooks []Hook) error {
	var errs []error
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			hookErr := &HookError{Phase: phase, Index: i, Err: err}
			if phase != PhaseStop {
				return hookErr
			}
			errs = append(errs, hookErr)
		}
	}
	return stderrors.Join(errs...)
}
