// Package bootstrap wires configuration into running components and manages their lifecycle.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// App runs a blocking function and calls shutdown hooks when interrupted.
type App struct {
	mu      sync.Mutex
	hooks   []func(ctx context.Context) error
	signals []os.Signal
}

func New() *App {
	return &App{
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

// AddShutdownHook registers fn to run on shutdown. Hooks run in reverse order of registration.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// AddCloser registers a Close-style function as a shutdown hook
func (a *App) AddCloser(name string, closeFn func() error) {
	a.AddShutdownHook(func(context.Context) error {
		slog.Default().Debug("closing", "component", name)
		return closeFn()
	})
}

// Run executes run until it returns or the process receives a stop signal.
// On a signal or a canceled ctx the shutdown hooks run and their joined error is returned.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, a.signals...)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return a.shutdown(context.Background())
	case err := <-errCh:
		return errors.Join(err, a.shutdown(context.Background()))
	}
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
