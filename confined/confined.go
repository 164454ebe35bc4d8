// Package confined provides a thread-confined counterpart to the inject
// engine. Some services may only be touched from one designated goroutine
// (UI toolkits and C libraries with thread affinity are the usual suspects).
// An Engine owns such services: every factory runs on the engine's single
// owner goroutine, while registration, resolution, and resets may be called
// from anywhere and are marshaled to the owner transparently.
//
// Scope, cycle, depth, and reset semantics are identical to the general
// engine; the underlying environment is private to the Engine and never
// reachable through the global environment table.
//
//	ui := confined.New("ui")
//	defer ui.Close()
//
//	confined.Register(ui, inject.Singleton(),
//		func(ctx context.Context) (*Window, error) {
//			return openWindow() // runs on the owner goroutine
//		})
//
//	w, err := confined.Resolve[*Window](context.Background(), ui)
package confined

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/deep-rent/inject"
)

// ErrClosed is returned when an Engine is used after Close.
var ErrClosed = errors.New("confined: engine is closed")

// ownerKey marks contexts executing on an engine's owner goroutine.
type ownerKey struct{}

// Engine is a thread-confined registry/engine pair. All factories
// registered on it execute on one dedicated owner goroutine; calls from
// other goroutines block until the owner has produced the result. An Engine
// is safe for concurrent use.
type Engine struct {
	env   *inject.Environment
	calls chan func()
	quit  chan struct{}
	once  sync.Once
}

// New creates an Engine with the given name and starts its owner goroutine.
// The engine must be released with Close once it is no longer needed.
func New(name string, opts ...inject.Option) *Engine {
	e := &Engine{
		env:   inject.NewIsolated(name, opts...),
		calls: make(chan func()),
		quit:  make(chan struct{}),
	}
	go e.loop()
	return e
}

func (e *Engine) loop() {
	for {
		select {
		case fn := <-e.calls:
			fn()
		case <-e.quit:
			return
		}
	}
}

// run executes fn on the owner goroutine and blocks until it returns. Calls
// already executing on the owner (nested resolutions inside factories) run
// inline, so factories can resolve their dependencies without deadlocking.
func (e *Engine) run(ctx context.Context, fn func(ctx context.Context)) error {
	if owner, _ := ctx.Value(ownerKey{}).(*Engine); owner == e {
		fn(ctx)
		return nil
	}
	// The caller's chain state must not leak onto the owner goroutine;
	// each marshaled call starts a chain of its own.
	ctx = inject.Detach(context.WithValue(ctx, ownerKey{}, e))
	ctx = inject.WithEnvironment(ctx, e.env)

	done := make(chan struct{})
	job := func() {
		defer close(done)
		fn(ctx)
	}
	select {
	case e.calls <- job:
	case <-e.quit:
		return ErrClosed
	}
	<-done
	return nil
}

// Close stops the owner goroutine. Subsequent resolutions fail with
// ErrClosed. Close is idempotent.
func (e *Engine) Close() {
	e.once.Do(func() { close(e.quit) })
}

// Name returns the name of the engine's private environment.
func (e *Engine) Name() string { return e.env.Name() }

// ResetCaches clears every cached instance of the engine's environment.
func (e *Engine) ResetCaches() { e.env.ResetCaches() }

// ResetScope clears only cached instances of the given scope.
func (e *Engine) ResetScope(scope inject.Scope) { e.env.ResetScope(scope) }

// ResetAll clears both caches and provider entries.
func (e *Engine) ResetAll() { e.env.ResetAll() }

// Registrations returns a snapshot of the engine's provider entries.
func (e *Engine) Registrations() []inject.Registration {
	return e.env.Registrations()
}

// Register stores a factory for T under the given scope. The factory only
// ever runs on the engine's owner goroutine; if it is somehow invoked
// elsewhere, it fails fast instead of silently racing.
func Register[T any](e *Engine, scope inject.Scope, fn inject.Factory[T]) {
	inject.Register(e.env, scope, func(ctx context.Context) (T, error) {
		if owner, _ := ctx.Value(ownerKey{}).(*Engine); owner != e {
			var zero T
			return zero, fmt.Errorf(
				"confined: factory for %T invoked off the owner goroutine", zero,
			)
		}
		return fn(ctx)
	})
}

// RegisterInstance registers an existing instance of T. As in the general
// engine, instance registration is singleton-equivalent and seeds the cache
// eagerly.
func RegisterInstance[T any](e *Engine, instance T) {
	inject.RegisterInstance(e.env, instance)
}

// Resolve resolves T on the engine's owner goroutine and hands the result
// back to the caller. Resolution failures carry the same typed errors as
// the general engine; a closed engine yields ErrClosed.
func Resolve[T any](ctx context.Context, e *Engine) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		v   T
		err error
	)
	if rerr := e.run(ctx, func(ctx context.Context) {
		v, err = inject.Resolve[T](ctx)
	}); rerr != nil {
		var zero T
		return zero, rerr
	}
	return v, err
}

// Must resolves T and panics on failure.
func Must[T any](ctx context.Context, e *Engine) T {
	v, err := Resolve[T](ctx, e)
	if err != nil {
		panic(err)
	}
	return v
}
