package inject

import (
	"context"
	"fmt"
	"reflect"
)

// Factory constructs an instance of T. It receives the context of the
// surrounding resolution call and may resolve its own dependencies through
// it; nested Resolve calls made with this context share the caller's
// resolution chain, which is how cycles and graph-scoped sharing are
// tracked.
type Factory[T any] func(ctx context.Context) (T, error)

// typeOf returns the identity of T itself, which works even when T is an
// interface type.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register stores a factory for T in env under the given scope. A later
// Register for the same type and scope silently replaces the earlier entry;
// an instance already cached under that key keeps being served until the
// cache is reset. The zero Scope value registers a singleton.
func Register[T any](env *Environment, scope Scope, fn Factory[T]) {
	if env == nil {
		panic("inject: nil environment")
	}
	if fn == nil {
		panic("inject: nil factory")
	}
	typ := typeOf[T]()
	env.reg.register(typ, scope, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	env.log.Debug("Registered provider",
		"environment", env.name,
		"service", typ.String(),
		"scope", scope.String(),
	)
}

// RegisterInstance registers an existing instance of T in env. Instance
// registration is always singleton-equivalent: the cache is seeded eagerly,
// so no factory ever runs for it.
func RegisterInstance[T any](env *Environment, instance T) {
	if env == nil {
		panic("inject: nil environment")
	}
	typ := typeOf[T]()
	env.reg.registerInstance(typ, instance)
	env.log.Debug("Registered instance",
		"environment", env.name,
		"service", typ.String(),
	)
}

// Resolve returns an instance of T from the currently selected environment,
// dispatching by the scope the provider was registered under. It fails with
// one of the typed errors of this package: NotRegisteredError when no
// provider exists for T, CircularDependencyError or MaxDepthExceededError
// when the resolution chain misbehaves, and FactoryError when the factory
// fails with a foreign error or panics. Errors from the engine's own
// taxonomy raised by nested resolutions propagate unchanged.
//
// Resolve is safe for concurrent use. Each top-level call starts its own
// resolution chain; only nested calls made from inside factories extend an
// existing chain.
func Resolve[T any](ctx context.Context) (T, error) {
	var zero T
	if ctx == nil {
		ctx = context.Background()
	}
	env := EnvironmentFromContext(ctx)
	typ := typeOf[T]()
	v, err := env.resolve(ctx, typ)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		// The stored value's dynamic type does not match the requested
		// static type. Fail closed instead of letting the cast escape.
		return zero, &FactoryError{
			Service: typ.String(),
			Err:     fmt.Errorf("provider produced %T", v),
		}
	}
	return t, nil
}

// Must resolves T and panics on failure. It is intended for wiring code
// where a missing provider is a programming error; everywhere else, prefer
// Resolve and handle the error.
func Must[T any](ctx context.Context) T {
	v, err := Resolve[T](ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// resolve orchestrates a single resolution: look up the provider, extend
// the chain, dispatch by scope, and unwind the chain on every exit path.
func (e *Environment) resolve(ctx context.Context, typ reflect.Type) (any, error) {
	p, ok := e.reg.lookup(typ)
	if !ok {
		return nil, &NotRegisteredError{Service: typ.String()}
	}

	ch := chainFromContext(ctx)
	if ch == nil {
		ch = newChain(maxDepthFromContext(ctx))
		ctx = withChain(ctx, ch)
	}
	if err := ch.enter(typ); err != nil {
		return nil, err
	}
	defer ch.exit()

	key := cacheKey{typ: typ, scope: p.scope}
	switch p.scope.kind {
	case kindTransient:
		return e.invoke(ctx, key, p.make)
	case kindGraph:
		if v, ok := ch.graph[key]; ok {
			return v, nil
		}
		v, err := e.invoke(ctx, key, p.make)
		if err != nil {
			return nil, err
		}
		ch.graph[key] = v
		return v, nil
	default:
		// Singleton and custom scopes share the environment cache, with a
		// double-checked read around the factory flight.
		if v, ok := e.reg.cached(key); ok {
			return v, nil
		}
		return e.reg.once(key, func() (any, error) {
			if v, ok := e.reg.cached(key); ok {
				return v, nil
			}
			v, err := e.invoke(ctx, key, p.make)
			if err != nil {
				return nil, err
			}
			e.reg.store(key, v)
			return v, nil
		})
	}
}

// invoke runs a factory, recovering panics and normalizing foreign errors
// into the engine's taxonomy. Nothing is cached on failure.
func (e *Environment) invoke(ctx context.Context, key cacheKey, fn factory) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = nil
			err = &FactoryError{
				Service: key.typ.String(),
				Err:     fmt.Errorf("panic during factory call: %v", rec),
			}
		}
	}()
	v, err = fn(ctx)
	if err != nil {
		if isResolutionError(err) {
			return nil, err
		}
		return nil, &FactoryError{Service: key.typ.String(), Err: err}
	}
	e.log.Debug("Created instance",
		"environment", e.name,
		"service", key.typ.String(),
		"scope", key.scope.String(),
	)
	return v, nil
}
