package inject

import "context"

// ctxKey scopes the values this package stores in a context.Context.
type ctxKey uint8

const (
	ctxEnv ctxKey = iota
	ctxChain
	ctxDepth
)

// WithEnvironment returns a context that selects env as the current
// environment for all resolutions started under it. Selections nest: a
// derived context can switch to another environment for an inner block, and
// the outer selection applies again once the inner context goes out of use.
// Because contexts are inherited by child goroutines as immutable values,
// the selection never leaks into concurrently running unrelated chains.
// A nil env leaves the selection unchanged.
func WithEnvironment(ctx context.Context, env *Environment) context.Context {
	if env == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxEnv, env)
}

// EnvironmentFromContext returns the currently selected environment, or
// Default if none has been selected.
func EnvironmentFromContext(ctx context.Context) *Environment {
	if env, ok := ctx.Value(ctxEnv).(*Environment); ok {
		return env
	}
	return Default
}

// WithMaxDepth returns a context that bounds the resolution stack of chains
// started under it to at most n nested resolutions. It uses the same
// chain-local scoping mechanism as WithEnvironment and does not affect a
// chain that is already in flight. Values below 1 are ignored; without a
// limit, DefaultMaxDepth applies.
func WithMaxDepth(ctx context.Context, n int) context.Context {
	if n < 1 {
		return ctx
	}
	return context.WithValue(ctx, ctxDepth, n)
}

func maxDepthFromContext(ctx context.Context) int {
	if n, ok := ctx.Value(ctxDepth).(int); ok {
		return n
	}
	return DefaultMaxDepth
}

// Detach returns a context that keeps the current environment selection and
// depth limit but drops any in-flight chain state. Use it when spawning a
// goroutine from inside a factory: the goroutine then starts its own
// resolution chain instead of sharing the parent's stack and graph cache,
// which would otherwise race and falsely detect cycles across unrelated
// chains.
func Detach(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxChain, (*chain)(nil))
}

func chainFromContext(ctx context.Context) *chain {
	c, _ := ctx.Value(ctxChain).(*chain)
	return c
}

func withChain(ctx context.Context, c *chain) context.Context {
	return context.WithValue(ctx, ctxChain, c)
}
