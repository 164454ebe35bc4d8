package inject

import (
	"log/slog"
	"sync"
)

// Environment is a named registry of providers and cached instances.
// Distinct environments are fully isolated: registering or resolving in one
// never observes or mutates another.
//
// Environments created through New are interned by name: two calls with the
// same name return the same instance, so name equality is storage identity
// and environments can safely be used as map keys. Use NewIsolated for an
// environment with independent storage regardless of its name.
type Environment struct {
	name string
	reg  *registry
	log  *slog.Logger
}

var (
	envMu sync.Mutex
	envs  = make(map[string]*Environment)
)

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the logger used for debug-level diagnostics such as
// provider registrations and cache resets. If not set, the environment
// logs through slog.Default(). A nil value is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Environment) {
		if logger != nil {
			e.log = logger
		}
	}
}

// New returns the environment with the given name, creating it on first
// use. Options are applied on every call, so a logger can be attached to a
// predefined environment after the fact.
func New(name string, opts ...Option) *Environment {
	envMu.Lock()
	defer envMu.Unlock()
	e, ok := envs[name]
	if !ok {
		e = newEnvironment(name)
		envs[name] = e
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewIsolated returns a new environment with the given name that is not
// interned: every call creates independent storage, even for a name already
// in use. Isolated environments are handy for tests and for engines that
// must not be reachable through the global table.
func NewIsolated(name string, opts ...Option) *Environment {
	e := newEnvironment(name)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newEnvironment(name string) *Environment {
	return &Environment{
		name: name,
		reg:  newRegistry(),
		log:  slog.Default(),
	}
}

// Predefined environments covering the usual deployment stages. Ad hoc
// environments can be created with New or NewIsolated.
var (
	Default     = New("default")
	Production  = New("production")
	Development = New("development")
	Testing     = New("testing")
)

// Name returns the environment's name.
func (e *Environment) Name() string { return e.name }

// String returns the environment's name.
func (e *Environment) String() string { return e.name }

// ResetCaches clears every cached instance across all scopes, including
// every custom partition. Provider entries stay registered; the next
// resolution of each service re-invokes its factory.
func (e *Environment) ResetCaches() {
	e.reg.resetCaches()
	e.log.Debug("Reset caches", "environment", e.name)
}

// ResetScope clears only cached instances whose scope equals the given
// scope, including the custom name. Other partitions and all provider
// entries are untouched.
func (e *Environment) ResetScope(scope Scope) {
	e.reg.resetScope(scope)
	e.log.Debug("Reset scope", "environment", e.name, "scope", scope.String())
}

// ResetAll clears both caches and provider entries. Resolving any
// previously registered type fails with a NotRegisteredError until it is
// registered again.
func (e *Environment) ResetAll() {
	e.reg.resetAll()
	e.log.Debug("Reset registry", "environment", e.name)
}

// Registrations returns a snapshot of all provider entries, sorted by
// service name and scope.
func (e *Environment) Registrations() []Registration {
	return e.reg.registrations()
}
