package inject

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// factory produces a type-erased instance. The context carries the state of
// the surrounding resolution chain, allowing factories to resolve their own
// dependencies.
type factory func(ctx context.Context) (any, error)

// provider pairs a registered factory with its declared scope.
type provider struct {
	make  factory
	scope Scope
}

// cacheKey partitions provider entries and cached instances by service type
// and scope.
type cacheKey struct {
	typ   reflect.Type
	scope Scope
}

func (k cacheKey) String() string {
	return k.typ.String() + "@" + k.scope.String()
}

// registry holds the provider table and the instance cache of one
// environment. A single coarse mutex guards both tables; resolution is
// typically front-loaded at startup and thereafter hits the cache, so
// contention stays low. Factories never run while the lock is held.
type registry struct {
	mu        sync.Mutex
	providers map[cacheKey]provider
	scopes    map[reflect.Type]Scope
	cache     map[cacheKey]any
	flights   singleflight.Group
}

func newRegistry() *registry {
	return &registry{
		providers: make(map[cacheKey]provider),
		scopes:    make(map[reflect.Type]Scope),
		cache:     make(map[cacheKey]any),
	}
}

// register stores fn under (typ, scope), silently replacing any previous
// entry for that exact key. The cache is left untouched, so an instance
// cached under the same key keeps being served until the cache is reset.
func (r *registry) register(typ reflect.Type, scope Scope, fn factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[cacheKey{typ: typ, scope: scope}] = provider{make: fn, scope: scope}
	r.scopes[typ] = scope
}

// registerInstance registers a factory returning the given instance with
// singleton scope and eagerly seeds the cache, so the synthetic factory is
// never invoked.
func (r *registry) registerInstance(typ reflect.Type, instance any) {
	key := cacheKey{typ: typ, scope: Singleton()}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[key] = provider{
		make:  func(context.Context) (any, error) { return instance, nil },
		scope: Singleton(),
	}
	r.scopes[typ] = Singleton()
	r.cache[key] = instance
}

// lookup returns the provider entry that resolution dispatches on for typ,
// which is the most recently registered one.
func (r *registry) lookup(typ reflect.Type) (provider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scope, ok := r.scopes[typ]
	if !ok {
		return provider{}, false
	}
	p, ok := r.providers[cacheKey{typ: typ, scope: scope}]
	return p, ok
}

// cached returns the memoized instance for key, if any.
func (r *registry) cached(key cacheKey) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.cache[key]
	return v, ok
}

// store memoizes an instance under key.
func (r *registry) store(key cacheKey, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = v
}

// once coalesces concurrent executions of fn per key, so N first-time
// resolutions of the same singleton invoke its factory exactly once.
func (r *registry) once(key cacheKey, fn func() (any, error)) (any, error) {
	v, err, _ := r.flights.Do(key.String(), fn)
	return v, err
}

// resetCaches clears every cached instance across all scopes. Provider
// entries stay intact; subsequent resolutions re-invoke the factories.
func (r *registry) resetCaches() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

// resetScope clears only cache entries whose scope equals the given scope,
// including the custom name. Other partitions and all provider entries are
// untouched.
func (r *registry) resetScope(scope Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.cache {
		if k.scope == scope {
			delete(r.cache, k)
		}
	}
}

// resetAll clears both the cache and the provider table. Resolving any
// previously registered type fails with NotRegisteredError until it is
// registered again.
func (r *registry) resetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.providers)
	clear(r.scopes)
	clear(r.cache)
}

// Registration describes one provider entry for introspection.
type Registration struct {
	// Service is the name of the registered service type.
	Service string
	// Scope is the declared lifecycle policy.
	Scope Scope
	// Cached reports whether an instance is currently memoized under the
	// entry's key. Always false for transient and graph scopes.
	Cached bool
}

// registrations returns a snapshot of all provider entries, sorted by
// service name and scope.
func (r *registry) registrations() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Registration, 0, len(r.providers))
	for key := range r.providers {
		_, cached := r.cache[key]
		out = append(out, Registration{
			Service: key.typ.String(),
			Scope:   key.scope,
			Cached:  cached,
		})
	}
	slices.SortFunc(out, func(a, b Registration) int {
		if c := strings.Compare(a.Service, b.Service); c != 0 {
			return c
		}
		return strings.Compare(a.Scope.String(), b.Scope.String())
	})
	return out
}
