package inject

// scopeKind enumerates the built-in lifecycle policies.
type scopeKind uint8

const (
	kindSingleton scopeKind = iota
	kindTransient
	kindGraph
	kindCustom
)

// Scope is the lifecycle policy attached to a registration. It decides
// whether a resolved instance is memoized and, if so, in which cache
// partition it lives:
//
//   - Singleton: one shared instance per environment, created on first
//     resolution and reused until the cache is reset.
//   - Transient: a fresh instance on every resolution; never cached.
//   - Graph: one instance per resolution chain, shared by every nested
//     resolution within the same top-level call and discarded afterwards.
//   - Custom: behaves like Singleton, but lives in its own named cache
//     partition that can be reset independently.
//
// Scope is a comparable value type; together with the service type it forms
// the composite cache key. The zero value is Singleton().
type Scope struct {
	kind scopeKind
	name string
}

// Singleton returns the scope that caches one instance per environment.
// It is the default lifecycle policy.
func Singleton() Scope { return Scope{kind: kindSingleton} }

// Transient returns the scope that creates a new instance on every
// resolution without touching any cache.
func Transient() Scope { return Scope{kind: kindTransient} }

// Graph returns the scope that shares one instance across all nested
// resolutions of the same top-level Resolve call.
func Graph() Scope { return Scope{kind: kindGraph} }

// Custom returns a singleton-like scope with its own cache partition.
// Two custom scopes with different names never share cached instances,
// and resetting one leaves the other untouched.
func Custom(name string) Scope { return Scope{kind: kindCustom, name: name} }

// String returns a readable representation of the scope, as used in logs
// and error messages.
func (s Scope) String() string {
	switch s.kind {
	case kindTransient:
		return "transient"
	case kindGraph:
		return "graph"
	case kindCustom:
		return "custom(" + s.name + ")"
	default:
		return "singleton"
	}
}
