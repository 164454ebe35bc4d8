// Package inject is a dependency-injection registry with scoped instance
// lifecycles. Callers register factories (or ready-made instances) keyed by
// the service's declared type and later resolve instances of that type
// elsewhere in the program. The engine detects resolution cycles and depth
// overruns, memoizes instances according to the registration's scope, and
// isolates registrations per named environment.
//
// # Registration and resolution
//
// Services are registered against an environment and resolved through a
// context:
//
//	type Store struct{ DSN string }
//
//	inject.Register(inject.Default, inject.Singleton(),
//		func(ctx context.Context) (*Store, error) {
//			return &Store{DSN: "postgres://localhost"}, nil
//		})
//
//	store, err := inject.Resolve[*Store](context.Background())
//
// Factories receive the context of the resolution call and resolve their
// own dependencies through it, so nested resolutions share one chain:
//
//	inject.Register(inject.Default, inject.Singleton(),
//		func(ctx context.Context) (*Server, error) {
//			store, err := inject.Resolve[*Store](ctx)
//			if err != nil {
//				return nil, err
//			}
//			return &Server{Store: store}, nil
//		})
//
// # Scopes
//
// Each registration carries a Scope deciding how instances are memoized:
// Singleton (one per environment, the default), Transient (never cached),
// Graph (one per top-level Resolve call, shared by all nested resolutions
// within it), and Custom (singleton-like, but in an independently resettable
// named partition).
//
// # Environments
//
// An Environment is a named, isolated registry. The predefined Default,
// Production, Development, and Testing environments cover the usual stages;
// New creates ad hoc ones. The current environment is selected per call
// chain:
//
//	ctx := inject.WithEnvironment(context.Background(), inject.Testing)
//	store, err := inject.Resolve[*Store](ctx)
//
// Selections nest and unwind with the context, and never leak into
// concurrently running chains.
//
// # Errors
//
// Resolution failures surface as one of four typed errors:
// NotRegisteredError, CircularDependencyError, MaxDepthExceededError, and
// FactoryError. None of them is retried or swallowed; match them with
// errors.As. The engine itself never panics on resolution failure; the Must
// helper converts errors to panics for wiring code that prefers to crash.
//
// # Concurrency
//
// All operations are safe for concurrent use. Concurrent first-time
// resolutions of a singleton converge on a single factory call. Chain state
// (cycle detection, graph caches, environment selection, depth limits) is
// local to one call tree; use Detach before handing a resolution context to
// a new goroutine.
package inject
