package inject

import (
	"errors"
	"fmt"
	"strings"
)

// NotRegisteredError reports a resolution of a service type for which no
// provider has been registered in the current environment.
type NotRegisteredError struct {
	// Service is the name of the requested service type.
	Service string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("inject: no provider registered for %s", e.Service)
}

// CircularDependencyError reports that a service type reappeared in the
// in-flight resolution stack.
type CircularDependencyError struct {
	// Service is the name of the service type that closed the loop.
	Service string
	// Chain lists the service types from the outermost resolution down to
	// and including the repeated occurrence, forming a closed loop.
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf(
		"inject: circular dependency detected resolving %s: %s",
		e.Service, strings.Join(e.Chain, " -> "),
	)
}

// MaxDepthExceededError reports that a resolution chain grew beyond the
// configured depth limit. The limit exists to turn an unbounded dependency
// graph into an error instead of unbounded recursion.
type MaxDepthExceededError struct {
	// Depth is the configured limit.
	Depth int
	// Chain is the resolution stack at the point of failure.
	Chain []string
}

func (e *MaxDepthExceededError) Error() string {
	return fmt.Sprintf(
		"inject: resolution exceeds maximum depth %d: %s",
		e.Depth, strings.Join(e.Chain, " -> "),
	)
}

// FactoryError reports that the factory for a service type failed with an
// error that is not part of the engine's own taxonomy. The original error
// is preserved as the cause. Recovered factory panics surface as a
// FactoryError as well.
type FactoryError struct {
	// Service is the name of the service type whose factory failed.
	Service string
	// Err is the underlying cause.
	Err error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("inject: factory for %s failed: %v", e.Service, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FactoryError) Unwrap() error { return e.Err }

func (*NotRegisteredError) taxonomy()      {}
func (*CircularDependencyError) taxonomy() {}
func (*MaxDepthExceededError) taxonomy()   {}
func (*FactoryError) taxonomy()            {}

// resolutionError marks the closed set of error kinds owned by the engine.
// Errors of these kinds propagate through nested resolutions unchanged;
// everything else gets wrapped into a FactoryError at the factory boundary.
type resolutionError interface {
	error
	taxonomy()
}

func isResolutionError(err error) bool {
	var re resolutionError
	return errors.As(err, &re)
}
