package inject_test

import (
	"errors"
	"testing"

	"github.com/deep-rent/inject"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	t.Run("NotRegistered", func(t *testing.T) {
		err := &inject.NotRegisteredError{Service: "*pkg.Store"}
		assert.EqualError(t, err, "inject: no provider registered for *pkg.Store")
	})

	t.Run("CircularDependency", func(t *testing.T) {
		err := &inject.CircularDependencyError{
			Service: "*pkg.A",
			Chain:   []string{"*pkg.A", "*pkg.B", "*pkg.A"},
		}
		assert.EqualError(t, err,
			"inject: circular dependency detected resolving *pkg.A: "+
				"*pkg.A -> *pkg.B -> *pkg.A")
	})

	t.Run("MaxDepthExceeded", func(t *testing.T) {
		err := &inject.MaxDepthExceededError{
			Depth: 2,
			Chain: []string{"*pkg.A", "*pkg.B", "*pkg.C"},
		}
		assert.EqualError(t, err,
			"inject: resolution exceeds maximum depth 2: "+
				"*pkg.A -> *pkg.B -> *pkg.C")
	})

	t.Run("FactoryFailed", func(t *testing.T) {
		cause := errors.New("boom")
		err := &inject.FactoryError{Service: "*pkg.Store", Err: cause}
		assert.EqualError(t, err, "inject: factory for *pkg.Store failed: boom")
		assert.ErrorIs(t, err, cause, "Unwrap should expose the cause")
	})
}
