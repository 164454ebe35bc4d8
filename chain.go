package inject

import "reflect"

// DefaultMaxDepth bounds the resolution stack when no chain-local limit has
// been configured via WithMaxDepth.
const DefaultMaxDepth = 100

// chain tracks the state of one logical resolution call chain: the stack of
// service types currently being resolved, the graph cache box shared by all
// nested graph-scoped resolutions, and the depth limit.
//
// A chain belongs to exactly one call tree and is not safe for concurrent
// use. It travels down the tree inside the context passed to factories;
// goroutines spawned mid-resolution must start a fresh chain via Detach.
type chain struct {
	stack []reflect.Type
	graph map[cacheKey]any
	limit int
}

func newChain(limit int) *chain {
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	return &chain{limit: limit}
}

// enter pushes typ onto the resolution stack. It fails if typ is already in
// flight (circular dependency) or if the push would exceed the depth limit.
// The graph cache box is allocated when the stack transitions from empty to
// non-empty, so each top-level resolution starts with a fresh box.
func (c *chain) enter(typ reflect.Type) error {
	for _, t := range c.stack {
		if t == typ {
			return &CircularDependencyError{
				Service: typ.String(),
				Chain:   c.trace(typ),
			}
		}
	}
	if len(c.stack) >= c.limit {
		return &MaxDepthExceededError{
			Depth: c.limit,
			Chain: c.trace(typ),
		}
	}
	if len(c.stack) == 0 {
		c.graph = make(map[cacheKey]any)
	}
	c.stack = append(c.stack, typ)
	return nil
}

// exit pops the top of the stack. It runs on every path out of the
// corresponding enter; once the stack unwinds to empty, the graph cache box
// is discarded along with the instances it holds.
func (c *chain) exit() {
	if n := len(c.stack); n > 0 {
		c.stack = c.stack[:n-1]
	}
	if len(c.stack) == 0 {
		c.graph = nil
	}
}

// trace renders the current stack plus typ as readable type names.
func (c *chain) trace(typ reflect.Type) []string {
	names := make([]string, 0, len(c.stack)+1)
	for _, t := range c.stack {
		names = append(names, t.String())
	}
	return append(names, typ.String())
}
