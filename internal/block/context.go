package block

import "fmt"

// Context is the opaque capability handle handed to a block for one node
// execution. Effectful blocks use it to reach their app adapter; pure blocks
// receive a context with no adapters at all.
//
// Adapters are shared read-only across concurrently executing nodes; each
// adapter owns its own internal synchronization.
type Context struct {
	runID    string
	nodeID   string
	adapters map[string]any
}

// NewContext assembles an execution context. adapters may be nil for blocks
// that are not effectful.
func NewContext(runID, nodeID string, adapters map[string]any) *Context {
	return &Context{runID: runID, nodeID: nodeID, adapters: adapters}
}

// RunID identifies the graph execution this context belongs to.
func (c *Context) RunID() string { return c.runID }

// NodeID identifies the node being executed.
func (c *Context) NodeID() string { return c.nodeID }

// Adapter returns the app adapter registered under the given app name. It
// fails for blocks whose spec does not declare them effectful, since those
// run with no adapters attached.
func (c *Context) Adapter(app string) (any, error) {
	if c == nil || c.adapters == nil {
		return nil, fmt.Errorf("no adapters available: block is not effectful")
	}
	a, ok := c.adapters[app]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for app %q", app)
	}
	return a, nil
}
