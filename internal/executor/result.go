package executor

import (
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Status is a node's position in its execution state machine. All terminal
// states (Succeeded, Failed, Skipped) are final.
type Status int32

const (
	// Pending means the node is waiting for earlier stages to finish.
	Pending Status = iota
	// Ready means all inputs are available and the node awaits a worker.
	Ready
	// Running means a worker is executing the node's block.
	Running
	// Succeeded means the block returned its outputs.
	Succeeded
	// Failed means the block returned an error.
	Failed
	// Skipped means an upstream dependency did not succeed, or the run was
	// cancelled before the node could start.
	Skipped
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == Succeeded || s == Failed || s == Skipped
}

// UpstreamError marks a node skipped because one of its dependencies did
// not succeed.
type UpstreamError struct {
	Node     string
	Upstream string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("node %q skipped: upstream node %q did not succeed", e.Node, e.Upstream)
}

// NodeResult is the terminal outcome of one node. Outputs carries only the
// node's sink values, everything consumed downstream has already been
// released by the value store.
type NodeResult struct {
	Status  Status
	Err     error
	Outputs map[string]cty.Value
}

// Result is the outcome of one graph execution.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string
	// OK is true when every node succeeded.
	OK bool
	// Nodes maps node id to its terminal outcome.
	Nodes map[string]*NodeResult
	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
	// PeakLiveValues is the largest number of values the store retained at
	// any moment during the run.
	PeakLiveValues int
}

// Output returns a sink value produced by the given node, if it was
// retained.
func (r *Result) Output(node, port string) (cty.Value, bool) {
	nr, ok := r.Nodes[node]
	if !ok || nr.Outputs == nil {
		return cty.NilVal, false
	}
	v, ok := nr.Outputs[port]
	return v, ok
}

// Status returns the terminal status of the given node.
func (r *Result) Status(node string) (Status, bool) {
	nr, ok := r.Nodes[node]
	if !ok {
		return Pending, false
	}
	return nr.Status, true
}
