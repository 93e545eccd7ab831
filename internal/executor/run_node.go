package executor

import (
	"context"
	"fmt"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/ctxlog"
	"github.com/blockflow/blockflow/internal/graph"
)

// runNode drives one node through its state machine. By the time it is
// called, every dependency has reached a terminal state thanks to the stage
// barrier.
func (r *run) runNode(ctx context.Context, id string) {
	logger := ctxlog.FromContext(ctx).With("node", id)
	node, _ := r.exec.graph.Node(id)

	// A node whose upstream did not succeed is skipped without ever
	// invoking its block, so no side effect can fire.
	for _, dep := range r.exec.graph.Dependencies(id) {
		if r.status(dep) != Succeeded {
			logger.Debug("Skipping node, upstream did not succeed.", "upstream", dep)
			r.setStatus(id, Skipped, &UpstreamError{Node: id, Upstream: dep})
			return
		}
	}
	r.setStatus(id, Ready, nil)

	inputs, err := r.gatherInputs(node)
	if err != nil {
		r.setStatus(id, Failed, err)
		return
	}
	params := mergeParams(node)

	blk, err := r.exec.reg.Resolve(node.Spec.ID)
	if err != nil {
		r.setStatus(id, Failed, err)
		return
	}

	var adapters map[string]any
	if node.Spec.Effectful {
		adapters = r.exec.opts.Adapters
	}
	ec := block.NewContext(r.runID, id, adapters)

	r.setStatus(id, Running, nil)
	logger.Debug("Invoking block.", "block", node.Spec.ID, "effectful", node.Spec.Effectful)
	outs, execErr := blk.Execute(ctx, ec, inputs, params)
	if execErr != nil {
		logger.Debug("Block failed.", "block", node.Spec.ID, "error", execErr)
		r.setStatus(id, Failed, &block.ExecError{BlockID: node.Spec.ID, Err: execErr})
		r.releaseInputs(node)
		return
	}

	// Publish outputs before releasing inputs so the store's working set
	// peaks at input-plus-output, never less than either alone.
	if err := r.publishOutputs(node, outs); err != nil {
		r.setStatus(id, Failed, err)
		r.releaseInputs(node)
		return
	}
	r.releaseInputs(node)
	r.setStatus(id, Succeeded, nil)
}

// gatherInputs assembles the block's input map from literal bindings and
// upstream values. Validation guarantees every required input is bound, so
// a miss here is a defect, not a user error.
func (r *run) gatherInputs(node *graph.Node) (block.Inputs, error) {
	inputs := make(block.Inputs, len(node.Spec.Inputs))
	for port, v := range node.Literals {
		inputs[port] = v
	}
	for _, e := range r.exec.graph.In(node.ID) {
		v, ok := r.store.Get(e.FromNode, e.FromPort)
		if !ok {
			return nil, fmt.Errorf("node %q: value for input %q vanished from the store", node.ID, e.ToPort)
		}
		inputs[e.ToPort] = v
	}
	for _, p := range node.Spec.Inputs {
		if _, ok := inputs[p.Name]; !ok && p.Required {
			return nil, fmt.Errorf("node %q: required input %q is not bound", node.ID, p.Name)
		}
	}
	return inputs, nil
}

// releaseInputs tells the store this node is done reading its upstream
// values.
func (r *run) releaseInputs(node *graph.Node) {
	for _, e := range r.exec.graph.In(node.ID) {
		r.store.Release(e.FromNode, e.FromPort)
	}
}

// publishOutputs stores every declared output with its consumer count.
func (r *run) publishOutputs(node *graph.Node, outs block.Outputs) error {
	for _, p := range node.Spec.Outputs {
		v, ok := outs[p.Name]
		if !ok {
			return fmt.Errorf("node %q: block %q produced no value for output %q", node.ID, node.Spec.ID, p.Name)
		}
		r.store.Put(node.ID, p.Name, v, r.exec.graph.Consumers(node.ID, p.Name))
	}
	return nil
}

// mergeParams overlays the node's parameter bindings on the spec defaults.
func mergeParams(node *graph.Node) block.Params {
	params := make(block.Params, len(node.Spec.Params))
	for name, def := range node.Spec.Params {
		params[name] = def
	}
	for name, v := range node.Params {
		params[name] = v
	}
	return params
}
