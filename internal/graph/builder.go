package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
)

// Builder accumulates nodes, literal bindings and edges, then validates and
// seals them into an immutable Graph. A Builder is not safe for concurrent
// use.
type Builder struct {
	reg   *registry.Registry
	nodes map[string]*Node
	order []string
	edges []Edge
	bound map[[2]string]struct{} // (node id, input port) with any binding
}

// NewBuilder creates a builder resolving block ids against the given
// registry.
func NewBuilder(reg *registry.Registry) *Builder {
	return &Builder{
		reg:   reg,
		nodes: make(map[string]*Node),
		bound: make(map[[2]string]struct{}),
	}
}

// AddNode adds a node for the given block id under an engine-assigned
// identifier ("node0", "node1", ...) and returns it.
func (b *Builder) AddNode(blockID string, params map[string]cty.Value) (string, error) {
	id := fmt.Sprintf("node%d", len(b.order))
	if err := b.AddNamedNode(id, blockID, params); err != nil {
		return "", err
	}
	return id, nil
}

// AddNamedNode adds a node under a caller-chosen identifier. The structured
// front-end uses this to preserve user labels.
func (b *Builder) AddNamedNode(id, blockID string, params map[string]cty.Value) error {
	if id == "" {
		return fmt.Errorf("node id must not be empty")
	}
	if _, exists := b.nodes[id]; exists {
		return &DuplicateNodeError{Node: id}
	}
	spec, ok := b.reg.Spec(blockID)
	if !ok {
		return &registry.UnknownBlockError{ID: blockID}
	}
	for name := range params {
		if _, ok := spec.Params[name]; !ok {
			return fmt.Errorf("node %q: %w", id, &block.ParamError{
				Param:  name,
				Reason: fmt.Sprintf("block %q declares no such parameter", blockID),
			})
		}
	}

	merged := make(map[string]cty.Value, len(params))
	for name, v := range params {
		merged[name] = v
	}
	b.nodes[id] = &Node{
		ID:       id,
		Spec:     spec,
		Params:   merged,
		Literals: make(map[string]cty.Value),
	}
	b.order = append(b.order, id)
	return nil
}

// Connect adds an edge from an output port to an input port. Node and port
// existence and the one-binding-per-input rule are checked immediately; type
// compatibility and acyclicity are checked at Seal.
func (b *Builder) Connect(fromNode, fromPort, toNode, toPort string) error {
	from, ok := b.nodes[fromNode]
	if !ok {
		return &UnknownNodeError{Node: fromNode}
	}
	to, ok := b.nodes[toNode]
	if !ok {
		return &UnknownNodeError{Node: toNode}
	}
	if _, ok := from.Spec.Output(fromPort); !ok {
		return &UnknownPortError{Node: fromNode, Port: fromPort, Direction: "output"}
	}
	if _, ok := to.Spec.Input(toPort); !ok {
		return &UnknownPortError{Node: toNode, Port: toPort, Direction: "input"}
	}
	if fromNode == toNode {
		return &CycleError{Node: toNode}
	}
	key := [2]string{toNode, toPort}
	if _, taken := b.bound[key]; taken {
		return &DuplicateBindingError{Node: toNode, Port: toPort}
	}
	b.bound[key] = struct{}{}
	b.edges = append(b.edges, Edge{FromNode: fromNode, FromPort: fromPort, ToNode: toNode, ToPort: toPort})
	return nil
}

// BindLiteral binds a literal value to an input port.
func (b *Builder) BindLiteral(nodeID, port string, v cty.Value) error {
	n, ok := b.nodes[nodeID]
	if !ok {
		return &UnknownNodeError{Node: nodeID}
	}
	if _, ok := n.Spec.Input(port); !ok {
		return &UnknownPortError{Node: nodeID, Port: port, Direction: "input"}
	}
	key := [2]string{nodeID, port}
	if _, taken := b.bound[key]; taken {
		return &DuplicateBindingError{Node: nodeID, Port: port}
	}
	b.bound[key] = struct{}{}
	n.Literals[port] = v
	return nil
}

// Seal runs the full validation pass and, on success, returns the immutable
// Graph. The first violated invariant is reported with node and port
// context; iteration follows node insertion order and declared port order,
// so failures are deterministic.
func (b *Builder) Seal() (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]*Node, len(b.nodes)),
		order: append([]string(nil), b.order...),
		edges: append([]Edge(nil), b.edges...),
		in:    make(map[string][]Edge),
		out:   make(map[string][]Edge),
	}
	for id, n := range b.nodes {
		lits := make(map[string]cty.Value, len(n.Literals))
		for k, v := range n.Literals {
			lits[k] = v
		}
		params := make(map[string]cty.Value, len(n.Params))
		for k, v := range n.Params {
			params[k] = v
		}
		g.nodes[id] = &Node{ID: n.ID, Spec: n.Spec, Params: params, Literals: lits}
	}
	for _, e := range g.edges {
		g.in[e.ToNode] = append(g.in[e.ToNode], e)
		g.out[e.FromNode] = append(g.out[e.FromNode], e)
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}
