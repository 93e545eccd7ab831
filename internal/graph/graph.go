package graph

import (
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
)

// Node is an instantiated block within a graph: its unique id, the spec it
// resolves to, parameter bindings, and any literal bindings on input ports.
// Callers must treat Node fields as read-only once the graph is sealed.
type Node struct {
	ID       string
	Spec     *block.Spec
	Params   map[string]cty.Value
	Literals map[string]cty.Value // input port name -> literal
}

// Edge is a directed connection from one node's output port to another
// node's input port.
type Edge struct {
	FromNode string
	FromPort string
	ToNode   string
	ToPort   string
}

// Graph is the sealed, validated dependency DAG. It may be executed any
// number of times; executions never mutate it.
type Graph struct {
	nodes map[string]*Node
	order []string // node ids in insertion order
	edges []Edge
	in    map[string][]Edge // incoming edges keyed by target node id
	out   map[string][]Edge // outgoing edges keyed by source node id
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// NodeIDs returns all node ids in insertion order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edges returns every edge in the graph.
func (g *Graph) Edges() []Edge {
	es := make([]Edge, len(g.edges))
	copy(es, g.edges)
	return es
}

// In returns the edges arriving at the given node.
func (g *Graph) In(id string) []Edge {
	es := make([]Edge, len(g.in[id]))
	copy(es, g.in[id])
	return es
}

// Out returns the edges leaving the given node.
func (g *Graph) Out(id string) []Edge {
	es := make([]Edge, len(g.out[id]))
	copy(es, g.out[id])
	return es
}

// Dependencies returns the distinct ids of nodes the given node consumes
// from, in ascending order.
func (g *Graph) Dependencies(id string) []string {
	return distinctPeers(g.in[id], func(e Edge) string { return e.FromNode })
}

// Dependents returns the distinct ids of nodes consuming the given node's
// outputs, in ascending order.
func (g *Graph) Dependents(id string) []string {
	return distinctPeers(g.out[id], func(e Edge) string { return e.ToNode })
}

// Consumers returns how many edges read from the given output port. A zero
// count marks the port as a graph sink.
func (g *Graph) Consumers(nodeID, port string) int {
	n := 0
	for _, e := range g.out[nodeID] {
		if e.FromPort == port {
			n++
		}
	}
	return n
}

func distinctPeers(edges []Edge, peer func(Edge) string) []string {
	seen := make(map[string]struct{}, len(edges))
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		p := peer(e)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		ids = append(ids, p)
	}
	sort.Strings(ids)
	return ids
}
