package graph

import (
	"sort"

	"github.com/blockflow/blockflow/internal/value"
)

// validate checks every graph invariant: type compatibility of literals and
// edges, required inputs bound, and acyclicity. It returns the first
// violation found.
func (g *Graph) validate() error {
	for _, id := range g.order {
		n := g.nodes[id]
		incoming := make(map[string]Edge, len(g.in[id]))
		for _, e := range g.in[id] {
			incoming[e.ToPort] = e
		}

		for _, p := range n.Spec.Inputs {
			lit, hasLit := n.Literals[p.Name]
			e, hasEdge := incoming[p.Name]

			switch {
			case hasLit:
				if !value.Compatible(p.Type, lit.Type()) {
					return &TypeMismatchError{Node: id, Port: p.Name, Expected: p.Type, Actual: lit.Type()}
				}
			case hasEdge:
				src := g.nodes[e.FromNode]
				out, _ := src.Spec.Output(e.FromPort)
				if !value.Compatible(p.Type, out.Type) {
					return &TypeMismatchError{Node: id, Port: p.Name, Expected: p.Type, Actual: out.Type}
				}
			case p.Required:
				return &MissingInputError{Node: id, Port: p.Name}
			}
		}
	}

	return g.detectCycle()
}

// detectCycle runs a depth-first search with the classic three-colour
// scheme: permanent nodes are fully explored, temporary nodes sit on the
// current recursion stack. Hitting a temporary node again means the edges
// loop back.
func (g *Graph) detectCycle() error {
	permanent := make(map[string]bool, len(g.order))
	temporary := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return &CycleError{Node: id}
		}
		temporary[id] = true
		deps := dependentIDs(g.out[id])
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range g.order {
		if !permanent[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func dependentIDs(out []Edge) []string {
	seen := make(map[string]struct{}, len(out))
	ids := make([]string, 0, len(out))
	for _, e := range out {
		if _, ok := seen[e.ToNode]; ok {
			continue
		}
		seen[e.ToNode] = struct{}{}
		ids = append(ids, e.ToNode)
	}
	sort.Strings(ids)
	return ids
}
