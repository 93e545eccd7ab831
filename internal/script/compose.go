package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/graph"
	"github.com/blockflow/blockflow/internal/registry"
)

// Compose lowers parsed statements onto a graph builder. Statement k becomes
// node "node<k>"; positional arguments bind to the block's declared input
// ports in order; a reference argument becomes an edge from the referenced
// node's first output port. The returned graph is sealed and validated.
func Compose(reg *registry.Registry, stmts []Statement) (*graph.Graph, error) {
	b := graph.NewBuilder(reg)

	byLabel := make(map[string]string)
	byIndex := make([]string, 0, len(stmts))
	specs := make(map[string]*block.Spec, len(stmts))

	for _, st := range stmts {
		spec, ok := reg.Spec(st.Block)
		if !ok {
			return nil, fmt.Errorf("line %d: %w", st.Line, &registry.UnknownBlockError{ID: st.Block})
		}
		if len(st.Args) > len(spec.Inputs) {
			return nil, &ArityError{Line: st.Line, Block: st.Block, Want: len(spec.Inputs), Got: len(st.Args)}
		}

		id, err := b.AddNode(st.Block, nil)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", st.Line, err)
		}
		specs[id] = spec

		for i, arg := range st.Args {
			port := spec.Inputs[i].Name
			if !arg.IsRef() {
				if err := b.BindLiteral(id, port, arg.Literal); err != nil {
					return nil, fmt.Errorf("line %d: %w", st.Line, err)
				}
				continue
			}
			src, err := resolveRef(arg.Ref, st.Line, byLabel, byIndex)
			if err != nil {
				return nil, err
			}
			srcSpec := specs[src]
			if len(srcSpec.Outputs) == 0 {
				return nil, fmt.Errorf("line %d: referenced block %q has no outputs", st.Line, srcSpec.ID)
			}
			if err := b.Connect(src, srcSpec.Outputs[0].Name, id, port); err != nil {
				return nil, fmt.Errorf("line %d: %w", st.Line, err)
			}
		}

		byIndex = append(byIndex, id)
		if st.Label != "" {
			byLabel[st.Label] = id
		}
	}

	return b.Seal()
}

// Load parses and composes in one step.
func Load(reg *registry.Registry, src string) (*graph.Graph, error) {
	stmts, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return Compose(reg, stmts)
}

// resolveRef maps "$k" or a label to an already-created node id. Forward
// references are impossible, so an unresolved name is a user error.
func resolveRef(ref string, line int, byLabel map[string]string, byIndex []string) (string, error) {
	if strings.HasPrefix(ref, "$") {
		k, err := strconv.Atoi(ref[1:])
		if err != nil || k < 0 || k >= len(byIndex) {
			return "", &UnknownReferenceError{Line: line, Name: ref}
		}
		return byIndex[k], nil
	}
	id, ok := byLabel[ref]
	if !ok {
		return "", &UnknownReferenceError{Line: line, Name: ref}
	}
	return id, nil
}
