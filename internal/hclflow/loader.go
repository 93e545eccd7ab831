// Package hclflow loads HCL flow files into the canonical graph
// representation. Unlike the line-oriented script syntax, node identifiers
// are user-chosen labels, ports are bound by name, and declaration order
// does not matter.
package hclflow

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/ctxlog"
	"github.com/blockflow/blockflow/internal/graph"
	"github.com/blockflow/blockflow/internal/registry"
)

// Loader parses flow files against a registry of known blocks.
type Loader struct {
	reg *registry.Registry
}

// NewLoader creates a loader resolving block ids against the given registry.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{reg: reg}
}

// LoadFile reads and lowers a flow file from disk.
func (l *Loader) LoadFile(ctx context.Context, path string) (*graph.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading flow file: %w", err)
	}
	return l.Load(ctx, path, src)
}

// Load parses the given source and lowers it onto a graph builder. Nodes are
// created in declaration order before any input is bound, so a node may
// reference one declared later in the file.
func (l *Loader) Load(ctx context.Context, filename string, src []byte) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var cfg fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, diags
	}
	logger.Debug("Flow file parsed.", "file", filename, "nodes", len(cfg.Nodes))

	b := graph.NewBuilder(l.reg)
	for _, n := range cfg.Nodes {
		params, err := evalParams(n)
		if err != nil {
			return nil, err
		}
		if err := b.AddNamedNode(n.ID, n.BlockID, params); err != nil {
			return nil, err
		}
	}
	for _, n := range cfg.Nodes {
		for _, in := range n.Inputs {
			if err := bindInput(b, n.ID, in); err != nil {
				return nil, err
			}
		}
	}
	return b.Seal()
}

// evalParams evaluates every `param` block's value expression. Parameters
// are configuration, not dataflow, so references to other nodes are not
// available here.
func evalParams(n *nodeSchema) (map[string]cty.Value, error) {
	if len(n.Params) == 0 {
		return nil, nil
	}
	params := make(map[string]cty.Value, len(n.Params))
	for _, p := range n.Params {
		v, diags := p.Value.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("node %q, param %q: %w", n.ID, p.Name, diags)
		}
		params[p.Name] = v
	}
	return params, nil
}

// bindInput translates one `input` block into either a literal binding or an
// edge, depending on which of `value` and `from` its body carries.
func bindInput(b *graph.Builder, nodeID string, in *inputSchema) error {
	attrs, diags := in.Body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}

	valueAttr, hasValue := attrs["value"]
	fromAttr, hasFrom := attrs["from"]
	for name := range attrs {
		if name != "value" && name != "from" {
			return fmt.Errorf("node %q, input %q: unsupported attribute %q", nodeID, in.Port, name)
		}
	}
	if hasValue == hasFrom {
		return fmt.Errorf("node %q, input %q: exactly one of \"value\" and \"from\" must be set", nodeID, in.Port)
	}

	if hasValue {
		v, diags := valueAttr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("node %q, input %q: %w", nodeID, in.Port, diags)
		}
		return b.BindLiteral(nodeID, in.Port, v)
	}

	srcNode, srcPort, err := sourceRef(fromAttr.Expr)
	if err != nil {
		return fmt.Errorf("node %q, input %q: %w", nodeID, in.Port, err)
	}
	return b.Connect(srcNode, srcPort, nodeID, in.Port)
}

// sourceRef decodes a `from = node.<id>.<port>` reference expression.
func sourceRef(expr hcl.Expression) (nodeID, port string, err error) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return "", "", fmt.Errorf("\"from\" must be a node.<id>.<port> reference: %w", diags)
	}
	if len(traversal) != 3 || traversal.RootName() != "node" {
		return "", "", fmt.Errorf("\"from\" must be a node.<id>.<port> reference")
	}
	idStep, ok := traversal[1].(hcl.TraverseAttr)
	if !ok {
		return "", "", fmt.Errorf("\"from\" must be a node.<id>.<port> reference")
	}
	portStep, ok := traversal[2].(hcl.TraverseAttr)
	if !ok {
		return "", "", fmt.Errorf("\"from\" must be a node.<id>.<port> reference")
	}
	return idStep.Name, portStep.Name, nil
}
