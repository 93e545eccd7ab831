// Package stringblocks provides the text manipulation blocks under the
// "string" app. All of them are pure.
package stringblocks

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

// Module registers the string blocks.
type Module struct{}

// New returns the string provider.
func New() *Module { return &Module{} }

func unarySpec(id string) *block.Spec {
	return &block.Spec{
		ID:      id,
		Inputs:  []block.Port{{Name: "text", Type: cty.String, Required: true}},
		Outputs: []block.Port{{Name: "result", Type: cty.String}},
	}
}

func unary(op func(string) string) block.Func {
	return func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		return block.Outputs{"result": cty.StringVal(op(in["text"].AsString()))}, nil
	}
}

// Register wires every string block into the registry.
func (m *Module) Register(r *registry.Registry) error {
	concatSpec := &block.Spec{
		ID: "string:concat",
		Inputs: []block.Port{
			{Name: "a", Type: cty.String, Required: true},
			{Name: "b", Type: cty.String, Required: true},
			{Name: "separator", Type: cty.String},
		},
		Outputs: []block.Port{{Name: "result", Type: cty.String}},
	}
	concat := func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		sep := ""
		if v, ok := in["separator"]; ok {
			sep = v.AsString()
		}
		return block.Outputs{"result": cty.StringVal(in["a"].AsString() + sep + in["b"].AsString())}, nil
	}

	splitSpec := &block.Spec{
		ID: "string:split",
		Inputs: []block.Port{
			{Name: "text", Type: cty.String, Required: true},
			{Name: "separator", Type: cty.String, Required: true},
		},
		Outputs: []block.Port{{Name: "parts", Type: cty.List(cty.String)}},
	}
	split := func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		parts := strings.Split(in["text"].AsString(), in["separator"].AsString())
		if len(parts) == 0 {
			return block.Outputs{"parts": cty.ListValEmpty(cty.String)}, nil
		}
		vals := make([]cty.Value, len(parts))
		for i, p := range parts {
			vals[i] = cty.StringVal(p)
		}
		return block.Outputs{"parts": cty.ListVal(vals)}, nil
	}

	formatSpec := &block.Spec{
		ID: "string:format",
		Inputs: []block.Port{
			{Name: "template", Type: cty.String, Required: true},
			{Name: "arg", Type: value.Any, Required: true},
		},
		Outputs: []block.Port{{Name: "result", Type: cty.String}},
	}
	format := func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		return block.Outputs{"result": cty.StringVal(fmt.Sprintf(in["template"].AsString(), formatArg(in["arg"])))}, nil
	}

	blocks := []struct {
		spec *block.Spec
		fn   block.Func
	}{
		{concatSpec, concat},
		{unarySpec("string:upper"), unary(strings.ToUpper)},
		{unarySpec("string:lower"), unary(strings.ToLower)},
		{splitSpec, split},
		{formatSpec, format},
	}
	for _, b := range blocks {
		if err := r.Register(b.spec, block.NewFactory(b.spec, b.fn)); err != nil {
			return err
		}
	}
	return nil
}

// formatArg unwraps a runtime value into the Go value fmt expects.
func formatArg(v cty.Value) any {
	switch {
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type() == cty.Number:
		return value.Float(v)
	case v.Type() == cty.Bool:
		return v.True()
	default:
		return v.GoString()
	}
}
