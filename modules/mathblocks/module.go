// Package mathblocks provides the arithmetic blocks under the "math" app.
// All of them are pure.
package mathblocks

import (
	"context"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

// Module registers the math blocks.
type Module struct{}

// New returns the math provider.
func New() *Module { return &Module{} }

func binarySpec(id, out string) *block.Spec {
	return &block.Spec{
		ID: id,
		Inputs: []block.Port{
			{Name: "a", Type: cty.Number, Required: true},
			{Name: "b", Type: cty.Number, Required: true},
		},
		Outputs: []block.Port{{Name: out, Type: cty.Number}},
	}
}

func binary(out string, op func(a, b float64) (float64, error)) block.Func {
	return func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		res, err := op(value.Float(in["a"]), value.Float(in["b"]))
		if err != nil {
			return nil, err
		}
		return block.Outputs{out: cty.NumberFloatVal(res)}, nil
	}
}

// Register wires every math block into the registry.
func (m *Module) Register(r *registry.Registry) error {
	blocks := []struct {
		spec *block.Spec
		fn   block.Func
	}{
		{
			spec: binarySpec("math:add", "sum"),
			fn: binary("sum", func(a, b float64) (float64, error) {
				return a + b, nil
			}),
		},
		{
			spec: binarySpec("math:sub", "difference"),
			fn: binary("difference", func(a, b float64) (float64, error) {
				return a - b, nil
			}),
		},
		{
			spec: binarySpec("math:multiply", "product"),
			fn: binary("product", func(a, b float64) (float64, error) {
				return a * b, nil
			}),
		},
		{
			spec: binarySpec("math:divide", "quotient"),
			fn: binary("quotient", func(a, b float64) (float64, error) {
				if b == 0 {
					return 0, fmt.Errorf("division by zero")
				}
				return a / b, nil
			}),
		},
		{
			spec: &block.Spec{
				ID:      "math:abs",
				Inputs:  []block.Port{{Name: "a", Type: cty.Number, Required: true}},
				Outputs: []block.Port{{Name: "result", Type: cty.Number}},
			},
			fn: func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
				return block.Outputs{"result": cty.NumberFloatVal(math.Abs(value.Float(in["a"])))}, nil
			},
		},
	}
	for _, b := range blocks {
		if err := r.Register(b.spec, block.NewFactory(b.spec, b.fn)); err != nil {
			return err
		}
	}
	return nil
}
