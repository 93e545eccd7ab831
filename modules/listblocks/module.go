// Package listblocks provides the sequence blocks under the "list" app. All
// of them are pure and accept both lists and tuples.
package listblocks

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

// Module registers the list blocks.
type Module struct{}

// New returns the list provider.
func New() *Module { return &Module{} }

// Register wires every list block into the registry.
func (m *Module) Register(r *registry.Registry) error {
	lengthSpec := &block.Spec{
		ID:      "list:length",
		Inputs:  []block.Port{{Name: "list", Type: cty.List(value.Any), Required: true}},
		Outputs: []block.Port{{Name: "count", Type: cty.Number}},
	}
	length := func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		return block.Outputs{"count": cty.NumberIntVal(int64(in["list"].LengthInt()))}, nil
	}

	getSpec := &block.Spec{
		ID: "list:get",
		Inputs: []block.Port{
			{Name: "list", Type: cty.List(value.Any), Required: true},
			{Name: "index", Type: cty.Number, Required: true},
		},
		Outputs: []block.Port{{Name: "element", Type: value.Any}},
	}
	get := func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		list := in["list"]
		idx := int(value.Float(in["index"]))
		if idx < 0 || idx >= list.LengthInt() {
			return nil, fmt.Errorf("index %d out of range for list of length %d", idx, list.LengthInt())
		}
		return block.Outputs{"element": list.Index(cty.NumberIntVal(int64(idx)))}, nil
	}

	appendSpec := &block.Spec{
		ID: "list:append",
		Inputs: []block.Port{
			{Name: "list", Type: cty.List(value.Any), Required: true},
			{Name: "element", Type: value.Any, Required: true},
		},
		Outputs: []block.Port{{Name: "list", Type: cty.List(value.Any)}},
	}
	appendFn := func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		var elems []cty.Value
		for it := in["list"].ElementIterator(); it.Next(); {
			_, v := it.Element()
			elems = append(elems, v)
		}
		elems = append(elems, in["element"])
		return block.Outputs{"list": sequenceVal(elems)}, nil
	}

	blocks := []struct {
		spec *block.Spec
		fn   block.Func
	}{
		{lengthSpec, length},
		{getSpec, get},
		{appendSpec, appendFn},
	}
	for _, b := range blocks {
		if err := r.Register(b.spec, block.NewFactory(b.spec, b.fn)); err != nil {
			return err
		}
	}
	return nil
}

// sequenceVal builds a list when the elements share a type and falls back to
// a tuple otherwise. Both satisfy a list(any) port.
func sequenceVal(elems []cty.Value) cty.Value {
	homogeneous := true
	for _, e := range elems[1:] {
		if !e.Type().Equals(elems[0].Type()) {
			homogeneous = false
			break
		}
	}
	if homogeneous {
		return cty.ListVal(elems)
	}
	return cty.TupleVal(elems)
}
