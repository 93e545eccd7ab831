// Package engineblocks provides the 3D engine blocks under the "engine" app.
// All of them are effectful; entity handles flow between them as reference
// values so downstream blocks can keep addressing what upstream created.
package engineblocks

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

// Module registers the engine blocks.
type Module struct{}

// New returns the engine provider.
func New() *Module { return &Module{} }

func engineFrom(ec *block.Context) (Engine, error) {
	a, err := ec.Adapter(App)
	if err != nil {
		return nil, err
	}
	eng, ok := a.(Engine)
	if !ok {
		return nil, fmt.Errorf("adapter %q does not implement the engine", App)
	}
	return eng, nil
}

// entityArg unwraps an entity reference input and checks it belongs to this
// app.
func entityArg(in block.Inputs, port string) (string, error) {
	ref, ok := value.AsRef(in[port])
	if !ok {
		return "", fmt.Errorf("input %q is not a reference", port)
	}
	if ref.App != App {
		return "", fmt.Errorf("input %q references app %q, want %q", port, ref.App, App)
	}
	return ref.ID, nil
}

// Register wires every engine block into the registry.
func (m *Module) Register(r *registry.Registry) error {
	spawnSpec := &block.Spec{
		ID:        "engine:spawn",
		Inputs:    []block.Port{{Name: "model", Type: cty.String, Required: true}},
		Outputs:   []block.Port{{Name: "entity", Type: value.Reference}},
		Effectful: true,
	}
	spawn := func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		eng, err := engineFrom(ec)
		if err != nil {
			return nil, err
		}
		id, err := eng.Spawn(ctx, in["model"].AsString())
		if err != nil {
			return nil, err
		}
		return block.Outputs{"entity": value.RefVal(value.Ref{App: App, ID: id})}, nil
	}

	translateSpec := &block.Spec{
		ID: "engine:translate",
		Inputs: []block.Port{
			{Name: "entity", Type: value.Reference, Required: true},
			{Name: "x", Type: cty.Number, Required: true},
			{Name: "y", Type: cty.Number, Required: true},
			{Name: "z", Type: cty.Number, Required: true},
		},
		Outputs:   []block.Port{{Name: "entity", Type: value.Reference}},
		Effectful: true,
	}
	translate := func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		eng, err := engineFrom(ec)
		if err != nil {
			return nil, err
		}
		id, err := entityArg(in, "entity")
		if err != nil {
			return nil, err
		}
		if err := eng.Translate(ctx, id, value.Float(in["x"]), value.Float(in["y"]), value.Float(in["z"])); err != nil {
			return nil, err
		}
		return block.Outputs{"entity": in["entity"]}, nil
	}

	rotateSpec := &block.Spec{
		ID: "engine:rotate",
		Inputs: []block.Port{
			{Name: "entity", Type: value.Reference, Required: true},
			{Name: "degrees", Type: cty.Number, Required: true},
		},
		Outputs:   []block.Port{{Name: "entity", Type: value.Reference}},
		Params:    map[string]cty.Value{"axis": cty.StringVal("y")},
		Effectful: true,
	}
	rotate := func(ctx context.Context, ec *block.Context, in block.Inputs, params block.Params) (block.Outputs, error) {
		eng, err := engineFrom(ec)
		if err != nil {
			return nil, err
		}
		id, err := entityArg(in, "entity")
		if err != nil {
			return nil, err
		}
		if err := eng.Rotate(ctx, id, params["axis"].AsString(), value.Float(in["degrees"])); err != nil {
			return nil, err
		}
		return block.Outputs{"entity": in["entity"]}, nil
	}

	blocks := []struct {
		spec *block.Spec
		fn   block.Func
	}{
		{spawnSpec, spawn},
		{translateSpec, translate},
		{rotateSpec, rotate},
	}
	for _, b := range blocks {
		if err := r.Register(b.spec, block.NewFactory(b.spec, b.fn)); err != nil {
			return err
		}
	}
	return nil
}
