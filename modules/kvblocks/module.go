// Package kvblocks provides the key-value blocks under the "kv" app. All of
// them are effectful and reach their Store through the execution context.
package kvblocks

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
)

// Module registers the kv blocks.
type Module struct{}

// New returns the kv provider.
func New() *Module { return &Module{} }

// storeFrom resolves the kv adapter from the execution context.
func storeFrom(ec *block.Context) (Store, error) {
	a, err := ec.Adapter(App)
	if err != nil {
		return nil, err
	}
	store, ok := a.(Store)
	if !ok {
		return nil, fmt.Errorf("adapter %q does not implement the kv store", App)
	}
	return store, nil
}

// Register wires every kv block into the registry.
func (m *Module) Register(r *registry.Registry) error {
	setSpec := &block.Spec{
		ID: "kv:set",
		Inputs: []block.Port{
			{Name: "key", Type: cty.String, Required: true},
			{Name: "value", Type: cty.String, Required: true},
		},
		Outputs:   []block.Port{{Name: "key", Type: cty.String}},
		Effectful: true,
	}
	set := func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		store, err := storeFrom(ec)
		if err != nil {
			return nil, err
		}
		key := in["key"].AsString()
		if err := store.Set(ctx, key, in["value"].AsString()); err != nil {
			return nil, err
		}
		return block.Outputs{"key": cty.StringVal(key)}, nil
	}

	getSpec := &block.Spec{
		ID:     "kv:get",
		Inputs: []block.Port{{Name: "key", Type: cty.String, Required: true}},
		Outputs: []block.Port{
			{Name: "value", Type: cty.String},
			{Name: "found", Type: cty.Bool},
		},
		Effectful: true,
	}
	get := func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		store, err := storeFrom(ec)
		if err != nil {
			return nil, err
		}
		v, found, err := store.Get(ctx, in["key"].AsString())
		if err != nil {
			return nil, err
		}
		return block.Outputs{
			"value": cty.StringVal(v),
			"found": cty.BoolVal(found),
		}, nil
	}

	deleteSpec := &block.Spec{
		ID:        "kv:delete",
		Inputs:    []block.Port{{Name: "key", Type: cty.String, Required: true}},
		Outputs:   []block.Port{{Name: "key", Type: cty.String}},
		Effectful: true,
	}
	del := func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		store, err := storeFrom(ec)
		if err != nil {
			return nil, err
		}
		key := in["key"].AsString()
		if err := store.Delete(ctx, key); err != nil {
			return nil, err
		}
		return block.Outputs{"key": cty.StringVal(key)}, nil
	}

	blocks := []struct {
		spec *block.Spec
		fn   block.Func
	}{
		{setSpec, set},
		{getSpec, get},
		{deleteSpec, del},
	}
	for _, b := range blocks {
		if err := r.Register(b.spec, block.NewFactory(b.spec, b.fn)); err != nil {
			return err
		}
	}
	return nil
}
