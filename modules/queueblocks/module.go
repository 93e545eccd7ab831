// Package queueblocks provides the broker blocks under the "queue" app.
package queueblocks

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

// Module registers the queue blocks.
type Module struct{}

// New returns the queue provider.
func New() *Module { return &Module{} }

// Register wires the publish block into the registry.
func (m *Module) Register(r *registry.Registry) error {
	spec := &block.Spec{
		ID: "queue:publish",
		Inputs: []block.Port{
			{Name: "queue", Type: cty.String, Required: true},
			{Name: "body", Type: value.Any, Required: true},
		},
		Outputs:   []block.Port{{Name: "queue", Type: cty.String}},
		Effectful: true,
	}
	publish := func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		a, err := ec.Adapter(App)
		if err != nil {
			return nil, err
		}
		pub, ok := a.(Publisher)
		if !ok {
			return nil, fmt.Errorf("adapter %q does not implement the publisher", App)
		}

		body, err := messageBody(in["body"])
		if err != nil {
			return nil, err
		}
		queue := in["queue"].AsString()
		if err := pub.Publish(ctx, queue, body); err != nil {
			return nil, err
		}
		return block.Outputs{"queue": cty.StringVal(queue)}, nil
	}
	return r.Register(spec, block.NewFactory(spec, publish))
}

// messageBody serializes a body value into broker payload bytes.
func messageBody(v cty.Value) ([]byte, error) {
	if data, ok := value.AsBytes(v); ok {
		return data, nil
	}
	switch v.Type() {
	case cty.String:
		return []byte(v.AsString()), nil
	case cty.Number:
		return v.AsBigFloat().Append(nil, 'g', -1), nil
	case cty.Bool:
		if v.True() {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	default:
		return nil, fmt.Errorf("cannot publish a %s value", value.TypeName(v.Type()))
	}
}
