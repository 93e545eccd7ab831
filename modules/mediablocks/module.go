// Package mediablocks provides the media blocks under the "media" app. Both
// are effectful; payloads travel as byte values and submitted jobs come back
// as reference values.
package mediablocks

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

// Module registers the media blocks.
type Module struct{}

// New returns the media provider.
func New() *Module { return &Module{} }

func transcoderFrom(ec *block.Context) (Transcoder, error) {
	a, err := ec.Adapter(App)
	if err != nil {
		return nil, err
	}
	tc, ok := a.(Transcoder)
	if !ok {
		return nil, fmt.Errorf("adapter %q does not implement the transcoder", App)
	}
	return tc, nil
}

func payload(in block.Inputs) ([]byte, error) {
	data, ok := value.AsBytes(in["data"])
	if !ok {
		return nil, fmt.Errorf("input \"data\" is not a byte value")
	}
	return data, nil
}

// Register wires both media blocks into the registry.
func (m *Module) Register(r *registry.Registry) error {
	probeSpec := &block.Spec{
		ID:     "media:probe",
		Inputs: []block.Port{{Name: "data", Type: value.Bytes, Required: true}},
		Outputs: []block.Port{
			{Name: "format", Type: cty.String},
			{Name: "size", Type: cty.Number},
		},
		Effectful: true,
	}
	probe := func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		tc, err := transcoderFrom(ec)
		if err != nil {
			return nil, err
		}
		data, err := payload(in)
		if err != nil {
			return nil, err
		}
		info, err := tc.Probe(ctx, data)
		if err != nil {
			return nil, err
		}
		return block.Outputs{
			"format": cty.StringVal(info.Format),
			"size":   cty.NumberIntVal(int64(info.SizeBytes)),
		}, nil
	}

	transcodeSpec := &block.Spec{
		ID: "media:transcode",
		Inputs: []block.Port{
			{Name: "data", Type: value.Bytes, Required: true},
			{Name: "format", Type: cty.String, Required: true},
		},
		Outputs:   []block.Port{{Name: "job", Type: value.Reference}},
		Effectful: true,
	}
	transcode := func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
		tc, err := transcoderFrom(ec)
		if err != nil {
			return nil, err
		}
		data, err := payload(in)
		if err != nil {
			return nil, err
		}
		job, err := tc.Transcode(ctx, data, in["format"].AsString())
		if err != nil {
			return nil, err
		}
		return block.Outputs{"job": value.RefVal(value.Ref{App: App, ID: job.ID})}, nil
	}

	blocks := []struct {
		spec *block.Spec
		fn   block.Func
	}{
		{probeSpec, probe},
		{transcodeSpec, transcode},
	}
	for _, b := range blocks {
		if err := r.Register(b.spec, block.NewFactory(b.spec, b.fn)); err != nil {
			return err
		}
	}
	return nil
}
