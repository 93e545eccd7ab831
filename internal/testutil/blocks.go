package testutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

// ErrIntentional is the message the fail block reports.
const ErrIntentional = "intentional failure"

// RegisterTestBlocks registers the synthetic blocks integration tests are
// built from under the "test" app.
func RegisterTestBlocks(reg *registry.Registry) {
	emitSpec := &block.Spec{
		ID:      "test:emit",
		Inputs:  []block.Port{{Name: "value", Type: value.Any, Required: true}},
		Outputs: []block.Port{{Name: "value", Type: value.Any}},
	}
	reg.MustRegister(emitSpec, block.NewFactory(emitSpec,
		func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
			return block.Outputs{"value": in["value"]}, nil
		}))

	doubleSpec := &block.Spec{
		ID:      "test:double",
		Inputs:  []block.Port{{Name: "x", Type: cty.Number, Required: true}},
		Outputs: []block.Port{{Name: "x", Type: cty.Number}},
	}
	reg.MustRegister(doubleSpec, block.NewFactory(doubleSpec,
		func(_ context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
			return block.Outputs{"x": cty.NumberFloatVal(2 * value.Float(in["x"]))}, nil
		}))

	// fail declares an output it never produces; execution always errors
	// before publishing.
	failSpec := &block.Spec{
		ID:      "test:fail",
		Inputs:  []block.Port{{Name: "value", Type: value.Any}},
		Outputs: []block.Port{{Name: "value", Type: value.Any}},
	}
	reg.MustRegister(failSpec, block.NewFactory(failSpec,
		func(_ context.Context, _ *block.Context, _ block.Inputs, _ block.Params) (block.Outputs, error) {
			return nil, errors.New(ErrIntentional)
		}))

	sinkSpec := &block.Spec{
		ID:     "test:sink",
		Inputs: []block.Port{{Name: "value", Type: value.Any, Required: true}},
	}
	reg.MustRegister(sinkSpec, block.NewFactory(sinkSpec,
		func(_ context.Context, _ *block.Context, _ block.Inputs, _ block.Params) (block.Outputs, error) {
			return block.Outputs{}, nil
		}))

	sleepSpec := &block.Spec{
		ID:      "test:sleep",
		Inputs:  []block.Port{{Name: "ms", Type: cty.Number, Required: true}},
		Outputs: []block.Port{{Name: "done", Type: cty.Bool}},
	}
	reg.MustRegister(sleepSpec, block.NewFactory(sleepSpec,
		func(ctx context.Context, _ *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
			select {
			case <-time.After(time.Duration(value.Float(in["ms"])) * time.Millisecond):
				return block.Outputs{"done": cty.True}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}))

	// span reports its execution window to the recorder adapter, so tests
	// can assert what ran concurrently and what never ran at all.
	spanSpec := &block.Spec{
		ID: "test:span",
		Inputs: []block.Port{
			{Name: "ms", Type: cty.Number, Required: true},
			{Name: "value", Type: value.Any},
		},
		Outputs:   []block.Port{{Name: "value", Type: value.Any}},
		Effectful: true,
	}
	reg.MustRegister(spanSpec, block.NewFactory(spanSpec,
		func(ctx context.Context, ec *block.Context, in block.Inputs, _ block.Params) (block.Outputs, error) {
			a, err := ec.Adapter(RecorderApp)
			if err != nil {
				return nil, err
			}
			rec, ok := a.(*Recorder)
			if !ok {
				return nil, fmt.Errorf("adapter %q is not a recorder", RecorderApp)
			}

			start := time.Now()
			select {
			case <-time.After(time.Duration(value.Float(in["ms"])) * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			rec.Record(ec.NodeID(), start, time.Now())

			out, ok := in["value"]
			if !ok {
				out = cty.True
			}
			return block.Outputs{"value": out}, nil
		}))
}
