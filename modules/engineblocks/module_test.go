package engineblocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

func run(t *testing.T, eng Engine, id string, in block.Inputs, params block.Params) (block.Outputs, error) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, New().Register(reg))
	reg.Seal()

	blk, err := reg.Resolve(id)
	require.NoError(t, err)
	if params == nil {
		spec, _ := reg.Spec(id)
		params = block.Params{}
		for name, def := range spec.Params {
			params[name] = def
		}
	}
	ec := block.NewContext("run", "node0", map[string]any{App: eng})
	return blk.Execute(context.Background(), ec, in, params)
}

func TestSpawnReturnsReference(t *testing.T) {
	eng := NewRecordingEngine()
	outs, err := run(t, eng, "engine:spawn", block.Inputs{"model": cty.StringVal("crate")}, nil)
	require.NoError(t, err)

	ref, ok := value.AsRef(outs["entity"])
	require.True(t, ok)
	assert.Equal(t, App, ref.App)
	assert.Equal(t, "entity0", ref.ID)

	cmds := eng.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "spawn", cmds[0].Op)
	assert.Equal(t, "crate", cmds[0].Model)
}

func TestTranslatePassesEntityThrough(t *testing.T) {
	eng := NewRecordingEngine()
	entity := value.RefVal(value.Ref{App: App, ID: "entity0"})

	outs, err := run(t, eng, "engine:translate", block.Inputs{
		"entity": entity,
		"x":      cty.NumberFloatVal(1),
		"y":      cty.NumberFloatVal(2),
		"z":      cty.NumberFloatVal(3),
	}, nil)
	require.NoError(t, err)
	assert.True(t, value.Equal(entity, outs["entity"]))

	cmds := eng.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "translate", cmds[0].Op)
	assert.Equal(t, "entity0", cmds[0].EntityID)
	assert.Equal(t, float64(3), cmds[0].Z)
}

func TestRotateUsesAxisParam(t *testing.T) {
	eng := NewRecordingEngine()
	entity := value.RefVal(value.Ref{App: App, ID: "entity0"})

	_, err := run(t, eng, "engine:rotate", block.Inputs{
		"entity":  entity,
		"degrees": cty.NumberFloatVal(90),
	}, block.Params{"axis": cty.StringVal("z")})
	require.NoError(t, err)

	cmds := eng.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "rotate", cmds[0].Op)
	assert.Equal(t, "z", cmds[0].Axis)
	assert.Equal(t, float64(90), cmds[0].Degrees)
}

func TestRejectsForeignReference(t *testing.T) {
	eng := NewRecordingEngine()
	foreign := value.RefVal(value.Ref{App: "media", ID: "job0"})

	_, err := run(t, eng, "engine:rotate", block.Inputs{
		"entity":  foreign,
		"degrees": cty.NumberFloatVal(90),
	}, block.Params{"axis": cty.StringVal("y")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "references app")
}

func TestSequentialSpawnsGetDistinctIDs(t *testing.T) {
	eng := NewRecordingEngine()
	ctx := context.Background()

	a, err := eng.Spawn(ctx, "crate")
	require.NoError(t, err)
	b, err := eng.Spawn(ctx, "barrel")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
