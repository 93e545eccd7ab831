package listblocks

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

func run(t *testing.T, id string, in block.Inputs) (block.Outputs, error) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, New().Register(reg))
	reg.Seal()

	blk, err := reg.Resolve(id)
	require.NoError(t, err)
	ec := block.NewContext("run", "node0", nil)
	return blk.Execute(context.Background(), ec, in, nil)
}

func strList(ss ...string) cty.Value {
	vals := make([]cty.Value, len(ss))
	for i, s := range ss {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

func TestLength(t *testing.T) {
	outs, err := run(t, "list:length", block.Inputs{"list": strList("a", "b", "c")})
	require.NoError(t, err)
	assert.Equal(t, float64(3), value.Float(outs["count"]))
}

func TestLengthOfTuple(t *testing.T) {
	tuple := cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.NumberIntVal(1)})
	outs, err := run(t, "list:length", block.Inputs{"list": tuple})
	require.NoError(t, err)
	assert.Equal(t, float64(2), value.Float(outs["count"]))
}

func TestGet(t *testing.T) {
	outs, err := run(t, "list:get", block.Inputs{
		"list":  strList("a", "b", "c"),
		"index": cty.NumberIntVal(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "b", outs["element"].AsString())
}

func TestGetOutOfRange(t *testing.T) {
	for _, idx := range []int64{-1, 3} {
		_, err := run(t, "list:get", block.Inputs{
			"list":  strList("a", "b", "c"),
			"index": cty.NumberIntVal(idx),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	}
}

func TestAppend(t *testing.T) {
	outs, err := run(t, "list:append", block.Inputs{
		"list":    strList("a", "b"),
		"element": cty.StringVal("c"),
	})
	require.NoError(t, err)
	assert.True(t, value.Equal(strList("a", "b", "c"), outs["list"]))
}

func TestAppendMixedTypesYieldsTuple(t *testing.T) {
	outs, err := run(t, "list:append", block.Inputs{
		"list":    strList("a"),
		"element": cty.NumberIntVal(1),
	})
	require.NoError(t, err)
	assert.True(t, outs["list"].Type().IsTupleType())
	assert.Equal(t, 2, outs["list"].LengthInt())
}
