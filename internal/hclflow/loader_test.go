package hclflow

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

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	noop := func(context.Context, *block.Context, block.Inputs, block.Params) (block.Outputs, error) {
		return block.Outputs{}, nil
	}
	specs := []*block.Spec{
		{
			ID: "math:add",
			Inputs: []block.Port{
				{Name: "a", Type: cty.Number, Required: true},
				{Name: "b", Type: cty.Number, Required: true},
			},
			Outputs: []block.Port{{Name: "sum", Type: cty.Number}},
		},
		{
			ID: "math:multiply",
			Inputs: []block.Port{
				{Name: "a", Type: cty.Number, Required: true},
				{Name: "b", Type: cty.Number, Required: true},
			},
			Outputs: []block.Port{{Name: "product", Type: cty.Number}},
			Params:  map[string]cty.Value{"round": cty.False},
		},
	}
	for _, spec := range specs {
		reg.MustRegister(spec, block.NewFactory(spec, noop))
	}
	reg.Seal()
	return reg
}

func load(t *testing.T, src string) error {
	t.Helper()
	l := NewLoader(testRegistry(t))
	_, err := l.Load(context.Background(), "flow.hcl", []byte(src))
	return err
}

func TestLoadBindsLiteralsAndEdges(t *testing.T) {
	l := NewLoader(testRegistry(t))
	g, err := l.Load(context.Background(), "flow.hcl", []byte(`
node "adder" {
  block = "math:add"
  input "a" { value = 2 }
  input "b" { value = 3 }
}

node "doubler" {
  block = "math:multiply"
  input "a" { from = node.adder.sum }
  input "b" { value = 4 }
}
`))
	require.NoError(t, err)

	require.Equal(t, []string{"adder", "doubler"}, g.NodeIDs())

	adder, ok := g.Node("adder")
	require.True(t, ok)
	assert.True(t, value.Equal(cty.NumberIntVal(2), adder.Literals["a"]))

	edges := g.In("doubler")
	require.Len(t, edges, 1)
	assert.Equal(t, "adder", edges[0].FromNode)
	assert.Equal(t, "sum", edges[0].FromPort)
	assert.Equal(t, "a", edges[0].ToPort)
}

func TestLoadForwardReference(t *testing.T) {
	l := NewLoader(testRegistry(t))
	g, err := l.Load(context.Background(), "flow.hcl", []byte(`
node "doubler" {
  block = "math:multiply"
  input "a" { from = node.adder.sum }
  input "b" { value = 4 }
}

node "adder" {
  block = "math:add"
  input "a" { value = 2 }
  input "b" { value = 3 }
}
`))
	require.NoError(t, err)
	require.Len(t, g.In("doubler"), 1)
}

func TestLoadParams(t *testing.T) {
	l := NewLoader(testRegistry(t))
	g, err := l.Load(context.Background(), "flow.hcl", []byte(`
node "doubler" {
  block = "math:multiply"
  input "a" { value = 1 }
  input "b" { value = 2 }
  param "round" { value = true }
}
`))
	require.NoError(t, err)
	n, ok := g.Node("doubler")
	require.True(t, ok)
	assert.True(t, value.Equal(cty.True, n.Params["round"]))
}

func TestLoadRejectsValueAndFromTogether(t *testing.T) {
	err := load(t, `
node "adder" {
  block = "math:add"
  input "a" {
    value = 2
    from  = node.adder.sum
  }
  input "b" { value = 3 }
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `exactly one of "value" and "from"`)
}

func TestLoadRejectsEmptyInput(t *testing.T) {
	err := load(t, `
node "adder" {
  block = "math:add"
  input "a" {}
  input "b" { value = 3 }
}
`)
	require.Error(t, err)
}

func TestLoadRejectsBadFromExpression(t *testing.T) {
	err := load(t, `
node "adder" {
  block = "math:add"
  input "a" { from = something.else }
  input "b" { value = 3 }
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node.<id>.<port>")
}

func TestLoadUnknownBlock(t *testing.T) {
	err := load(t, `
node "x" {
  block = "math:subtract"
}
`)
	var uerr *registry.UnknownBlockError
	require.ErrorAs(t, err, &uerr)
}

func TestLoadDuplicateNodeLabel(t *testing.T) {
	err := load(t, `
node "x" {
  block = "math:add"
  input "a" { value = 1 }
  input "b" { value = 2 }
}

node "x" {
  block = "math:add"
  input "a" { value = 1 }
  input "b" { value = 2 }
}
`)
	require.Error(t, err)
}

func TestLoadSyntaxErrorSurfacesDiagnostics(t *testing.T) {
	err := load(t, `node "x" {`)
	require.Error(t, err)
}
