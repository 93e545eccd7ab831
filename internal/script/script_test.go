package script

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
		},
		{
			ID:      "string:upper",
			Inputs:  []block.Port{{Name: "text", Type: cty.String, Required: true}},
			Outputs: []block.Port{{Name: "result", Type: cty.String}},
		},
		{
			ID:     "test:sink",
			Inputs: []block.Port{{Name: "value", Type: value.Any, Required: true}},
		},
	}
	for _, spec := range specs {
		reg.MustRegister(spec, block.NewFactory(spec, noop))
	}
	reg.Seal()
	return reg
}

func TestParseStatements(t *testing.T) {
	src := `
// produces five
x = math:add(2, 3)
math:multiply(x, 4) // double comment
string:upper("hello // not a comment")
`
	stmts, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	assert.Equal(t, "x", stmts[0].Label)
	assert.Equal(t, "math:add", stmts[0].Block)
	assert.Equal(t, 3, stmts[0].Line)
	require.Len(t, stmts[0].Args, 2)
	assert.True(t, value.Equal(cty.NumberFloatVal(2), stmts[0].Args[0].Literal))

	assert.Equal(t, "", stmts[1].Label)
	require.Len(t, stmts[1].Args, 2)
	assert.Equal(t, "x", stmts[1].Args[0].Ref)
	assert.True(t, value.Equal(cty.NumberFloatVal(4), stmts[1].Args[1].Literal))

	require.Len(t, stmts[2].Args, 1)
	assert.True(t, value.Equal(cty.StringVal("hello // not a comment"), stmts[2].Args[0].Literal))
}

func TestParseLiteralKinds(t *testing.T) {
	stmts, err := Parse(`test:sink(true)
test:sink(false)
test:sink(-2.5)
test:sink("a \"quoted\" word")`)
	require.NoError(t, err)
	require.Len(t, stmts, 4)
	assert.True(t, value.Equal(cty.True, stmts[0].Args[0].Literal))
	assert.True(t, value.Equal(cty.False, stmts[1].Args[0].Literal))
	assert.True(t, value.Equal(cty.NumberFloatVal(-2.5), stmts[2].Args[0].Literal))
	assert.True(t, value.Equal(cty.StringVal(`a "quoted" word`), stmts[3].Args[0].Literal))
}

func TestParseErrorsCarryLineNumbers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"no call", "math:add", 1},
		{"missing close paren", "math:add(1, 2", 1},
		{"bad block id", "mathadd(1, 2)", 1},
		{"bad label", "2x = math:add(1, 2)", 1},
		{"unterminated string", `string:upper("oops)`, 1},
		{"empty argument", "math:add(1, )", 1},
		{"later line", "math:add(1, 2)\nmath:add(1,", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestComposeBindsPositionally(t *testing.T) {
	reg := testRegistry(t)
	g, err := Load(reg, `x = math:add(2, 3)
math:multiply(x, 4)`)
	require.NoError(t, err)

	require.Equal(t, []string{"node0", "node1"}, g.NodeIDs())

	n0, ok := g.Node("node0")
	require.True(t, ok)
	assert.True(t, value.Equal(cty.NumberFloatVal(2), n0.Literals["a"]))
	assert.True(t, value.Equal(cty.NumberFloatVal(3), n0.Literals["b"]))

	n1, ok := g.Node("node1")
	require.True(t, ok)
	assert.True(t, value.Equal(cty.NumberFloatVal(4), n1.Literals["b"]))

	edges := g.In("node1")
	require.Len(t, edges, 1)
	assert.Equal(t, "node0", edges[0].FromNode)
	assert.Equal(t, "sum", edges[0].FromPort)
	assert.Equal(t, "a", edges[0].ToPort)
}

func TestComposeIndexReferences(t *testing.T) {
	reg := testRegistry(t)
	g, err := Load(reg, `math:add(1, 1)
math:multiply($0, $0)`)
	require.NoError(t, err)

	edges := g.In("node1")
	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.Equal(t, "node0", e.FromNode)
		assert.Equal(t, "sum", e.FromPort)
	}
}

func TestComposeUnknownReference(t *testing.T) {
	reg := testRegistry(t)
	tests := []struct {
		name string
		src  string
	}{
		{"undefined label", "math:add(y, 1)"},
		{"index out of range", "math:add($3, 1)"},
		{"forward label", "math:add(later, 1)\nlater = math:add(1, 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(reg, tt.src)
			var rerr *UnknownReferenceError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, 1, rerr.Line)
		})
	}
}

func TestComposeArity(t *testing.T) {
	reg := testRegistry(t)
	_, err := Load(reg, "math:add(1, 2, 3)")
	var aerr *ArityError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, 2, aerr.Want)
	assert.Equal(t, 3, aerr.Got)
}

func TestComposeUnknownBlock(t *testing.T) {
	reg := testRegistry(t)
	_, err := Load(reg, "math:subtract(1, 2)")
	var uerr *registry.UnknownBlockError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "math:subtract", uerr.ID)
}

func TestComposeTypeMismatchSurfacesAtSeal(t *testing.T) {
	reg := testRegistry(t)
	_, err := Load(reg, `x = math:add(1, 2)
string:upper(x)`)
	require.Error(t, err)
}
