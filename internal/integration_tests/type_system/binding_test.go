package type_system_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockflow/blockflow/internal/graph"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/script"
	"github.com/blockflow/blockflow/internal/testutil"
	"github.com/blockflow/blockflow/modules/mathblocks"
	"github.com/blockflow/blockflow/modules/stringblocks"
)

func fullRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, mathblocks.New().Register(reg))
	require.NoError(t, stringblocks.New().Register(reg))
	reg.Seal()
	return reg
}

// A string output wired into a number port is rejected when the graph is
// sealed, before anything runs.
func TestIncompatibleEdgeRejectedAtSeal(t *testing.T) {
	reg := fullRegistry(t)
	_, err := script.Load(reg, `s = string:upper("shout")
math:add(s, 1)`)
	var terr *graph.TypeMismatchError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "node1", terr.Node)
	assert.Equal(t, "a", terr.Port)
}

func TestIncompatibleLiteralRejectedAtSeal(t *testing.T) {
	reg := fullRegistry(t)
	_, err := script.Load(reg, `math:add("two", 3)`)
	var terr *graph.TypeMismatchError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "node0", terr.Node)
}

// Dynamic ports accept every value kind.
func TestAnyPortAcceptsEverything(t *testing.T) {
	h := testutil.NewHarness(t)
	for _, src := range []string{
		`test:emit(1)`,
		`test:emit("text")`,
		`test:emit(true)`,
	} {
		res := h.RunScript(t, src)
		require.True(t, res.OK, src)
	}
}

// A number flowing through a dynamic port still lands in a typed port
// downstream.
func TestDynamicToTypedBinding(t *testing.T) {
	h := testutil.NewHarness(t)
	res := h.RunScript(t, `e = test:emit(5)
test:double(e)`)
	require.True(t, res.OK)
}
