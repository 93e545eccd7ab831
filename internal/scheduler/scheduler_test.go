package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource lets tests describe arbitrary dependency shapes, including
// cyclic ones a sealed graph could never contain.
type fakeSource struct {
	order []string
	deps  map[string][]string
}

func (f *fakeSource) NodeIDs() []string { return f.order }

func (f *fakeSource) Dependencies(id string) []string { return f.deps[id] }

func TestLinearChainOneNodePerStage(t *testing.T) {
	src := &fakeSource{
		order: []string{"a", "b", "c", "d"},
		deps: map[string][]string{
			"b": {"a"},
			"c": {"b"},
			"d": {"c"},
		},
	}
	p, err := Build(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}, {"d"}}, p.Stages())
}

func TestIndependentChainsShareStages(t *testing.T) {
	src := &fakeSource{
		order: []string{"x1", "x2", "y1", "y2"},
		deps: map[string][]string{
			"x2": {"x1"},
			"y2": {"y1"},
		},
	}
	p, err := Build(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x1", "y1"}, {"x2", "y2"}}, p.Stages())
}

func TestLongestPathLayering(t *testing.T) {
	// d depends on both a (stage 0) and c (stage 2); it must land after its
	// deepest dependency, not its shallowest.
	src := &fakeSource{
		order: []string{"a", "b", "c", "d"},
		deps: map[string][]string{
			"b": {"a"},
			"c": {"b"},
			"d": {"a", "c"},
		},
	}
	p, err := Build(src)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}, {"d"}}, p.Stages())
}

func TestEveryNodePlacedAfterDependencies(t *testing.T) {
	src := &fakeSource{
		order: []string{"f", "e", "d", "c", "b", "a"},
		deps: map[string][]string{
			"c": {"a", "b"},
			"d": {"c"},
			"e": {"c", "a"},
			"f": {"d", "e"},
		},
	}
	p, err := Build(src)
	require.NoError(t, err)
	for _, id := range src.order {
		stage, ok := p.StageOf(id)
		require.True(t, ok, id)
		for _, dep := range src.deps[id] {
			depStage, ok := p.StageOf(dep)
			require.True(t, ok, dep)
			assert.Greater(t, stage, depStage, "%s must be after %s", id, dep)
		}
	}
}

func TestDeterministicReplanning(t *testing.T) {
	src := &fakeSource{
		order: []string{"m", "z", "a", "k"},
		deps: map[string][]string{
			"k": {"m", "z"},
		},
	}
	first, err := Build(src)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Build(src)
		require.NoError(t, err)
		assert.Equal(t, first.Stages(), again.Stages())
	}
	assert.Equal(t, [][]string{{"a", "m", "z"}, {"k"}}, first.Stages())
}

func TestCycleReported(t *testing.T) {
	src := &fakeSource{
		order: []string{"a", "b", "c", "d"},
		deps: map[string][]string{
			"b": {"a", "d"},
			"c": {"b"},
			"d": {"c"},
		},
	}
	_, err := Build(src)
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Contains(t, []string{"b", "c", "d"}, cycle.Node)
}

func TestEmptyGraph(t *testing.T) {
	p, err := Build(&fakeSource{})
	require.NoError(t, err)
	assert.Empty(t, p.Stages())
	assert.Equal(t, 0, p.NumStages())
}
