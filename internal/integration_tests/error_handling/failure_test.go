package error_handling_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/executor"
	"github.com/blockflow/blockflow/internal/testutil"
)

// A failing node poisons its downstream chain but leaves independent work
// untouched.
func TestFailurePropagatesToDependentsOnly(t *testing.T) {
	h := testutil.NewHarness(t)

	res := h.RunScript(t, `a = test:emit(1)
b = test:fail(a)
c = test:sink(b)
d = test:emit(7)`)
	assert.False(t, res.OK)

	status := func(id string) executor.Status {
		st, ok := res.Status(id)
		require.True(t, ok, id)
		return st
	}
	assert.Equal(t, executor.Succeeded, status("node0"))
	assert.Equal(t, executor.Failed, status("node1"))
	assert.Equal(t, executor.Skipped, status("node2"))
	assert.Equal(t, executor.Succeeded, status("node3"))

	var execErr *block.ExecError
	require.ErrorAs(t, res.Nodes["node1"].Err, &execErr)
	assert.Contains(t, execErr.Error(), testutil.ErrIntentional)

	var upErr *executor.UpstreamError
	require.ErrorAs(t, res.Nodes["node2"].Err, &upErr)
	assert.Equal(t, "node1", upErr.Upstream)
}

// Skipped effectful nodes must never reach their block, so no side effect
// can fire.
func TestSkippedEffectfulNodeNeverExecutes(t *testing.T) {
	h := testutil.NewHarness(t)

	res := h.RunScript(t, `a = test:fail(1)
b = test:span(1, a)
test:sink(b)`)
	assert.False(t, res.OK)

	st, ok := res.Status("node1")
	require.True(t, ok)
	assert.Equal(t, executor.Skipped, st)
	assert.Zero(t, h.Recorder.Calls("node1"), "skipped block must not run")
}

func TestSkipCascadesDownChains(t *testing.T) {
	h := testutil.NewHarness(t)

	res := h.RunScript(t, `a = test:fail(1)
b = test:emit(a)
c = test:emit(b)
test:sink(c)`)
	assert.False(t, res.OK)

	for _, id := range []string{"node1", "node2", "node3"} {
		st, ok := res.Status(id)
		require.True(t, ok, id)
		assert.Equal(t, executor.Skipped, st, id)
	}
}

// Cancellation stops new stages from starting; everything not yet terminal
// settles as skipped and the run reports the cancellation.
func TestCancellationSkipsRemainingStages(t *testing.T) {
	h := testutil.NewHarness(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	g := h.BuildScript(t, `a = test:sleep(200)
test:sink(a)`)
	res, err := h.Execute(ctx, t, g)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, res)
	assert.False(t, res.OK)

	st, ok := res.Status("node1")
	require.True(t, ok)
	assert.Equal(t, executor.Skipped, st)
}
