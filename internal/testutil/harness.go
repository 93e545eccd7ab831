// Package testutil provides the shared harness for integration tests:
// synthetic blocks, an execution recorder, and helpers that run a flow from
// source to settled result.
package testutil

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockflow/blockflow/internal/executor"
	"github.com/blockflow/blockflow/internal/graph"
	"github.com/blockflow/blockflow/internal/metrics"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/scheduler"
	"github.com/blockflow/blockflow/internal/script"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Harness bundles the pieces one integration test run needs.
type Harness struct {
	Registry *registry.Registry
	Recorder *Recorder
	Workers  int
	Metrics  *metrics.Metrics
}

// NewHarness creates a sealed registry with the synthetic test blocks and a
// fresh recorder.
func NewHarness(t *testing.T) *Harness {
	t.Helper()
	reg := registry.New()
	RegisterTestBlocks(reg)
	reg.Seal()
	return &Harness{
		Registry: reg,
		Recorder: NewRecorder(),
	}
}

// BuildScript parses and composes script source into a sealed graph.
func (h *Harness) BuildScript(t *testing.T, src string) *graph.Graph {
	t.Helper()
	g, err := script.Load(h.Registry, src)
	require.NoError(t, err)
	return g
}

// Plan schedules a sealed graph.
func (h *Harness) Plan(t *testing.T, g *graph.Graph) *scheduler.Plan {
	t.Helper()
	plan, err := scheduler.Build(g)
	require.NoError(t, err)
	return plan
}

// Execute runs a sealed graph to a settled result.
func (h *Harness) Execute(ctx context.Context, t *testing.T, g *graph.Graph) (*executor.Result, error) {
	t.Helper()
	plan := h.Plan(t, g)
	exec := executor.New(g, plan, h.Registry, executor.Options{
		Workers:  h.Workers,
		Adapters: map[string]any{RecorderApp: h.Recorder},
		Metrics:  h.Metrics,
	})
	return exec.Run(ctx)
}

// RunScript is the common fast path: script source to settled result,
// requiring that the run itself was not cancelled.
func (h *Harness) RunScript(t *testing.T, src string) *executor.Result {
	t.Helper()
	g := h.BuildScript(t, src)
	res, err := h.Execute(context.Background(), t, g)
	require.NoError(t, err)
	return res
}
