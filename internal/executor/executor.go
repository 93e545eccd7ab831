// Package executor runs a scheduled graph: stages strictly in sequence,
// nodes within a stage concurrently on a bounded worker pool.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blockflow/blockflow/internal/ctxlog"
	"github.com/blockflow/blockflow/internal/graph"
	"github.com/blockflow/blockflow/internal/metrics"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/scheduler"
	"github.com/blockflow/blockflow/internal/valstore"
)

// DefaultWorkers bounds intra-stage concurrency when Options.Workers is not
// set.
const DefaultWorkers = 10

// Options tunes one executor instance.
type Options struct {
	// Workers caps how many nodes of a stage run at once.
	Workers int
	// Adapters maps app names to the opaque capability handles effectful
	// blocks may request through their execution context.
	Adapters map[string]any
	// Metrics receives execution observations; nil disables recording.
	Metrics *metrics.Metrics
}

// Executor orchestrates executions of a sealed graph against its plan. It is
// itself stateless between runs; every Run gets a fresh value store and a
// fresh result.
type Executor struct {
	graph *graph.Graph
	plan  *scheduler.Plan
	reg   *registry.Registry
	opts  Options
}

// New creates an executor for the given sealed graph and plan.
func New(g *graph.Graph, p *scheduler.Plan, reg *registry.Registry, opts Options) *Executor {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Executor{graph: g, plan: p, reg: reg, opts: opts}
}

// run is the per-execution state: one value store, one result table.
type run struct {
	exec  *Executor
	runID string
	store *valstore.Store

	mu      sync.Mutex
	results map[string]*NodeResult
}

// Run executes the plan stage by stage. Stage k+1 does not begin until
// every node of stage k has reached a terminal state. Execution failures
// are node-local and land in the Result; the returned error is non-nil only
// when the context was cancelled before the run could complete.
func (e *Executor) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("runID", runID)

	r := &run{
		exec:    e,
		runID:   runID,
		store:   valstore.New(),
		results: make(map[string]*NodeResult, e.graph.Len()),
	}
	for _, id := range e.graph.NodeIDs() {
		r.results[id] = &NodeResult{Status: Pending}
	}

	stages := e.plan.Stages()
	logger.Debug("Execution starting.", "stages", len(stages), "nodes", e.graph.Len())

	cancelled := false
	for si, stage := range stages {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		stageStart := time.Now()
		r.runStage(ctx, si, stage)
		e.opts.Metrics.ObserveStage(time.Since(stageStart))
		e.opts.Metrics.SetLiveValues(r.store.Live())
	}
	if cancelled || ctx.Err() != nil {
		r.skipRemaining(ctx.Err())
	}

	res := r.collect(started)
	e.opts.Metrics.ObserveRun(res.OK)
	logger.Debug("Execution finished.", "ok", res.OK, "duration", res.Duration)

	if cancelled {
		return res, ctx.Err()
	}
	return res, nil
}

// skipRemaining marks every non-terminal node Skipped. Called after
// cancellation so the result still covers the whole graph.
func (r *run) skipRemaining(cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, nr := range r.results {
		if !nr.Status.Terminal() {
			nr.Status = Skipped
			nr.Err = cause
			r.exec.opts.Metrics.ObserveNode(Skipped.String())
		}
	}
}

// collect assembles the final Result and attaches retained sink values to
// their producing nodes.
func (r *run) collect(started time.Time) *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	ok := true
	for _, nr := range r.results {
		if nr.Status != Succeeded {
			ok = false
			break
		}
	}
	for node, ports := range r.store.Sinks() {
		nr := r.results[node]
		if nr == nil || nr.Status != Succeeded {
			continue
		}
		nr.Outputs = ports
	}
	return &Result{
		RunID:          r.runID,
		OK:             ok,
		Nodes:          r.results,
		Duration:       time.Since(started),
		PeakLiveValues: r.store.Peak(),
	}
}

func (r *run) setStatus(id string, s Status, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	nr := r.results[id]
	if nr.Status.Terminal() {
		return
	}
	nr.Status = s
	if err != nil {
		nr.Err = err
	}
	if s.Terminal() {
		r.exec.opts.Metrics.ObserveNode(s.String())
	}
}

func (r *run) status(id string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[id].Status
}
