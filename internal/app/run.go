package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blockflow/blockflow/internal/ctxlog"
	"github.com/blockflow/blockflow/internal/executor"
	"github.com/blockflow/blockflow/internal/graph"
	"github.com/blockflow/blockflow/internal/hclflow"
	"github.com/blockflow/blockflow/internal/scheduler"
	"github.com/blockflow/blockflow/internal/script"
)

// Run loads the configured flow, schedules it and executes it. Node-level
// failures surface through the returned error after the whole run has
// settled; they never abort sibling nodes mid-stage.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.MetricsPort > 0 {
		a.startMetricsServer(a.config.MetricsPort)
	}

	g, err := a.loadFlow(ctx)
	if err != nil {
		return fmt.Errorf("failed to load flow: %w", err)
	}
	a.logger.Debug("Flow graph built and validated.", "nodes", g.Len())

	if g.Len() == 0 {
		a.logger.Warn("Flow contains no nodes, nothing to execute.")
		return nil
	}

	plan, err := scheduler.Build(g)
	if err != nil {
		return fmt.Errorf("failed to schedule flow: %w", err)
	}
	a.logger.Debug("Execution plan ready.", "stages", plan.NumStages())

	a.logger.Info("Starting execution.", "nodes", g.Len(), "stages", plan.NumStages(), "workers", a.config.Workers)
	exec := executor.New(g, plan, a.registry, executor.Options{
		Workers:  a.config.Workers,
		Adapters: a.adapters,
		Metrics:  a.metrics,
	})
	res, err := exec.Run(ctx)
	if err != nil {
		return fmt.Errorf("execution aborted: %w", err)
	}
	a.summarize(res)

	if !res.OK {
		return fmt.Errorf("run %s finished with failures", res.RunID)
	}
	a.logger.Info("Execution finished.", "runID", res.RunID, "duration", res.Duration)
	return nil
}

// loadFlow picks the front-end by file extension: .hcl files go through the
// structured loader, everything else is treated as script syntax.
func (a *App) loadFlow(ctx context.Context) (*graph.Graph, error) {
	path := a.config.FlowPath
	if filepath.Ext(path) == ".hcl" {
		return hclflow.NewLoader(a.registry).LoadFile(ctx, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading flow file: %w", err)
	}
	return script.Load(a.registry, string(src))
}

// summarize logs every node's terminal state after the run settles.
func (a *App) summarize(res *executor.Result) {
	counts := map[string]int{}
	for id, nr := range res.Nodes {
		counts[nr.Status.String()]++
		if nr.Err != nil {
			a.logger.Warn("Node did not succeed.", "node", id, "status", nr.Status.String(), "error", nr.Err)
		}
	}
	a.logger.Info("Run summary.",
		"runID", res.RunID,
		"ok", res.OK,
		"outcomes", counts,
		"peakLiveValues", res.PeakLiveValues,
	)
}
