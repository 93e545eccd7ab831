package executor

import (
	"context"
	"sync"

	"github.com/blockflow/blockflow/internal/ctxlog"
)

// runStage dispatches one stage's nodes onto a bounded pool of workers and
// waits for all of them to reach a terminal state before returning.
func (r *run) runStage(ctx context.Context, index int, stage []string) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Stage starting.", "stage", index, "nodes", len(stage))

	workers := r.exec.opts.Workers
	if workers > len(stage) {
		workers = len(stage)
	}

	ids := make(chan string)
	var wg sync.WaitGroup
	wg.Add(len(stage))
	for w := 0; w < workers; w++ {
		go r.worker(ctx, ids, &wg, w)
	}
	for _, id := range stage {
		ids <- id
	}
	close(ids)
	wg.Wait()

	logger.Debug("Stage finished.", "stage", index)
}

// worker is the processing loop for a single concurrent worker within a
// stage.
func (r *run) worker(ctx context.Context, ids <-chan string, wg *sync.WaitGroup, workerID int) {
	logger := ctxlog.FromContext(ctx)
	for id := range ids {
		workerLogger := logger.With("workerID", workerID, "node", id)

		if ctx.Err() != nil {
			r.setStatus(id, Skipped, ctx.Err())
			wg.Done()
			continue
		}

		workerLogger.Debug("Worker picked up node.")
		r.runNode(ctx, id)
		workerLogger.Debug("Node reached terminal state.", "status", r.status(id).String())
		wg.Done()
	}
}
