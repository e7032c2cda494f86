package localexecutor

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/specialistvlad/bsseqgrid/internal/events"
	"github.com/specialistvlad/bsseqgrid/internal/executor"
)

// skippedError marks an edge that never ran because a dependency failed.
type skippedError struct {
	dependency string
}

func (e *skippedError) Error() string {
	return fmt.Sprintf("skipped due to upstream failure of '%s'", e.dependency)
}

// execute runs every task and returns once all of them reached a final state.
func (r *run) execute(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	readyChan := make(chan *task, len(r.tasks))
	r.opts.Progress.Start(len(r.tasks))

	logger.Debug("Initializing executor, finding root edges...")
	roots := r.graph.Roots()
	for _, id := range roots {
		readyChan <- r.tasks[id]
	}
	logger.Debug("Found all root edges.", "count", len(roots))

	r.wg.Add(len(r.tasks))

	logger.Debug("Starting worker pool.", "workers", r.opts.Workers)
	for i := 0; i < r.opts.Workers; i++ {
		go r.worker(ctx, readyChan, i)
	}

	logger.Info("Waiting for all edges to complete...", "edges", len(r.tasks))
	r.wg.Wait()
	close(readyChan)
	logger.Info("All edges completed.")
}

// worker is the processing loop for a single concurrent worker.
func (r *run) worker(ctx context.Context, readyChan chan *task, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for t := range readyChan {
		edgeCtx, workerLogger := ctxlog.With(ctx, "workerID", workerID, "edge", t.id())

		if err := ctx.Err(); err != nil {
			r.finish(edgeCtx, t, executor.Failed, err, false)
			r.skipDependents(edgeCtx, t)
			continue
		}

		stale, reason, err := r.isStale(t)
		if err != nil {
			r.finish(edgeCtx, t, executor.Failed, err, false)
			r.skipDependents(edgeCtx, t)
			continue
		}
		if !stale {
			workerLogger.Debug("Edge is up to date.")
			r.notify(edgeCtx, events.EdgeSkipped, t, nil)
			r.finish(edgeCtx, t, executor.UpToDate, nil, false)
			r.unlockDependents(edgeCtx, t, readyChan)
			continue
		}

		workerLogger.Info(t.edge.Message, "reason", reason)
		t.setState(executor.Running)
		r.opts.Progress.Begin()
		r.notify(edgeCtx, events.EdgeStarted, t, nil)

		if err := r.runAction(edgeCtx, t); err != nil {
			workerLogger.Error("Edge execution failed.", "error", err)
			r.cleanupOutputs(edgeCtx, t)
			r.notify(edgeCtx, events.EdgeFailed, t, err)
			r.finish(edgeCtx, t, executor.Failed, err, true)
			r.skipDependents(edgeCtx, t)
			continue
		}

		workerLogger.Debug("Edge execution succeeded.")
		r.notify(edgeCtx, events.EdgeFinished, t, nil)
		r.finish(edgeCtx, t, executor.Done, nil, true)
		r.unlockDependents(edgeCtx, t, readyChan)
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// finish moves t to its final state exactly once and releases its slot in
// the wait group. It reports whether this call was the one that finished t.
func (r *run) finish(_ context.Context, t *task, s executor.EdgeState, err error, running bool) bool {
	var first bool
	t.finishOnce.Do(func() {
		t.err = err
		t.setState(s)
		r.opts.Progress.Finish(s, running)
		r.wg.Done()
		first = true
	})
	return first
}

func (r *run) unlockDependents(ctx context.Context, t *task, readyChan chan *task) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range t.dependents {
		if dependent.depCount.Add(-1) == 0 {
			logger.Debug("Unlocking dependent edge.", "dependent", dependent.id())
			readyChan <- dependent
		}
	}
}

// skipDependents recursively marks all downstream edges as failed.
func (r *run) skipDependents(ctx context.Context, t *task) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range t.dependents {
		err := &skippedError{dependency: t.id()}
		if r.finish(ctx, dependent, executor.Failed, err, false) {
			logger.Warn("Skipping dependent edge due to upstream failure.", "dependent", dependent.id(), "dependency", t.id())
			r.notify(ctx, events.EdgeSkipped, dependent, err)
			r.skipDependents(ctx, dependent)
		}
	}
}

func (r *run) notify(ctx context.Context, name string, t *task, err error) {
	e := events.Event{
		Name:   name,
		RunID:  r.plan.RunID,
		EdgeID: t.id(),
		Rule:   t.edge.Rule,
		Time:   time.Now(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	if t.edge.Log != "" {
		e.Extra = map[string]any{"log": t.edge.Log}
	}
	r.opts.Notifier.Notify(ctx, e)
}
