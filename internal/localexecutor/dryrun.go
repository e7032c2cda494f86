package localexecutor

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/specialistvlad/bsseqgrid/internal/dag"
	"github.com/specialistvlad/bsseqgrid/internal/executor"
)

// dryRun walks the graph in topological order and lists the edges that would
// run, without touching the filesystem.
func (r *run) dryRun(ctx context.Context, g *dag.Graph, started time.Time) (*executor.Result, error) {
	logger := ctxlog.FromContext(ctx)
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	result := &executor.Result{
		RunID:  r.plan.RunID,
		States: make(map[string]executor.EdgeState, len(order)),
	}
	wouldRun := 0
	for _, id := range order {
		t := r.tasks[id]
		stale, reason, err := r.isStaleDry(t)
		if err != nil {
			return nil, err
		}
		if !stale {
			t.setState(executor.UpToDate)
			result.States[id] = executor.UpToDate
			continue
		}
		// Pending here stands for "would run".
		t.setState(executor.Pending)
		result.States[id] = executor.Pending
		wouldRun++
		logger.Debug("Edge would run.", "edge", id, "reason", reason)
		if _, err := fmt.Fprintf(r.opts.Out, "%s\n    %s\n", id, t.edge.Action.Script()); err != nil {
			return nil, err
		}
	}
	if _, err := fmt.Fprintf(r.opts.Out, "%d of %d edges would run.\n", wouldRun, len(order)); err != nil {
		return nil, err
	}

	result.Duration = time.Since(started)
	return result, nil
}

// isStaleDry is isStale where a dependency that would run counts as having run.
func (r *run) isStaleDry(t *task) (bool, string, error) {
	for _, d := range t.deps {
		if d.getState() == executor.Pending {
			return true, "dependency " + d.id() + " would run", nil
		}
	}
	return r.isStale(t)
}
