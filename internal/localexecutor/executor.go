package localexecutor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/specialistvlad/bsseqgrid/internal/dag"
	"github.com/specialistvlad/bsseqgrid/internal/events"
	"github.com/specialistvlad/bsseqgrid/internal/executor"
	"github.com/specialistvlad/bsseqgrid/internal/rules"
	"github.com/specialistvlad/bsseqgrid/internal/snapshot"
)

// Options configures the local executor.
type Options struct {
	// Workers is the number of edges run concurrently; values below one mean one.
	Workers int
	// Notifier receives progress events; nil discards them.
	Notifier events.Notifier
	// Progress, when set, is updated live for the health endpoint.
	Progress *executor.Progress
	// Out receives the dry-run listing and the generated-files report.
	Out io.Writer
	// Shell runs command actions with "-c"; empty means /bin/sh.
	Shell string
}

// Executor implements executor.Executor for local execution.
type Executor struct {
	opts Options
}

var _ executor.Executor = (*Executor)(nil)

// New creates a new local executor.
func New(opts Options) *Executor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Notifier == nil {
		opts.Notifier = events.Nop{}
	}
	if opts.Progress == nil {
		opts.Progress = &executor.Progress{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}
	return &Executor{opts: opts}
}

// run holds the state of one Execute call.
type run struct {
	*Executor
	plan  *executor.Plan
	graph *dag.Graph
	tasks map[string]*task
	wg    sync.WaitGroup
}

// Execute runs the plan and returns once every edge has reached a final state.
func (e *Executor) Execute(ctx context.Context, plan *executor.Plan) (*executor.Result, error) {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()

	r := &run{Executor: e, plan: plan}
	graph, err := r.buildGraph()
	if err != nil {
		return nil, err
	}
	logger.Debug("Graph built.", "edge_count", graph.Len())

	if err := r.checkSources(); err != nil {
		return nil, err
	}

	if plan.DryRun {
		return r.dryRun(ctx, graph, started)
	}

	snap, err := snapshot.Take(plan.Workdir, plan.Outputs)
	if err != nil {
		return nil, err
	}
	logger.Debug("Output snapshot taken.", "outputs", len(plan.Outputs), "existing", snap.Existing())

	r.execute(ctx)

	result := &executor.Result{
		RunID:    plan.RunID,
		Duration: time.Since(started),
		States:   make(map[string]executor.EdgeState, len(r.tasks)),
	}

	var failed []string
	var rootCause error
	ids := sortedIDs(r.tasks)
	for _, id := range ids {
		t := r.tasks[id]
		result.States[id] = t.getState()
		if t.getState() != executor.Failed || t.err == nil {
			continue
		}
		logger.Error("Edge failed execution.", "edge", id, "error", t.err)
		// A skipped edge is a symptom, not a cause.
		var skipped *skippedError
		if errors.As(t.err, &skipped) || errors.Is(t.err, context.Canceled) {
			continue
		}
		failed = append(failed, id)
		if rootCause == nil {
			rootCause = t.err
		}
	}

	result.Generated, err = snap.Generated(plan.Workdir)
	if err != nil {
		return result, err
	}

	e.opts.Notifier.Notify(ctx, events.Event{
		Name:  events.RunFinished,
		RunID: plan.RunID,
		Time:  time.Now(),
		Extra: map[string]any{
			"done":       result.Count(executor.Done),
			"up_to_date": result.Count(executor.UpToDate),
			"failed":     result.Count(executor.Failed),
			"generated":  len(result.Generated),
		},
	})

	if rootCause != nil {
		return result, fmt.Errorf("execution failed for %s: %w", strings.Join(failed, ", "), rootCause)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := snapshot.Report(e.opts.Out, result.Generated); err != nil {
		return result, err
	}
	return result, nil
}

// buildGraph links every edge to the producers of its inputs.
func (r *run) buildGraph() (*dag.Graph, error) {
	producers, err := rules.IndexProducers(r.plan.Edges)
	if err != nil {
		return nil, err
	}

	g := dag.New()
	r.tasks = make(map[string]*task, len(r.plan.Edges))
	for _, e := range r.plan.Edges {
		if _, dup := r.tasks[e.ID()]; dup {
			return nil, fmt.Errorf("duplicate edge %s in plan", e.ID())
		}
		g.AddNode(e.ID())
		r.tasks[e.ID()] = &task{edge: e}
	}

	for _, e := range r.plan.Edges {
		t := r.tasks[e.ID()]
		seen := make(map[string]bool)
		for _, in := range e.InputPaths() {
			p, ok := producers[in]
			if !ok || seen[p.ID()] {
				continue
			}
			seen[p.ID()] = true
			if err := g.AddEdge(p.ID(), e.ID()); err != nil {
				return nil, fmt.Errorf("linking %s to %s: %w", p.ID(), e.ID(), err)
			}
		}
		deps, err := g.Dependencies(e.ID())
		if err != nil {
			return nil, err
		}
		for _, d := range deps {
			t.deps = append(t.deps, r.tasks[d])
		}
		t.depCount.Store(int32(len(t.deps)))
	}
	for _, e := range r.plan.Edges {
		dependents, err := g.Dependents(e.ID())
		if err != nil {
			return nil, err
		}
		t := r.tasks[e.ID()]
		for _, d := range dependents {
			t.dependents = append(t.dependents, r.tasks[d])
		}
	}

	if err := g.DetectCycles(); err != nil {
		return nil, err
	}
	r.graph = g
	return g, nil
}

// checkSources fails when an input nobody in the plan produces is missing.
func (r *run) checkSources() error {
	produced := make(map[string]bool)
	for _, e := range r.plan.Edges {
		for _, out := range e.OutputPaths() {
			produced[out] = true
		}
	}

	missing := make(map[string][]string)
	for _, e := range r.plan.Edges {
		for _, in := range e.InputPaths() {
			if produced[in] {
				continue
			}
			if _, err := os.Stat(snapshot.Join(r.plan.Workdir, in)); err != nil {
				missing[in] = append(missing[in], e.ID())
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}

	paths := make([]string, 0, len(missing))
	for p := range missing {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = fmt.Sprintf("%s (needed by %s)", p, strings.Join(missing[p], ", "))
	}
	return fmt.Errorf("missing input files: %s", strings.Join(lines, "; "))
}

func sortedIDs(tasks map[string]*task) []string {
	ids := make([]string, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
