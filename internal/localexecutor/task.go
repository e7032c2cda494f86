package localexecutor

import (
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/bsseqgrid/internal/executor"
	"github.com/specialistvlad/bsseqgrid/internal/rules"
)

// task is the runtime state of one edge.
type task struct {
	edge       *rules.Edge
	deps       []*task
	dependents []*task

	// depCount is the number of unfinished dependencies.
	depCount atomic.Int32
	state    atomic.Int32
	err      error
	// finishOnce guarantees a task reaches a final state exactly once.
	finishOnce sync.Once
}

func (t *task) id() string { return t.edge.ID() }

func (t *task) setState(s executor.EdgeState) { t.state.Store(int32(s)) }

func (t *task) getState() executor.EdgeState { return executor.EdgeState(t.state.Load()) }

// ran reports whether the task executed its action successfully.
func (t *task) ran() bool { return t.getState() == executor.Done }
