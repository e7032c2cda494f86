package executor

import (
	"time"

	"github.com/specialistvlad/bsseqgrid/internal/rules"
)

// Plan is everything an executor needs for one run.
type Plan struct {
	RunID string
	// Targets are the requested target names, already validated.
	Targets []string
	// Outputs is the sorted union of the targets' output sets.
	Outputs []string
	// Edges is the closure of rule edges producing Outputs.
	Edges []*rules.Edge
	// Workdir is the directory every relative path is anchored at.
	Workdir string
	// DryRun lists what would run without touching the filesystem.
	DryRun bool
}

// EdgeState is the outcome of one edge in a run.
type EdgeState int32

const (
	// Pending edges are waiting for their dependencies.
	Pending EdgeState = iota
	// Running edges are executing their action.
	Running
	// Done edges ran their action successfully.
	Done
	// UpToDate edges were skipped because their outputs were fresh.
	UpToDate
	// Failed edges failed or were skipped after an upstream failure.
	Failed
)

// String returns the lower-case state name.
func (s EdgeState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case UpToDate:
		return "up-to-date"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result summarizes a finished run.
type Result struct {
	RunID    string
	Duration time.Duration
	// States maps every edge ID of the plan to its final state.
	States map[string]EdgeState
	// Generated lists the plan outputs that are new or changed since the run
	// started, in output order.
	Generated []string
}

// Count returns how many edges ended in state s.
func (r *Result) Count(s EdgeState) int {
	n := 0
	for _, st := range r.States {
		if st == s {
			n++
		}
	}
	return n
}
