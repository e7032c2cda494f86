package executor

import "sync/atomic"

// Progress is a live, concurrency-safe view of a running plan.
type Progress struct {
	total    atomic.Int64
	done     atomic.Int64
	upToDate atomic.Int64
	failed   atomic.Int64
	running  atomic.Int64
}

// ProgressSnapshot is a point-in-time copy of Progress.
type ProgressSnapshot struct {
	Total    int64 `json:"total"`
	Done     int64 `json:"done"`
	UpToDate int64 `json:"up_to_date"`
	Failed   int64 `json:"failed"`
	Running  int64 `json:"running"`
}

// Start resets the counters for a plan of n edges.
func (p *Progress) Start(n int) {
	p.total.Store(int64(n))
	p.done.Store(0)
	p.upToDate.Store(0)
	p.failed.Store(0)
	p.running.Store(0)
}

// Begin records an edge starting its action.
func (p *Progress) Begin() { p.running.Add(1) }

// Finish records an edge reaching a final state. running tells whether the
// edge had been counted by Begin.
func (p *Progress) Finish(s EdgeState, running bool) {
	if running {
		p.running.Add(-1)
	}
	switch s {
	case Done:
		p.done.Add(1)
	case UpToDate:
		p.upToDate.Add(1)
	case Failed:
		p.failed.Add(1)
	}
}

// Snapshot copies the counters.
func (p *Progress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		Total:    p.total.Load(),
		Done:     p.done.Load(),
		UpToDate: p.upToDate.Load(),
		Failed:   p.failed.Load(),
		Running:  p.running.Load(),
	}
}
