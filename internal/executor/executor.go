// Package executor defines the boundary between target resolution and the
// machinery that actually runs rule edges.
package executor

import "context"

// Executor runs a plan to completion. Implementations decide scheduling,
// concurrency and staleness; they receive the whole plan at once, never a
// single output path.
type Executor interface {
	Execute(ctx context.Context, plan *Plan) (*Result, error)
}
