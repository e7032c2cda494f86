// Package events publishes run progress to external observers.
package events

import (
	"context"
	"sync"
	"time"
)

// Event names emitted during a run.
const (
	EdgeStarted  = "edge_started"
	EdgeFinished = "edge_finished"
	EdgeSkipped  = "edge_skipped"
	EdgeFailed   = "edge_failed"
	RunFinished  = "run_finished"
)

// Event is one progress notification.
type Event struct {
	Name   string
	RunID  string
	EdgeID string
	Rule   string
	Error  string
	Time   time.Time
	// Extra carries event-specific fields, e.g. counters on run_finished.
	Extra map[string]any
}

// Payload flattens the event into the map sent over the wire.
func (e Event) Payload() map[string]any {
	p := map[string]any{
		"run_id": e.RunID,
		"time":   e.Time.UTC().Format(time.RFC3339Nano),
	}
	if e.EdgeID != "" {
		p["edge"] = e.EdgeID
	}
	if e.Rule != "" {
		p["rule"] = e.Rule
	}
	if e.Error != "" {
		p["error"] = e.Error
	}
	for k, v := range e.Extra {
		p[k] = v
	}
	return p
}

// Notifier receives progress events. Notify must be safe for concurrent use
// and must not block the caller for long.
type Notifier interface {
	Notify(ctx context.Context, e Event)
	Close() error
}

// Nop discards every event.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Event) {}

// Close implements Notifier.
func (Nop) Close() error { return nil }

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Close implements Notifier.
func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the recorded event names in arrival order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.events))
	for i, e := range r.events {
		names[i] = e.Name
	}
	return names
}
