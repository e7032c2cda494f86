// Package snapshot records output modification times around a run so the
// files a run actually produced can be reported afterwards.
package snapshot

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Snapshot is the state of a run's expected outputs before execution.
// It is a plain value threaded through the run, never shared globally.
type Snapshot struct {
	outputs []string
	mtimes  map[string]time.Time
}

// Take records the modification time of every output that already exists.
// Paths are relative to dir unless absolute; an empty dir means the current
// directory.
func Take(dir string, outputs []string) (*Snapshot, error) {
	s := &Snapshot{
		outputs: append([]string(nil), outputs...),
		mtimes:  make(map[string]time.Time, len(outputs)),
	}
	for _, p := range outputs {
		mt, ok, err := modTime(dir, p)
		if err != nil {
			return nil, fmt.Errorf("taking snapshot of %s: %w", p, err)
		}
		if ok {
			s.mtimes[p] = mt
		}
	}
	return s, nil
}

// Existing returns the number of outputs that existed when the snapshot was taken.
func (s *Snapshot) Existing() int {
	return len(s.mtimes)
}

// Generated returns, in snapshot order, the outputs that now exist and were
// either absent at snapshot time or have a different modification time.
func (s *Snapshot) Generated(dir string) ([]string, error) {
	var generated []string
	for _, p := range s.outputs {
		mt, ok, err := modTime(dir, p)
		if err != nil {
			return nil, fmt.Errorf("comparing snapshot of %s: %w", p, err)
		}
		if !ok {
			continue
		}
		before, existed := s.mtimes[p]
		if !existed || !before.Equal(mt) {
			generated = append(generated, p)
		}
	}
	return generated, nil
}

// Report writes the list of generated files. Nothing is written when no file
// was generated.
func Report(w io.Writer, generated []string) error {
	if len(generated) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "The following files have been generated:"); err != nil {
		return err
	}
	for _, p := range generated {
		if _, err := fmt.Fprintf(w, "  - %s\n", p); err != nil {
			return err
		}
	}
	return nil
}

func modTime(dir, p string) (time.Time, bool, error) {
	info, err := os.Stat(Join(dir, p))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return info.ModTime(), true, nil
}
