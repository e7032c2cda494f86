package localexecutor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/specialistvlad/bsseqgrid/internal/rules"
	"github.com/specialistvlad/bsseqgrid/internal/snapshot"
)

// isStale decides whether t must run and why.
func (r *run) isStale(t *task) (bool, string, error) {
	for _, d := range t.deps {
		if d.ran() {
			return true, "dependency " + d.id() + " ran", nil
		}
	}

	var oldestOut time.Time
	for i, out := range t.edge.OutputPaths() {
		info, err := os.Lstat(r.path(out))
		if os.IsNotExist(err) {
			return true, "missing output " + out, nil
		}
		if err != nil {
			return false, "", err
		}
		if i == 0 || info.ModTime().Before(oldestOut) {
			oldestOut = info.ModTime()
		}
	}

	for _, in := range t.edge.Inputs {
		if in.Ancient {
			continue
		}
		info, err := os.Stat(r.path(in.Path))
		if err != nil {
			return false, "", fmt.Errorf("checking input %s: %w", in.Path, err)
		}
		if info.ModTime().After(oldestOut) {
			return true, "input " + in.Path + " is newer than outputs", nil
		}
	}
	return false, "", nil
}

func (r *run) path(p string) string {
	return snapshot.Join(r.plan.Workdir, p)
}

// runAction prepares output directories and executes the edge's action.
func (r *run) runAction(ctx context.Context, t *task) error {
	for _, out := range t.edge.OutputPaths() {
		if err := os.MkdirAll(filepath.Dir(r.path(out)), 0o755); err != nil {
			return fmt.Errorf("creating output directory for %s: %w", out, err)
		}
	}

	switch a := t.edge.Action.(type) {
	case rules.Link:
		if err := r.link(a); err != nil {
			return err
		}
	default:
		if err := r.shell(ctx, t); err != nil {
			return err
		}
	}

	var missing []string
	for _, out := range t.edge.OutputPaths() {
		if _, err := os.Lstat(r.path(out)); err != nil {
			missing = append(missing, out)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("action finished but did not produce %s", strings.Join(missing, ", "))
	}
	return nil
}

// link replaces the target with a symbolic link to the absolute source.
func (r *run) link(l rules.Link) error {
	src, err := filepath.Abs(r.path(l.Source))
	if err != nil {
		return err
	}
	target := r.path(l.Target)
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing link %s: %w", l.Target, err)
	}
	if err := os.Symlink(src, target); err != nil {
		return fmt.Errorf("linking %s: %w", l.Target, err)
	}
	return nil
}

// shell runs the action's script in the working directory. Output goes to the
// edge's log file; edges without a log keep the tail of their output for the
// error message.
func (r *run) shell(ctx context.Context, t *task) error {
	logger := ctxlog.FromContext(ctx)
	script := t.edge.Action.Script()
	logger.Debug("Running command.", "script", script)

	cmd := exec.CommandContext(ctx, r.opts.Shell, "-c", script)
	cmd.Dir = r.plan.Workdir

	var tail bytes.Buffer
	var sink io.Writer = &tail
	if t.edge.Log != "" {
		logPath := r.path(t.edge.Log)
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log %s: %w", t.edge.Log, err)
		}
		defer f.Close()
		sink = io.MultiWriter(f, &tail)
	}
	cmd.Stdout = sink
	cmd.Stderr = sink

	if err := cmd.Run(); err != nil {
		out := strings.TrimSpace(lastBytes(tail.Bytes(), 2048))
		if t.edge.Log != "" {
			return fmt.Errorf("%w (see %s): %s", err, t.edge.Log, out)
		}
		if out != "" {
			return fmt.Errorf("%w: %s", err, out)
		}
		return err
	}
	return nil
}

// cleanupOutputs removes whatever a failed action left behind.
func (r *run) cleanupOutputs(ctx context.Context, t *task) {
	logger := ctxlog.FromContext(ctx)
	for _, out := range t.edge.OutputPaths() {
		if err := os.Remove(r.path(out)); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove partial output.", "path", out, "error", err)
		}
	}
}

func lastBytes(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(b)
}
