package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/specialistvlad/bsseqgrid/internal/events"
	"github.com/specialistvlad/bsseqgrid/internal/executor"
	"github.com/specialistvlad/bsseqgrid/internal/localexecutor"
	"github.com/specialistvlad/bsseqgrid/internal/target"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if target.IsHelpOnly(a.config.Targets) {
		return target.WriteHelp(a.outW)
	}

	model, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}

	targets := a.config.Targets
	if len(targets) == 0 {
		targets = model.Execution.Targets
	}
	if target.IsHelpOnly(targets) {
		return target.WriteHelp(a.outW)
	}

	plan, err := a.buildPlan(ctx, model, targets)
	if err != nil {
		return err
	}

	if a.config.List {
		for _, out := range plan.Outputs {
			if _, err := fmt.Fprintln(a.outW, out); err != nil {
				return err
			}
		}
		return nil
	}

	if len(plan.Edges) == 0 {
		a.logger.Warn("No rules needed for the requested targets, execution not required.")
		return nil
	}

	if !plan.DryRun {
		if err := os.MkdirAll(plan.Workdir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	notifier, err := a.newNotifier(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			a.logger.Warn("Failed to close events notifier.", "error", err)
		}
	}()

	workers := a.config.Workers
	if workers <= 0 {
		workers = model.Execution.Jobs
	}

	a.logger.Info("🚀 Starting execution...", "run_id", plan.RunID, "edges", len(plan.Edges), "workers", workers, "dry_run", plan.DryRun)
	exec := localexecutor.New(localexecutor.Options{
		Workers:  workers,
		Notifier: notifier,
		Progress: a.progress,
		Out:      a.outW,
	})
	result, err := exec.Execute(ctx, plan)
	if result != nil {
		a.logger.Info("🏁 Execution finished.",
			"run_id", plan.RunID,
			"duration", result.Duration,
			"done", result.Count(executor.Done),
			"up_to_date", result.Count(executor.UpToDate),
			"failed", result.Count(executor.Failed),
			"generated", len(result.Generated),
		)
	}
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// newNotifier connects to the events server when one is configured.
func (a *App) newNotifier(ctx context.Context) (events.Notifier, error) {
	if a.config.EventsURL == "" || a.config.DryRun {
		return events.Nop{}, nil
	}
	n, err := events.DialSocketIO(ctx, events.SocketIOOptions{URL: a.config.EventsURL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to events server: %w", err)
	}
	return n, nil
}
