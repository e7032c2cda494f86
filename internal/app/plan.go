package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/specialistvlad/bsseqgrid/internal/executor"
	"github.com/specialistvlad/bsseqgrid/internal/rules"
	"github.com/specialistvlad/bsseqgrid/internal/sample"
	"github.com/specialistvlad/bsseqgrid/internal/stage"
	"github.com/specialistvlad/bsseqgrid/internal/target"
	"github.com/specialistvlad/bsseqgrid/internal/treatment"
)

// buildPlan resolves targets into outputs and assembles the edges producing
// them. Every resolution error surfaces here, before anything runs.
func (a *App) buildPlan(ctx context.Context, m *config.Model, targets []string) (*executor.Plan, error) {
	logger := ctxlog.FromContext(ctx)

	reg, err := sample.Build(m.Samples, sample.Options{RequireTreatment: m.HasComparisons()})
	if err != nil {
		return nil, err
	}
	namer := stage.NewNamer(nil)
	resolver, err := target.NewResolver(reg, treatment.New(reg), namer, m.Comparisons, stage.Wildcards{Assembly: m.General.Assembly})
	if err != nil {
		return nil, err
	}

	outputs, err := resolver.ResolveAll(targets)
	if err != nil {
		return nil, err
	}
	sorted := outputs.Sorted()
	logger.Debug("Targets resolved.", "targets", targets, "output_count", len(sorted))

	// Targets that need comparisons have already failed above; the rest
	// of the run proceeds without them.
	comparisons, err := resolver.Comparisons()
	if err != nil {
		logger.Warn("Comparisons are unusable, differential methylation is not planned.", "error", err)
		comparisons = nil
	}

	builder := rules.NewBuilder(m, reg, namer, comparisons, m.Locations.OutputDir)
	edges, err := builder.Closure(sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble rules: %w", err)
	}
	logger.Debug("Rules assembled.", "edge_count", len(edges))

	return &executor.Plan{
		RunID:   uuid.NewString(),
		Targets: targets,
		Outputs: sorted,
		Edges:   edges,
		Workdir: m.Locations.OutputDir,
		DryRun:  a.config.DryRun,
	}, nil
}
