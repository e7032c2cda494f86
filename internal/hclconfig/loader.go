package hclconfig

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/specialistvlad/bsseqgrid/internal/fsutil"
	"github.com/specialistvlad/bsseqgrid/internal/samplesheet"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader reading the process
// environment.
func NewLoader() *Loader {
	return &Loader{environ: processEnv}
}

// Load parses every .hcl file found under paths, in order, and merges them on
// top of config.Defaults.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		var extErr *fsutil.ExtensionError
		if errors.As(err, &extErr) {
			return nil, &config.ConfigError{Field: "config", Reason: "unsupported configuration file", Err: err}
		}
		return nil, err
	}
	if len(files) == 0 {
		return nil, config.Errorf("config", "no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.Defaults()
	parser := hclparse.NewParser()
	evalCtx := evalContext(l.environ())
	sheetDir := ""

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := merge(model, &root); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if root.SampleSheet != nil {
			sheetDir = filepath.Dir(file)
		}
		logger.Debug("Merged HCL file.", "file", file, "samples", len(root.Samples), "tools", len(root.Tools))
	}

	if err := samplesheet.Attach(model, sheetDir); err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "samples", len(model.Samples), "comparisons", len(model.Comparisons), "tools", len(model.Tools))
	return model, nil
}

// merge overlays one decoded file onto the model.
func merge(m *config.Model, root *fileRoot) error {
	if g := root.General; g != nil {
		setString(&m.General.Assembly, g.Assembly)
		if mc := g.MethylationCalling; mc != nil {
			setInt(&m.General.MethylationCalling.MinimumCoverage, mc.MinimumCoverage)
			setInt(&m.General.MethylationCalling.MinimumQuality, mc.MinimumQuality)
		}
		if dm := g.DifferentialMethylation; dm != nil {
			setInt(&m.General.DifferentialMethylation.Cores, dm.Cores)
		}
	}

	if loc := root.Locations; loc != nil {
		setString(&m.Locations.OutputDir, loc.OutputDir)
		setString(&m.Locations.InputDir, loc.InputDir)
		setString(&m.Locations.GenomeDir, loc.GenomeDir)
		setString(&m.Locations.LibexecDir, loc.LibexecDir)
	}

	if ex := root.Execution; ex != nil {
		if ex.Targets != nil {
			m.Execution.Targets = append([]string(nil), ex.Targets...)
		}
		setInt(&m.Execution.Jobs, ex.Jobs)
		setInt(&m.Execution.Nice, ex.Nice)
	}

	if root.SampleSheet != nil {
		m.SampleSheet = root.SampleSheet.Path
	}

	for _, t := range root.Tools {
		m.MergeTool(t.Name, config.Tool{Executable: t.Executable, Args: t.Args, Cores: t.Cores})
	}

	for _, s := range root.Samples {
		m.Samples = append(m.Samples, &config.SampleRow{
			ID:        s.ID,
			EndType:   s.EndType,
			Treatment: s.Treatment,
			Protocol:  s.Protocol,
			Files:     append([]string(nil), s.Files...),
		})
	}

	for _, c := range root.Comparisons {
		cmp, err := config.ComparisonFromList(fmt.Sprintf("comparison[%d].treatments", len(m.Comparisons)), c.Treatments)
		if err != nil {
			return err
		}
		m.Comparisons = append(m.Comparisons, cmp)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
