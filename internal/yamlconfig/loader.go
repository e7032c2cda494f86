// Package yamlconfig reads the legacy settings.yaml format: dash-separated
// keys under locations, general, execution and tools, plus the upper-case
// SAMPLES and DIFF_METH sections.
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/specialistvlad/bsseqgrid/internal/fsutil"
	"github.com/specialistvlad/bsseqgrid/internal/samplesheet"
	"gopkg.in/yaml.v3"
)

// Loader implements config.Loader for settings.yaml files.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes every .yaml/.yml file found under paths, in order, and merges
// them on top of config.Defaults.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".yaml", ".yml")
	if err != nil {
		var extErr *fsutil.ExtensionError
		if errors.As(err, &extErr) {
			return nil, &config.ConfigError{Field: "config", Reason: "unsupported configuration file", Err: err}
		}
		return nil, err
	}
	if len(files) == 0 {
		return nil, config.Errorf("config", "no .yaml files found in %v", paths)
	}

	model := config.Defaults()
	sheetDir := ""
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		parsed, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", file, err)
		}
		if err := merge(model, parsed); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if parsed.Locations != nil && parsed.Locations.SampleSheet != nil {
			sheetDir = filepath.Dir(file)
		}
		logger.Debug("Merged YAML file.", "file", file, "samples", len(parsed.Samples))
	}

	if err := samplesheet.Attach(model, sheetDir); err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("YAML loading complete.", "samples", len(model.Samples), "comparisons", len(model.Comparisons))
	return model, nil
}

// decode rejects unknown keys so typos do not pass silently.
func decode(data []byte) (*settingsFile, error) {
	var parsed settingsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&parsed); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &parsed, nil
}

func merge(m *config.Model, f *settingsFile) error {
	if loc := f.Locations; loc != nil {
		setString(&m.Locations.OutputDir, loc.OutputDir)
		setString(&m.Locations.InputDir, loc.InputDir)
		setString(&m.Locations.GenomeDir, loc.GenomeDir)
		setString(&m.Locations.LibexecDir, loc.PkgLibexecDir)
		setString(&m.SampleSheet, loc.SampleSheet)
	}

	if g := f.General; g != nil {
		setString(&m.General.Assembly, g.Assembly)
		if mc := g.MethylationCalling; mc != nil {
			setInt(&m.General.MethylationCalling.MinimumCoverage, mc.MinimumCoverage)
			setInt(&m.General.MethylationCalling.MinimumQuality, mc.MinimumQuality)
		}
		if dm := g.DifferentialMethylation; dm != nil {
			setInt(&m.General.DifferentialMethylation.Cores, dm.Cores)
		}
	}

	if ex := f.Execution; ex != nil {
		if ex.Target != nil {
			m.Execution.Targets = append([]string(nil), ex.Target...)
		}
		setInt(&m.Execution.Jobs, ex.Jobs)
		setInt(&m.Execution.Nice, ex.Nice)
	}

	for name, t := range f.Tools {
		m.MergeTool(name, config.Tool{Executable: t.Executable, Args: t.Args, Cores: t.Cores})
	}

	for _, s := range f.Samples {
		m.Samples = append(m.Samples, &config.SampleRow{
			ID:        s.ID,
			EndType:   s.Spec.EndType,
			Treatment: s.Spec.Treatment,
			Protocol:  s.Spec.Protocol,
			Files:     append([]string(nil), s.Spec.Files...),
		})
	}

	for _, pair := range f.DiffMeth {
		c, err := config.ComparisonFromList(fmt.Sprintf("DIFF_METH[%d]", len(m.Comparisons)), pair)
		if err != nil {
			return err
		}
		m.Comparisons = append(m.Comparisons, c)
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
