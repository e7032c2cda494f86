package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/specialistvlad/bsseqgrid/internal/fsutil"
	"github.com/specialistvlad/bsseqgrid/internal/hclconfig"
	"github.com/specialistvlad/bsseqgrid/internal/yamlconfig"
)

var (
	hclExtensions  = []string{".hcl"}
	yamlExtensions = []string{".yaml", ".yml"}
)

// selectLoader picks the configuration format from the paths: named files by
// their extension, directories by the files found under them. Mixing formats
// in one run is rejected.
func selectLoader(paths []string) (config.Loader, error) {
	var hclCount, yamlCount int
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", p, err)
		}
		if !info.IsDir() {
			switch {
			case fsutil.HasExtension(p, hclExtensions...):
				hclCount++
			case fsutil.HasExtension(p, yamlExtensions...):
				yamlCount++
			default:
				return nil, config.Errorf("config", "%s is neither a .hcl nor a .yaml file", p)
			}
			continue
		}
		hclFiles, err := fsutil.CollectFiles([]string{p}, hclExtensions...)
		if err != nil {
			return nil, err
		}
		yamlFiles, err := fsutil.CollectFiles([]string{p}, yamlExtensions...)
		if err != nil {
			return nil, err
		}
		hclCount += len(hclFiles)
		yamlCount += len(yamlFiles)
	}

	switch {
	case hclCount > 0 && yamlCount > 0:
		return nil, config.Errorf("config", "configuration mixes .hcl and .yaml files in %v", paths)
	case yamlCount > 0:
		return yamlconfig.NewLoader(), nil
	default:
		return hclconfig.NewLoader(), nil
	}
}

// loadConfig loads the model and anchors its directories at the current
// working directory.
func (a *App) loadConfig(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	loader, err := selectLoader(a.config.ConfigPaths)
	if err != nil {
		return nil, err
	}
	model, err := loader.Load(ctx, a.config.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	for _, dir := range []*string{
		&model.Locations.OutputDir,
		&model.Locations.InputDir,
		&model.Locations.GenomeDir,
		&model.Locations.LibexecDir,
	} {
		if *dir == "" {
			continue
		}
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve directory %s: %w", *dir, err)
		}
		*dir = abs
	}

	logger.Debug("Configuration loaded.", "samples", len(model.Samples), "comparisons", len(model.Comparisons), "workdir", model.Locations.OutputDir)
	return model, nil
}
