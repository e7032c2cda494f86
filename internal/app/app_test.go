package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/bsseqgrid/internal/app"
	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/specialistvlad/bsseqgrid/internal/target"
	"github.com/specialistvlad/bsseqgrid/internal/treatment"
	"github.com/specialistvlad/bsseqgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineHCL = `
general {
  assembly = "hg19"
}

locations {
  output_dir  = "{{dir}}/out"
  input_dir   = "{{dir}}/reads"
  genome_dir  = "{{dir}}/genome"
  libexec_dir = "{{dir}}/libexec"
}

tool "fastqc" {
  executable = "{{dir}}/bin/fastqc.sh"
}

sample "s1" {
  files     = ["s1.fq.gz"]
  treatment = "A"
}
`

// fakeFastQC mimics "fastqc --outdir DIR INPUT" by touching both reports.
const fakeFastQC = `#!/bin/sh
stem=$(basename "$3" .fq.gz)
touch "$2$stem"_fastqc.html "$2$stem"_fastqc.zip
`

func pipelineFiles(fastqc string) map[string]string {
	return map[string]string{
		"conf/main.hcl":  pipelineHCL,
		"reads/s1.fq.gz": "@r1\nACGT\n+\nIIII\n",
		"bin/fastqc.sh":  fastqc,
		"genome/chr1.fa": ">chr1\nACGT\n",
		"libexec/.keep":  "",
	}
}

func TestRun_RawQC(t *testing.T) {
	// Arrange
	files := pipelineFiles(fakeFastQC)

	// Act
	result := testutil.RunIntegrationTest(t, files, app.Config{Targets: []string{"raw-qc"}})

	// Assert
	require.NoError(t, result.Err, result.LogOutput)
	testutil.AssertFileExists(t, result, "out/path_links/input/s1.fq.gz")
	testutil.AssertFileExists(t, result, "out/01_raw_QC/s1_fastqc.html")
	testutil.AssertFileExists(t, result, "out/01_raw_QC/s1_fastqc.zip")
	assert.Contains(t, result.Output, "The following files have been generated:")
	assert.Contains(t, result.Output, "  - 01_raw_QC/s1_fastqc.html")

	progress := result.App.Progress()
	assert.Equal(t, int64(2), progress.Total)
	assert.Equal(t, int64(2), progress.Done)
	assert.Zero(t, progress.Failed)
}

func TestRun_DryRun(t *testing.T) {
	result := testutil.RunIntegrationTest(t, pipelineFiles(fakeFastQC), app.Config{
		Targets: []string{"raw-qc"},
		DryRun:  true,
	})

	require.NoError(t, result.Err, result.LogOutput)
	testutil.AssertEdgeListed(t, result, "link_input_se[s1]")
	testutil.AssertEdgeListed(t, result, "fastqc_raw[s1]")
	assert.Contains(t, result.Output, "2 of 2 edges would run.")
	_, err := os.Stat(filepath.Join(result.Dir, "out"))
	assert.True(t, os.IsNotExist(err), "dry run must not create the output directory")
}

func TestRun_List(t *testing.T) {
	result := testutil.RunIntegrationTest(t, pipelineFiles(fakeFastQC), app.Config{
		Targets: []string{"raw-qc"},
		List:    true,
	})

	require.NoError(t, result.Err, result.LogOutput)
	assert.Equal(t, "01_raw_QC/s1_fastqc.html\n01_raw_QC/s1_fastqc.zip\n", result.Output)
}

func TestRun_HelpWithoutConfig(t *testing.T) {
	result := testutil.RunIntegrationTest(t, nil, app.Config{
		ConfigPaths: []string{},
		Targets:     []string{"help"},
	})

	require.NoError(t, result.Err)
	assert.Contains(t, result.Output, "final-report:\n")
	assert.Contains(t, result.Output, "genome-prep:\n")
}

func TestRun_YAMLSettings(t *testing.T) {
	files := map[string]string{
		"conf/settings.yaml": `
locations:
  output-dir: "{{dir}}/out"
  input-dir: "{{dir}}/reads"
general:
  assembly: hg19
execution:
  target: raw-qc
SAMPLES:
  s1:
    files: [s1.fq.gz]
`,
		"reads/s1.fq.gz": "reads",
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{List: true})

	require.NoError(t, result.Err, result.LogOutput)
	assert.Equal(t, "01_raw_QC/s1_fastqc.html\n01_raw_QC/s1_fastqc.zip\n", result.Output)
}

func TestRun_Errors(t *testing.T) {
	t.Run("unknown target", func(t *testing.T) {
		result := testutil.RunIntegrationTest(t, pipelineFiles(fakeFastQC), app.Config{Targets: []string{"bogus"}})

		var unknown *target.UnknownTargetError
		require.True(t, errors.As(result.Err, &unknown), "expected UnknownTargetError, got %v", result.Err)
		assert.Equal(t, "bogus", unknown.Name)
	})

	t.Run("missing reads", func(t *testing.T) {
		files := pipelineFiles(fakeFastQC)
		delete(files, "reads/s1.fq.gz")

		result := testutil.RunIntegrationTest(t, files, app.Config{Targets: []string{"raw-qc"}})

		assert.ErrorContains(t, result.Err, "missing input files")
	})

	t.Run("failing tool", func(t *testing.T) {
		result := testutil.RunIntegrationTest(t, pipelineFiles("#!/bin/sh\necho boom >&2\nexit 3\n"), app.Config{Targets: []string{"raw-qc"}})

		require.Error(t, result.Err)
		assert.Contains(t, result.Err.Error(), "execution failed")
		assert.Contains(t, result.Err.Error(), "fastqc_raw[s1]")
		assert.Equal(t, int64(1), result.App.Progress().Failed)
	})

	t.Run("mixed config formats", func(t *testing.T) {
		files := pipelineFiles(fakeFastQC)
		files["conf/settings.yaml"] = "general:\n  assembly: hg19\n"

		result := testutil.RunIntegrationTest(t, files, app.Config{Targets: []string{"raw-qc"}})

		assert.ErrorContains(t, result.Err, "mixes .hcl and .yaml")
	})
}

func TestRun_InvalidComparisonStopsBeforeExecution(t *testing.T) {
	// Arrange
	files := pipelineFiles(fakeFastQC)
	files["conf/main.hcl"] = pipelineHCL + `
comparison {
  treatments = ["A", "C"]
}
`

	// Act
	result := testutil.RunIntegrationTest(t, files, app.Config{})

	// Assert
	var invalid *treatment.InvalidComparisonError
	require.True(t, errors.As(result.Err, &invalid), "expected InvalidComparisonError, got %v", result.Err)
	assert.Zero(t, result.App.Progress().Total)
	assert.Empty(t, result.Output)
	_, err := os.Stat(filepath.Join(result.Dir, "out"))
	assert.True(t, os.IsNotExist(err), "no edge may run when a comparison is invalid")
}

func TestRun_ExplicitConfigFile(t *testing.T) {
	t.Run("hcl", func(t *testing.T) {
		result := testutil.RunIntegrationTest(t, pipelineFiles(fakeFastQC), app.Config{
			ConfigPaths: []string{"{{dir}}/conf/main.hcl"},
			Targets:     []string{"raw-qc"},
			List:        true,
		})

		require.NoError(t, result.Err, result.LogOutput)
		assert.Equal(t, "01_raw_QC/s1_fastqc.html\n01_raw_QC/s1_fastqc.zip\n", result.Output)
	})

	t.Run("yaml", func(t *testing.T) {
		files := map[string]string{
			"settings.yml": "general:\n  assembly: hg19\nexecution:\n  target: raw-qc\nSAMPLES:\n  s1:\n    files: [s1.fq.gz]\n",
		}

		result := testutil.RunIntegrationTest(t, files, app.Config{
			ConfigPaths: []string{"{{dir}}/settings.yml"},
			List:        true,
		})

		require.NoError(t, result.Err, result.LogOutput)
		assert.Equal(t, "01_raw_QC/s1_fastqc.html\n01_raw_QC/s1_fastqc.zip\n", result.Output)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		files := pipelineFiles(fakeFastQC)
		files["conf/main.toml"] = "assembly = \"hg19\"\n"

		result := testutil.RunIntegrationTest(t, files, app.Config{
			ConfigPaths: []string{"{{dir}}/conf/main.toml"},
			Targets:     []string{"raw-qc"},
		})

		var cfgErr *config.ConfigError
		require.True(t, errors.As(result.Err, &cfgErr), "expected ConfigError, got %v", result.Err)
		assert.Equal(t, "config", cfgErr.Field)
	})
}

func TestRun_EndTypeInferredFromFiles(t *testing.T) {
	files := pipelineFiles(fakeFastQC)
	files["conf/main.hcl"] = strings.Replace(pipelineHCL, `files     = ["s1.fq.gz"]`, `files     = ["s1_R1.fq.gz", "s1_R2.fq.gz"]`, 1)

	result := testutil.RunIntegrationTest(t, files, app.Config{
		Targets: []string{"raw-qc"},
		List:    true,
	})

	require.NoError(t, result.Err, result.LogOutput)
	assert.Equal(t, strings.Join([]string{
		"01_raw_QC/s1_1_fastqc.html",
		"01_raw_QC/s1_1_fastqc.zip",
		"01_raw_QC/s1_2_fastqc.html",
		"01_raw_QC/s1_2_fastqc.zip",
	}, "\n")+"\n", result.Output)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := testutil.RunIntegrationTestWithContext(ctx, t, pipelineFiles(fakeFastQC), app.Config{Targets: []string{"raw-qc"}})

	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     app.Config
		wantErr string
	}{
		{name: "config path given", cfg: app.Config{ConfigPaths: []string{"conf"}}},
		{name: "help needs no config", cfg: app.Config{Targets: []string{"help"}}},
		{name: "no config", cfg: app.Config{Targets: []string{"mapping"}}, wantErr: "configuration path is required"},
		{name: "negative workers", cfg: app.Config{ConfigPaths: []string{"conf"}, Workers: -1}, wantErr: "workers must not be negative"},
		{name: "dry-run and list", cfg: app.Config{ConfigPaths: []string{"conf"}, DryRun: true, List: true}, wantErr: "mutually exclusive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := app.NewConfig(tc.cfg)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg.ConfigPaths, cfg.ConfigPaths)
		})
	}
}
