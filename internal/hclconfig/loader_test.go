package hclconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/specialistvlad/bsseqgrid/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func testLoader(env ...string) *Loader {
	return &Loader{environ: func() []string { return env }}
}

func TestLoadFullConfig(t *testing.T) {
	// Arrange
	dir := writeFiles(t, map[string]string{
		"conf/main.hcl": `
general {
  assembly = lower("HG19")
  methylation_calling {
    minimum_coverage = 5
  }
  differential_methylation {
    cores = 2
  }
}

locations {
  output_dir  = "out"
  input_dir   = env.READS_DIR
  genome_dir  = format("/genomes/%s", "hg19")
  libexec_dir = "/opt/pigx"
}

tool "bismark" {
  cores = 4
}

tool "fastqc" {
  executable = "/usr/bin/fastqc"
}

execution {
  targets = ["diffmeth"]
  jobs    = 8
  nice    = 10
}

sample "s1" {
  files     = ["s1.fq.gz"]
  treatment = "A"
}

sample "p1" {
  files     = ["p1_R1.fq.gz", "p1_R2.fq.gz"]
  end_type  = "paired"
  treatment = "B"
  protocol  = "RRBS"
}

comparison {
  treatments = ["A", "B"]
}
`,
	})
	ctx := ctxlog.Discard(context.Background())

	// Act
	m, err := testLoader("READS_DIR=/data/reads").Load(ctx, filepath.Join(dir, "conf"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "hg19", m.General.Assembly)
	assert.Equal(t, 5, m.General.MethylationCalling.MinimumCoverage)
	assert.Equal(t, 20, m.General.MethylationCalling.MinimumQuality, "unset values keep defaults")
	assert.Equal(t, 2, m.General.DifferentialMethylation.Cores)
	assert.Equal(t, config.Locations{
		OutputDir:  "out",
		InputDir:   "/data/reads",
		GenomeDir:  "/genomes/hg19",
		LibexecDir: "/opt/pigx",
	}, m.Locations)
	assert.Equal(t, config.Execution{Targets: []string{"diffmeth"}, Jobs: 8, Nice: 10}, m.Execution)

	assert.Equal(t, 4, m.Tool("bismark").Cores)
	assert.Equal(t, "-N 0 -L 20", m.Tool("bismark").Args, "defaults survive partial tool blocks")
	assert.Equal(t, "/usr/bin/fastqc", m.Tool("fastqc").Executable)

	wantSamples := []*config.SampleRow{
		{ID: "s1", Treatment: "A", Files: []string{"s1.fq.gz"}},
		{ID: "p1", EndType: "paired", Treatment: "B", Protocol: "RRBS", Files: []string{"p1_R1.fq.gz", "p1_R2.fq.gz"}},
	}
	if diff := cmp.Diff(wantSamples, m.Samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []config.Comparison{{A: "A", B: "B"}}, m.Comparisons)
}

func TestLoadMergesFilesInOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.hcl": `general { assembly = "hg19" }
sample "s1" {
  files = ["s1.fq.gz"]
}`,
		"b.hcl": `general { assembly = "mm10" }
sample "s2" {
  files = ["s2.fq.gz"]
}`,
	})

	m, err := testLoader().Load(ctxlog.Discard(context.Background()), dir)

	require.NoError(t, err)
	assert.Equal(t, "mm10", m.General.Assembly)
	require.Len(t, m.Samples, 2)
	assert.Equal(t, "s1", m.Samples[0].ID)
	assert.Equal(t, "s2", m.Samples[1].ID)
}

func TestLoadSampleSheetRelativeToConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"conf/run.hcl":     "general { assembly = \"hg19\" }\nsample_sheet { path = \"sheet.csv\" }\n",
		"conf/sheet.csv":   "Read,Read2,SampleID,Treatment\nx_1.fq.gz,x_2.fq.gz,x,A\n",
		"conf/ignored.txt": "not config",
	})

	m, err := testLoader().Load(ctxlog.Discard(context.Background()), filepath.Join(dir, "conf"))

	require.NoError(t, err)
	require.Len(t, m.Samples, 1)
	assert.Equal(t, "paired", m.Samples[0].EndType)
	assert.Equal(t, filepath.Join(dir, "conf", "sheet.csv"), m.SampleSheet)
}

func TestLoadErrors(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())

	testCases := []struct {
		name    string
		content string
		want    string
		field   string
	}{
		{name: "syntax error", content: "general {", want: "failed to parse HCL file"},
		{name: "unknown block", content: "bogus {}\ngeneral { assembly = \"hg19\" }", want: "failed to decode HCL file"},
		{name: "missing assembly", content: "execution { jobs = 2 }", field: "general.assembly"},
		{name: "three treatments", content: "general { assembly = \"hg19\" }\ncomparison { treatments = [\"A\", \"B\", \"C\"] }", field: "comparison[0].treatments"},
		{name: "nice out of range", content: "general { assembly = \"hg19\" }\nexecution { nice = 40 }", field: "execution.nice"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"main.hcl": tc.content})

			_, err := testLoader().Load(ctx, dir)

			require.Error(t, err)
			if tc.want != "" {
				assert.Contains(t, err.Error(), tc.want)
			}
			if tc.field != "" {
				var cfgErr *config.ConfigError
				require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
				assert.Equal(t, tc.field, cfgErr.Field)
			}
		})
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{"readme.txt": "nothing here"})

	_, err := testLoader().Load(ctxlog.Discard(context.Background()), dir)

	assert.ErrorContains(t, err, "no .hcl files found")
}

func TestLoadRejectsNamedFileWithOtherExtension(t *testing.T) {
	dir := writeFiles(t, map[string]string{"settings.yaml": "general: {}"})

	_, err := testLoader().Load(ctxlog.Discard(context.Background()), filepath.Join(dir, "settings.yaml"))

	var cfgErr *config.ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
	assert.Equal(t, "config", cfgErr.Field)
}
