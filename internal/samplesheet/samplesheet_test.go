package samplesheet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("derives end type from Read2", func(t *testing.T) {
		sheet := `Read,Read2,SampleID,Protocol,Treatment
s1.fq.gz,,s1,WGBS,A
s2_1.fq.gz,s2_2.fq.gz,s2,RRBS,B
`
		rows, err := Parse(strings.NewReader(sheet))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "s1", rows[0].ID)
		assert.Equal(t, "single", rows[0].EndType)
		assert.Equal(t, []string{"s1.fq.gz"}, rows[0].Files)
		assert.Equal(t, "A", rows[0].Treatment)
		assert.Equal(t, "WGBS", rows[0].Protocol)

		assert.Equal(t, "paired", rows[1].EndType)
		assert.Equal(t, []string{"s2_1.fq.gz", "s2_2.fq.gz"}, rows[1].Files)
	})

	t.Run("explicit end type column wins", func(t *testing.T) {
		sheet := "SampleID,Read,Treatment,EndType\ns1,s1.fq.gz,A,PAIRED\n"
		rows, err := Parse(strings.NewReader(sheet))
		require.NoError(t, err)
		assert.Equal(t, "PAIRED", rows[0].EndType)
	})

	t.Run("header is case-insensitive and comments are skipped", func(t *testing.T) {
		sheet := "# exported from LIMS\nREAD, sampleid, TREATMENT\ns1.fq.gz, s1, A\n"
		rows, err := Parse(strings.NewReader(sheet))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "s1", rows[0].ID)
	})

	errCases := []struct {
		name  string
		sheet string
		want  string
	}{
		{"empty file", "", "file is empty"},
		{"missing column", "Read,SampleID\nx.fq.gz,x\n", `missing required column "treatment"`},
		{"empty id", "Read,SampleID,Treatment\nx.fq.gz,,A\n", "SampleID is empty"},
		{"empty read", "Read,SampleID,Treatment\n,x,A\n", `Read is empty for sample "x"`},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.sheet))
			var cfgErr *config.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte("Read,SampleID,Treatment\na.fq.gz,a,X\n"), 0o644))

	rows, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = ParseFile(filepath.Join(dir, "missing.csv"))
	var cfgErr *config.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestAttach(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sheet.csv"), []byte("Read,SampleID,Treatment\nx.fq.gz,x,A\n"), 0o644))

	m := config.Defaults()
	m.Samples = []*config.SampleRow{{ID: "inline", EndType: "single"}}
	m.SampleSheet = "sheet.csv"

	require.NoError(t, Attach(m, dir))
	require.Len(t, m.Samples, 2)
	assert.Equal(t, "inline", m.Samples[0].ID)
	assert.Equal(t, "x", m.Samples[1].ID)
	assert.Equal(t, filepath.Join(dir, "sheet.csv"), m.SampleSheet)

	none := config.Defaults()
	assert.NoError(t, Attach(none, dir))
	assert.Empty(t, none.Samples)
}
