package stage

import (
	"testing"

	"github.com/specialistvlad/bsseqgrid/internal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	se = sample.Sample{ID: "s1", EndType: sample.Single, Treatment: "A"}
	pe = sample.Sample{ID: "p1", EndType: sample.Paired, Treatment: "B"}
	hg = Wildcards{Assembly: "hg19"}
)

func TestNamerPaths(t *testing.T) {
	n := NewNamer(nil)

	cases := []struct {
		stage Name
		s     sample.Sample
		want  []string
	}{
		{RawQC, se, []string{"01_raw_QC/s1_fastqc.html", "01_raw_QC/s1_fastqc.zip"}},
		{RawQC, pe, []string{"01_raw_QC/p1_1_fastqc.html", "01_raw_QC/p1_1_fastqc.zip", "01_raw_QC/p1_2_fastqc.html", "01_raw_QC/p1_2_fastqc.zip"}},
		{Trimming, se, []string{"02_trimming/s1_trimmed.fq.gz"}},
		{Trimming, pe, []string{"02_trimming/p1_1_val_1.fq.gz", "02_trimming/p1_2_val_2.fq.gz"}},
		{PosttrimQC, se, []string{"03_posttrimming_QC/s1_trimmed_fastqc.html", "03_posttrimming_QC/s1_trimmed_fastqc.zip"}},
		{Mapping, se, []string{"04_mapping/s1_trimmed_bismark_bt2.bam", "04_mapping/s1_trimmed_bismark_bt2_SE_report.txt"}},
		{Mapping, pe, []string{"04_mapping/p1_1_val_1_bismark_bt2_pe.bam", "04_mapping/p1_1_val_1_bismark_bt2_PE_report.txt"}},
		{Deduplication, se, []string{"05_deduplication/s1_se_bt2.deduped.bam"}},
		{Deduplication, pe, []string{"05_deduplication/p1_1_val_1_bt2.deduped.bam"}},
		{Sorting, se, []string{"06_sorting/s1_se_bt2.deduped.sorted.bam"}},
		{Sorting, pe, []string{"06_sorting/p1_1_val_1_bt2.deduped.sorted.bam"}},
		{MethylCalling, se, []string{
			"07_methyl_calls/s1_se_bt2.deduped.sorted_meth_calls.nb.html",
			"07_methyl_calls/s1_se_bt2.deduped.sorted_methylRaw.RDS",
			"07_methyl_calls/s1_se_bt2.deduped.sorted_CpG.txt",
		}},
		{Segmentation, pe, []string{
			"08_segmentation/p1_1_val_1_bt2.deduped.sorted_meth_segments.nb.html",
			"08_segmentation/p1_1_val_1_bt2.deduped.sorted_meth_segments_gr.RDS",
			"08_segmentation/p1_1_val_1_bt2.deduped.sorted_meth_segments.bed",
		}},
		{Annotation, se, []string{"09_annotation/s1_se_bt2.deduped.sorted_hg19_annotation.nb.html"}},
		{FinalReport, pe, []string{"Final_Report/p1_1_val_1_bt2.deduped.sorted_hg19_final.nb.html"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.stage)+"/"+tc.s.EndType.String(), func(t *testing.T) {
			got, err := n.Paths(tc.stage, tc.s, hg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			primary, err := n.PathFor(tc.stage, tc.s, hg)
			require.NoError(t, err)
			assert.Equal(t, tc.want[0], primary)
		})
	}
}

func TestNamerIsDeterministic(t *testing.T) {
	n := NewNamer(nil)
	for _, st := range Default().Stages() {
		if !st.PerSample() {
			continue
		}
		for _, s := range []sample.Sample{se, pe} {
			first, err := n.Paths(st.Name, s, hg)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				again, err := n.Paths(st.Name, s, hg)
				require.NoError(t, err)
				assert.Equal(t, first, again)
			}
		}
	}
}

func TestNamerDistinctSamplesNeverCollide(t *testing.T) {
	n := NewNamer(nil)
	samples := []sample.Sample{
		se, pe,
		{ID: "s2", EndType: sample.Single},
		{ID: "p2", EndType: sample.Paired},
	}
	for _, st := range Default().Stages() {
		if !st.PerSample() {
			continue
		}
		for i := range samples {
			for j := range samples {
				if i == j {
					continue
				}
				a, err := n.PathFor(st.Name, samples[i], hg)
				require.NoError(t, err)
				b, err := n.PathFor(st.Name, samples[j], hg)
				require.NoError(t, err)
				assert.NotEqual(t, a, b, "stage %s", st.Name)
			}
		}
	}
	assert.NoError(t, n.CheckCollisions(samples, []ComparisonSubject{{A: "A", B: "B", ID: "A_B"}}, hg))
}

func TestNamerComparisonPaths(t *testing.T) {
	n := NewNamer(nil)

	got, err := n.ComparisonPaths(DiffMeth, "A_B", hg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"10_differential_methylation/A_B.sorted_diffmeth.nb.html",
		"10_differential_methylation/A_B.sorted_diffmeth.RDS",
		"10_differential_methylation/A_B.sorted_diffmeth.bed",
	}, got)

	got, err = n.ComparisonPaths(Annotation, "A_B", hg)
	require.NoError(t, err)
	assert.Equal(t, []string{"09_annotation/A_B.sorted_hg19_annotation.diff.meth.nb.html"}, got)

	_, err = n.ComparisonPaths(Sorting, "A_B", hg)
	var unsupported *UnsupportedStageError
	assert.ErrorAs(t, err, &unsupported)
}

func TestNamerErrors(t *testing.T) {
	n := NewNamer(nil)

	t.Run("unknown stage", func(t *testing.T) {
		_, err := n.Paths("bigwig", se, hg)
		var unsupported *UnsupportedStageError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, Name("bigwig"), unsupported.Stage)
	})

	t.Run("comparison-only stage has no sample chain", func(t *testing.T) {
		_, err := n.Paths(DiffMeth, se, hg)
		var unsupported *UnsupportedStageError
		assert.ErrorAs(t, err, &unsupported)
	})

	t.Run("assembly wildcard is required", func(t *testing.T) {
		_, err := n.Paths(Annotation, se, Wildcards{})
		var missing *MissingWildcardError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "assembly", missing.Wildcard)
	})
}

func TestCheckCollisions(t *testing.T) {
	n := NewNamer(nil)
	// A single-end sample named like a paired mate shadows the pair's raw QC.
	samples := []sample.Sample{
		{ID: "x", EndType: sample.Paired},
		{ID: "x_1", EndType: sample.Single},
	}
	err := n.CheckCollisions(samples, nil, hg)
	var collision *PathCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "01_raw_QC/x_1_fastqc.html", collision.Path)
	assert.Equal(t, "raw-qc/x", collision.First)
	assert.Equal(t, "raw-qc/x_1", collision.Second)
}

func TestCheckCollisionsKeysComparisonsOnPair(t *testing.T) {
	n := NewNamer(nil)

	t.Run("distinct pairs sharing an identifier", func(t *testing.T) {
		err := n.CheckCollisions(nil, []ComparisonSubject{
			{A: "a_b", B: "c", ID: "a_b_c"},
			{A: "a", B: "b_c", ID: "a_b_c"},
		}, hg)
		var collision *PathCollisionError
		require.ErrorAs(t, err, &collision)
		assert.Equal(t, "09_annotation/a_b_c.sorted_hg19_annotation.diff.meth.nb.html", collision.Path)
		assert.Equal(t, "annotation/a_b vs c", collision.First)
		assert.Equal(t, "annotation/a vs b_c", collision.Second)
	})

	t.Run("repeated pair", func(t *testing.T) {
		err := n.CheckCollisions(nil, []ComparisonSubject{
			{A: "A", B: "B", ID: "A_B"},
			{A: "A", B: "B", ID: "A_B"},
		}, hg)
		assert.NoError(t, err)
	})
}

func TestCatalogChain(t *testing.T) {
	c := Default()
	chain, err := c.Chain(FinalReport)
	require.NoError(t, err)

	var names []Name
	for _, st := range chain {
		names = append(names, st.Name)
	}
	assert.Equal(t, []Name{
		FinalReport, Annotation, Segmentation, MethylCalling, Sorting,
		Deduplication, Mapping, PosttrimQC, Trimming, RawQC,
	}, names)

	chain, err = c.Chain(DiffMeth)
	require.NoError(t, err)
	assert.Equal(t, DiffMeth, chain[0].Name)
	assert.Equal(t, MethylCalling, chain[1].Name)

	_, err = c.Chain("nope")
	assert.Error(t, err)
}

func TestCatalogDirectories(t *testing.T) {
	want := map[Name]string{
		RawQC: "01_raw_QC/", Trimming: "02_trimming/", PosttrimQC: "03_posttrimming_QC/",
		Mapping: "04_mapping/", Deduplication: "05_deduplication/", Sorting: "06_sorting/",
		MethylCalling: "07_methyl_calls/", Segmentation: "08_segmentation/", Annotation: "09_annotation/",
		DiffMeth: "10_differential_methylation/", FinalReport: "Final_Report/",
	}
	stages := Default().Stages()
	require.Len(t, stages, len(want))
	for _, st := range stages {
		assert.Equal(t, want[st.Name], st.Dir, st.Name)
	}
}

func TestAuxiliaryPaths(t *testing.T) {
	assert.Len(t, GenomeConversionFiles(), 2)
	assert.Equal(t, []string{"path_links/input/s1.fq.gz"}, InputLinks(se))
	assert.Equal(t, []string{"path_links/input/p1_1.fq.gz", "path_links/input/p1_2.fq.gz"}, InputLinks(pe))
	assert.Equal(t, "09_annotation/refseq.genes.hg19.bed", RefGenesBED("hg19"))
	assert.Equal(t, "Final_Report/s1_se_bt2.deduped_hg19_merge_diffmeth_report.txt", MergeMarker(se, "hg19"))
}
