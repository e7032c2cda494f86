package stage

import (
	"github.com/specialistvlad/bsseqgrid/internal/sample"
)

// Name identifies a stage.
type Name string

// The processing stages, in pipeline order.
const (
	RawQC         Name = "raw-qc"
	Trimming      Name = "trimming"
	PosttrimQC    Name = "posttrim-qc"
	Mapping       Name = "mapping"
	Deduplication Name = "deduplication"
	Sorting       Name = "sorting"
	MethylCalling Name = "methyl-calling"
	Segmentation  Name = "segmentation"
	Annotation    Name = "annotation"
	DiffMeth      Name = "differential-methylation"
	FinalReport   Name = "final-report"
)

// Wildcards carries the naming parameters that are not part of the sample.
type Wildcards struct {
	Assembly string
}

// sampleTemplate returns the file names (without directory) a stage produces
// for one sample.
type sampleTemplate func(id string, t sample.EndType, w Wildcards) []string

// comparisonTemplate returns the file names a stage produces for one
// treatment comparison.
type comparisonTemplate func(comparison string, w Wildcards) []string

// Stage is one entry of the catalog.
type Stage struct {
	Name Name
	// Dir is the output directory prefix, including the trailing slash.
	Dir string
	// Predecessor is the stage whose outputs this stage consumes; empty for
	// the first stage.
	Predecessor Name
	// NeedsAssembly marks stages whose names embed the genome assembly.
	NeedsAssembly bool

	perSample     sampleTemplate
	perComparison comparisonTemplate
}

// PerSample reports whether the stage produces files for each sample.
func (s Stage) PerSample() bool { return s.perSample != nil }

// PerComparison reports whether the stage produces files for each treatment comparison.
func (s Stage) PerComparison() bool { return s.perComparison != nil }

// Catalog is the ordered, read-only set of stages.
type Catalog struct {
	stages []Stage
	byName map[Name]int
}

var defaultCatalog = newCatalog([]Stage{
	{Name: RawQC, Dir: "01_raw_QC/", perSample: rawQCFiles},
	{Name: Trimming, Dir: "02_trimming/", Predecessor: RawQC, perSample: trimmedFiles},
	{Name: PosttrimQC, Dir: "03_posttrimming_QC/", Predecessor: Trimming, perSample: posttrimQCFiles},
	{Name: Mapping, Dir: "04_mapping/", Predecessor: PosttrimQC, perSample: mappedFiles},
	{Name: Deduplication, Dir: "05_deduplication/", Predecessor: Mapping, perSample: dedupedFiles},
	{Name: Sorting, Dir: "06_sorting/", Predecessor: Deduplication, perSample: sortedFiles},
	{Name: MethylCalling, Dir: "07_methyl_calls/", Predecessor: Sorting, perSample: methCallFiles},
	{Name: Segmentation, Dir: "08_segmentation/", Predecessor: MethylCalling, perSample: segmentFiles},
	{
		Name: Annotation, Dir: "09_annotation/", Predecessor: Segmentation, NeedsAssembly: true,
		perSample: annotationFiles, perComparison: diffMethAnnotationFiles,
	},
	{Name: DiffMeth, Dir: "10_differential_methylation/", Predecessor: MethylCalling, perComparison: diffMethFiles},
	{Name: FinalReport, Dir: "Final_Report/", Predecessor: Annotation, NeedsAssembly: true, perSample: finalReportFiles},
})

func newCatalog(stages []Stage) *Catalog {
	c := &Catalog{stages: stages, byName: make(map[Name]int, len(stages))}
	for i, s := range stages {
		c.byName[s.Name] = i
	}
	return c
}

// Default returns the pipeline's stage catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Stages returns every stage in pipeline order.
func (c *Catalog) Stages() []Stage {
	return append([]Stage(nil), c.stages...)
}

// Lookup returns the named stage.
func (c *Catalog) Lookup(name Name) (Stage, error) {
	i, ok := c.byName[name]
	if !ok {
		return Stage{}, &UnsupportedStageError{Stage: name}
	}
	return c.stages[i], nil
}

// Chain returns the named stage followed by all of its predecessors, the
// terminal stage first.
func (c *Catalog) Chain(name Name) ([]Stage, error) {
	var chain []Stage
	seen := make(map[Name]bool)
	for cur := name; cur != ""; {
		if seen[cur] {
			return nil, &UnsupportedStageError{Stage: cur, Reason: "predecessor cycle"}
		}
		seen[cur] = true
		s, err := c.Lookup(cur)
		if err != nil {
			return nil, err
		}
		chain = append(chain, s)
		cur = s.Predecessor
	}
	return chain, nil
}
