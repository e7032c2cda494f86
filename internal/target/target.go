package target

import (
	"fmt"

	"github.com/specialistvlad/bsseqgrid/internal/stage"
)

// Name is a user-selectable target identifier.
type Name string

// The fixed target vocabulary.
const (
	Help                   Name = "help"
	GenomePrep             Name = "genome-prep"
	RawQC                  Name = "raw-qc"
	TrimGalore             Name = "trimgalore"
	PosttrimQC             Name = "posttrim-qc"
	Mapping                Name = "mapping"
	Deduplication          Name = "deduplication"
	Sorting                Name = "sorting"
	MethylCalling          Name = "methyl-calling"
	Segmentation           Name = "segmentation"
	SegmentationAnnotation Name = "segmentation-annotation"
	DiffMeth               Name = "diffmeth"
	DiffMethAnnotation     Name = "diffmeth-annotation"
	FinalReport            Name = "final-report"
)

// Default is selected when the user names no target.
const Default = FinalReport

// UnknownTargetError is returned for names outside the vocabulary.
type UnknownTargetError struct {
	Name string
}

// Error implements the error interface for UnknownTargetError.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q (run the help target for the list)", e.Name)
}

// Target is one entry of the vocabulary. The interface is sealed: the
// variants below are the only implementations.
type Target interface {
	Name() Name
	Description() string
	resolve(r *Resolver) (OutputSet, error)
}

type meta struct {
	name        Name
	description string
}

func (m meta) Name() Name          { return m.name }
func (m meta) Description() string { return m.description }

// helpTarget has no file side effects.
type helpTarget struct{ meta }

// genomeTarget is the sample-independent genome conversion.
type genomeTarget struct{ meta }

// sampleStageTarget is one stage's declared outputs for every sample.
type sampleStageTarget struct {
	meta
	stage stage.Name
}

// comparisonStageTarget is one stage's declared outputs for every configured
// treatment comparison.
type comparisonStageTarget struct {
	meta
	stage stage.Name
}

// finalReportTarget is every artifact reachable through the stage chain that
// ends in the final report, plus every comparison artifact.
type finalReportTarget struct{ meta }

// vocabulary lists every target. Order here is irrelevant; help sorts by name.
var vocabulary = []Target{
	helpTarget{meta{Help, "Print all rules and their descriptions."}},
	genomeTarget{meta{GenomePrep, "Convert reference genome into Bisulfite analogue."}},
	sampleStageTarget{meta{RawQC, "Perform raw quality control."}, stage.RawQC},
	sampleStageTarget{meta{TrimGalore, "Trim the reads."}, stage.Trimming},
	sampleStageTarget{meta{PosttrimQC, "Perform quality control after trimming."}, stage.PosttrimQC},
	sampleStageTarget{meta{Mapping, "Align and map reads with Bismark."}, stage.Mapping},
	sampleStageTarget{meta{Deduplication, "Deduplicate bam files."}, stage.Deduplication},
	sampleStageTarget{meta{Sorting, "Sort bam files."}, stage.Sorting},
	sampleStageTarget{meta{MethylCalling, "Process bam files."}, stage.MethylCalling},
	sampleStageTarget{meta{Segmentation, "Segmentation of the methylation signal."}, stage.Segmentation},
	sampleStageTarget{meta{SegmentationAnnotation, "Annotation of the Segments."}, stage.Annotation},
	comparisonStageTarget{meta{DiffMeth, "Perform differential methylation calling."}, stage.DiffMeth},
	comparisonStageTarget{meta{DiffMethAnnotation, "Annotate differential methylation cytosines."}, stage.Annotation},
	finalReportTarget{meta{FinalReport, "Produce a comprehensive report.  This is the default target."}},
}
