package stage

import "github.com/specialistvlad/bsseqgrid/internal/sample"

// Link directories prepared inside the output directory.
const (
	InputDir     = "path_links/input/"
	GenomeDir    = "path_links/refGenome/"
	TemplatesDir = "path_links/report_templates/"
)

// GenomeConversionFiles are the bisulfite-converted genome indexes produced by
// genome preparation. They do not depend on any sample.
func GenomeConversionFiles() []string {
	return []string{
		GenomeDir + "Bisulfite_Genome/CT_conversion/genome_mfa.CT_conversion.fa",
		GenomeDir + "Bisulfite_Genome/GA_conversion/genome_mfa.GA_conversion.fa",
	}
}

// InputLinks are the raw read paths a sample's first stage reads from.
func InputLinks(s sample.Sample) []string {
	if s.IsPaired() {
		return []string{InputDir + s.ID + "_1.fq.gz", InputDir + s.ID + "_2.fq.gz"}
	}
	return []string{InputDir + s.ID + ".fq.gz"}
}

// RefGenesBED is the RefSeq gene annotation fetched for an assembly.
func RefGenesBED(assembly string) string {
	return "09_annotation/refseq.genes." + assembly + ".bed"
}

// MergeMarker is the file touched once a sample's differential-methylation
// results are folded into its final report.
func MergeMarker(s sample.Sample, assembly string) string {
	return "Final_Report/" + methylPrefix(s.ID, s.EndType) + "_" + assembly + "_merge_diffmeth_report.txt"
}

// Template returns the path of a report template.
func Template(name string) string {
	return TemplatesDir + name
}
