package stage

import (
	"github.com/specialistvlad/bsseqgrid/internal/sample"
)

// Paired-end reads keep their mate index up to alignment; from alignment on
// both mates collapse into one file carrying the first mate's stem.

func rawQCFiles(id string, t sample.EndType, _ Wildcards) []string {
	if t == sample.Paired {
		return []string{
			id + "_1_fastqc.html", id + "_1_fastqc.zip",
			id + "_2_fastqc.html", id + "_2_fastqc.zip",
		}
	}
	return []string{id + "_fastqc.html", id + "_fastqc.zip"}
}

func trimmedFiles(id string, t sample.EndType, _ Wildcards) []string {
	if t == sample.Paired {
		return []string{id + "_1_val_1.fq.gz", id + "_2_val_2.fq.gz"}
	}
	return []string{id + "_trimmed.fq.gz"}
}

func posttrimQCFiles(id string, t sample.EndType, _ Wildcards) []string {
	if t == sample.Paired {
		return []string{
			id + "_1_val_1_fastqc.html", id + "_1_val_1_fastqc.zip",
			id + "_2_val_2_fastqc.html", id + "_2_val_2_fastqc.zip",
		}
	}
	return []string{id + "_trimmed_fastqc.html", id + "_trimmed_fastqc.zip"}
}

func mappedFiles(id string, t sample.EndType, _ Wildcards) []string {
	if t == sample.Paired {
		return []string{id + "_1_val_1_bismark_bt2_pe.bam", id + "_1_val_1_bismark_bt2_PE_report.txt"}
	}
	return []string{id + "_trimmed_bismark_bt2.bam", id + "_trimmed_bismark_bt2_SE_report.txt"}
}

func dedupedFiles(id string, t sample.EndType, _ Wildcards) []string {
	return []string{methylPrefix(id, t) + ".bam"}
}

func sortedFiles(id string, t sample.EndType, _ Wildcards) []string {
	return []string{methylPrefix(id, t) + ".sorted.bam"}
}

func methCallFiles(id string, t sample.EndType, _ Wildcards) []string {
	p := methylPrefix(id, t)
	return []string{p + ".sorted_meth_calls.nb.html", p + ".sorted_methylRaw.RDS", p + ".sorted_CpG.txt"}
}

func segmentFiles(id string, t sample.EndType, _ Wildcards) []string {
	p := methylPrefix(id, t)
	return []string{p + ".sorted_meth_segments.nb.html", p + ".sorted_meth_segments_gr.RDS", p + ".sorted_meth_segments.bed"}
}

func annotationFiles(id string, t sample.EndType, w Wildcards) []string {
	return []string{methylPrefix(id, t) + ".sorted_" + w.Assembly + "_annotation.nb.html"}
}

func finalReportFiles(id string, t sample.EndType, w Wildcards) []string {
	return []string{methylPrefix(id, t) + ".sorted_" + w.Assembly + "_final.nb.html"}
}

func diffMethFiles(c string, _ Wildcards) []string {
	return []string{c + ".sorted_diffmeth.nb.html", c + ".sorted_diffmeth.RDS", c + ".sorted_diffmeth.bed"}
}

func diffMethAnnotationFiles(c string, w Wildcards) []string {
	return []string{c + ".sorted_" + w.Assembly + "_annotation.diff.meth.nb.html"}
}

// methylPrefix is the deduplicated-alignment stem shared by every stage from
// deduplication onward.
func methylPrefix(id string, t sample.EndType) string {
	if t == sample.Paired {
		return id + "_1_val_1_bt2.deduped"
	}
	return id + "_se_bt2.deduped"
}
