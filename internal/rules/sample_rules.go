package rules

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/specialistvlad/bsseqgrid/internal/sample"
	"github.com/specialistvlad/bsseqgrid/internal/stage"
)

// sampleEdges returns the per-sample chain, from input links to the final
// report.
func (b *Builder) sampleEdges(s sample.Sample) ([]*Edge, error) {
	paths := make(map[stage.Name][]string)
	dirs := make(map[stage.Name]string)
	for _, name := range []stage.Name{
		stage.RawQC, stage.Trimming, stage.PosttrimQC, stage.Mapping, stage.Deduplication,
		stage.Sorting, stage.MethylCalling, stage.Segmentation, stage.Annotation, stage.FinalReport,
	} {
		p, err := b.namer.Paths(name, s, b.wildcards)
		if err != nil {
			return nil, err
		}
		paths[name] = p
		if dirs[name], err = b.namer.Dir(name); err != nil {
			return nil, err
		}
	}

	var edges []*Edge
	links := stage.InputLinks(s)
	edges = append(edges, b.inputLinks(s, links)...)
	edges = append(edges, b.rawQC(dirs[stage.RawQC], links, paths[stage.RawQC])...)
	edges = append(edges,
		b.trim(s, dirs[stage.Trimming], links, paths),
		b.posttrimQC(s, dirs[stage.PosttrimQC], paths),
		b.mapping(s, dirs[stage.Mapping], paths),
		b.deduplication(s, paths),
		b.sortBam(s, paths),
		b.methCall(s, paths),
		b.methSeg(s, paths),
		b.methSegAnnotation(s, paths),
		b.mergeDiffMethReport(s, paths),
		b.finalReport(s, paths),
	)
	return edges, nil
}

func endSuffix(s sample.Sample) string {
	if s.IsPaired() {
		return "_pe"
	}
	return "_se"
}

// inputSource resolves a sample-sheet file name against the input directory.
func (b *Builder) inputSource(file string) string {
	if filepath.IsAbs(file) || b.cfg.Locations.InputDir == "" {
		return file
	}
	return filepath.Join(b.cfg.Locations.InputDir, file)
}

func readStem(link string) string {
	return strings.TrimSuffix(path.Base(link), ".fq.gz")
}

// inputLinks links the sample's raw reads into the input directory. Samples
// declared without read files expect the links to exist already.
func (b *Builder) inputLinks(s sample.Sample, links []string) []*Edge {
	if len(s.Reads) != len(links) {
		return nil
	}
	edges := make([]*Edge, 0, len(links))
	for i, link := range links {
		src := b.inputSource(s.Reads[i])
		edges = append(edges, &Edge{
			Rule:     "link_input" + endSuffix(s),
			Wildcard: readStem(link),
			Inputs:   []Port{{Name: "source", Path: src, Ancient: true}},
			Outputs:  []Port{{Name: "link", Path: link}},
			Action:   Link{Source: src, Target: link},
			Message:  "Linking raw reads " + src,
		})
	}
	return edges
}

// rawQC emits one fastqc edge per raw read file; paired-end samples get one
// for each mate.
func (b *Builder) rawQC(dir string, links, outputs []string) []*Edge {
	edges := make([]*Edge, 0, len(links))
	for i, link := range links {
		stem := readStem(link)
		edges = append(edges, &Edge{
			Rule:     "fastqc_raw",
			Wildcard: stem,
			Inputs:   []Port{{Name: "reads", Path: link}},
			Outputs:  ports("report", outputs[2*i], outputs[2*i+1]),
			Action:   b.command("fastqc", "--outdir", dir, link),
			Log:      dir + stem + "_fastqc.log",
			Message:  "Quality checking raw read data from " + link,
		})
	}
	return edges
}

func (b *Builder) trim(s sample.Sample, dir string, links []string, paths map[stage.Name][]string) *Edge {
	args := []string{
		"--output_dir", dir,
		"--phred33",
		"--gzip",
		"--path_to_cutadapt", b.cfg.Tool("cutadapt").Executable,
	}
	inputs := ports("qc", htmlOnly(paths[stage.RawQC])...)
	inputs = append(inputs, ports("reads", links...)...)
	kind := "single-end"
	if s.IsPaired() {
		args = append(args, "--paired")
		kind = "paired-end"
	}
	args = append(args, links...)

	return &Edge{
		Rule:     "trim_reads" + endSuffix(s),
		Wildcard: s.ID,
		Inputs:   inputs,
		Outputs:  ports("trimmed", paths[stage.Trimming]...),
		Action:   b.command("trim-galore", args...),
		Log:      dir + s.ID + ".trimgalore.log",
		Message:  "Trimming raw " + kind + " read data from " + strings.Join(links, " "),
	}
}

func (b *Builder) posttrimQC(s sample.Sample, dir string, paths map[stage.Name][]string) *Edge {
	trimmed := paths[stage.Trimming]
	kind := "single-end"
	if s.IsPaired() {
		kind = "paired-end"
	}
	return &Edge{
		Rule:     "fastqc_after_trimming" + endSuffix(s),
		Wildcard: s.ID,
		Inputs:   ports("trimmed", trimmed...),
		Outputs:  ports("report", paths[stage.PosttrimQC]...),
		Action:   b.command("fastqc", append([]string{"--outdir", dir}, trimmed...)...),
		Log:      dir + s.ID + "_trimmed_fastqc.log",
		Message:  "Quality checking trimmed " + kind + " data from " + strings.Join(trimmed, " "),
	}
}

func (b *Builder) mapping(s sample.Sample, dir string, paths map[stage.Name][]string) *Edge {
	trimmed := paths[stage.Trimming]

	inputs := ports("refconvert", stage.GenomeConversionFiles()...)
	inputs = append(inputs, ports("reads", trimmed...)...)
	inputs = append(inputs, ports("qc", htmlOnly(paths[stage.PosttrimQC])...)...)

	args := []string{"--genome_folder", stage.GenomeDir, "--output_dir", dir, "--nucleotide_coverage"}
	if d := b.toolDir("bowtie2"); d != "" {
		args = append(args, "--path_to_bowtie", d)
	}
	args = append(args, "--bowtie2")
	if d := b.toolDir("samtools"); d != "" {
		args = append(args, "--samtools_path", d)
	}
	args = append(args, "--temp_dir", dir, "--multicore", strconv.Itoa(b.cores("bismark")))

	kind, logKind := "single-end", "se"
	if s.IsPaired() {
		args = append(args, "-1", trimmed[0], "-2", trimmed[1])
		kind, logKind = "paired-end", "pe"
	} else {
		args = append(args, trimmed[0])
	}

	return &Edge{
		Rule:     "bismark_align_and_map" + endSuffix(s),
		Wildcard: s.ID,
		Inputs:   inputs,
		Outputs:  ports("alignment", paths[stage.Mapping]...),
		Action:   b.command("bismark", args...),
		Log:      dir + s.ID + "_bismark_" + logKind + "_mapping.log",
		Message:  "Mapping " + kind + " reads to genome " + b.wildcards.Assembly,
	}
}

// deduplication keeps the historical split: single-end alignments go through
// samtools rmdup, paired-end ones through samtools fixmate.
func (b *Builder) deduplication(s sample.Sample, paths map[stage.Name][]string) *Edge {
	in := paths[stage.Mapping][0]
	out := paths[stage.Deduplication][0]
	sub, kind := "rmdup", "single-end"
	if s.IsPaired() {
		sub, kind = "fixmate", "paired-end"
	}
	return &Edge{
		Rule:     "deduplication" + endSuffix(s),
		Wildcard: s.ID,
		Inputs:   []Port{{Name: "bam", Path: in}},
		Outputs:  []Port{{Name: "deduped", Path: out}},
		Action:   b.command("samtools", sub, in, out),
		Log:      path.Dir(out) + "/" + s.ID + "_deduplication.log",
		Message:  "Deduplicating " + kind + " aligned reads from " + in,
	}
}

func (b *Builder) sortBam(s sample.Sample, paths map[stage.Name][]string) *Edge {
	in := paths[stage.Deduplication][0]
	out := paths[stage.Sorting][0]
	return &Edge{
		Rule:     "sortbam" + endSuffix(s),
		Wildcard: s.ID,
		Inputs:   []Port{{Name: "bam", Path: in}},
		Outputs:  []Port{{Name: "sorted", Path: out}},
		Action:   b.command("samtools", "sort", in, "-o", out),
		Message:  "Sorting bam file " + in,
	}
}

func (b *Builder) methCall(s sample.Sample, paths map[stage.Name][]string) *Edge {
	prefix := b.namer.Prefix(s)
	bam := paths[stage.Sorting][0]
	out := paths[stage.MethylCalling]
	template := "methCall.report.Rmd"
	log := path.Dir(out[0]) + "/" + prefix + ".sorted_meth_calls.log"

	mc := b.cfg.General.MethylationCalling
	params := map[string]any{
		"inBam":    b.abs(bam),
		"assembly": b.wildcards.Assembly,
		"mincov":   mc.MinimumCoverage,
		"minqual":  mc.MinimumQuality,
		"rds":      b.abs(out[1]),
	}
	return &Edge{
		Rule:     "bam_methCall",
		Wildcard: prefix,
		Inputs:   []Port{{Name: "template", Path: stage.Template(template)}, {Name: "bamfile", Path: bam}},
		Outputs: []Port{
			{Name: "report", Path: out[0]},
			{Name: "rdsfile", Path: out[1]},
			{Name: "callFile", Path: out[2]},
		},
		Action:  b.report(template, out[0], prefix, log, params),
		Log:     log,
		Message: "Extract methylation calls from bam file.",
	}
}

func (b *Builder) methSeg(s sample.Sample, paths map[stage.Name][]string) *Edge {
	prefix := b.namer.Prefix(s)
	rds := paths[stage.MethylCalling][1]
	out := paths[stage.Segmentation]
	template := "methseg.report.Rmd"
	log := path.Dir(out[0]) + "/" + prefix + ".sorted_meth_segments.log"

	params := map[string]any{
		"rds":    b.abs(rds),
		"grds":   b.abs(out[1]),
		"outBed": b.abs(out[2]),
	}
	return &Edge{
		Rule:     "methseg",
		Wildcard: prefix,
		Inputs:   []Port{{Name: "template", Path: stage.Template(template)}, {Name: "rdsfile", Path: rds}},
		Outputs: []Port{
			{Name: "report", Path: out[0]},
			{Name: "grfile", Path: out[1]},
			{Name: "bedfile", Path: out[2]},
		},
		Action:  b.report(template, out[0], prefix, log, params),
		Log:     log,
		Message: "Segmenting methylation profile for " + rds + ".",
	}
}

func (b *Builder) methSegAnnotation(s sample.Sample, paths map[stage.Name][]string) *Edge {
	prefix := b.namer.Prefix(s)
	asm := b.wildcards.Assembly
	bed := paths[stage.Segmentation][2]
	out := paths[stage.Annotation][0]
	template := "annotation.report.Rmd"
	log := path.Dir(out) + "/" + prefix + ".sorted_" + asm + "_annotation.log"

	params := map[string]any{
		"inBed":       b.abs(bed),
		"genome_dir":  b.cfg.Locations.GenomeDir,
		"scripts_dir": b.scriptsDir(),
		"assembly":    asm,
	}
	return &Edge{
		Rule:     "methseg_annotation",
		Wildcard: prefix,
		Inputs: []Port{
			{Name: "template", Path: stage.Template(template)},
			{Name: "bedfile", Path: bed},
			{Name: "refgenes", Path: stage.RefGenesBED(asm)},
		},
		Outputs: []Port{{Name: "report", Path: out}},
		Action:  b.report(template, out, prefix, log, params),
		Log:     log,
		Message: "Generating annotation of segments for " + bed + ".",
	}
}

// diffMethAnnotationsFor lists the diff-meth annotation reports of every
// comparison involving the sample's treatment.
func (b *Builder) diffMethAnnotationsFor(s sample.Sample) []string {
	var out []string
	if s.Treatment == "" {
		return out
	}
	for _, c := range b.comparisons {
		if !c.Involves(s.Treatment) {
			continue
		}
		paths, err := b.namer.ComparisonPaths(stage.Annotation, c.ID, b.wildcards)
		if err != nil {
			continue
		}
		out = append(out, paths...)
	}
	return out
}

func (b *Builder) mergeDiffMethReport(s sample.Sample, paths map[stage.Name][]string) *Edge {
	prefix := b.namer.Prefix(s)
	asm := b.wildcards.Assembly
	marker := stage.MergeMarker(s, asm)
	finalDir := path.Dir(marker) + "/"
	diff := b.diffMethAnnotationsFor(s)

	inputs := ports("diffmeth", diff...)
	inputs = append(inputs, ports("methseg_annotation", paths[stage.Annotation]...)...)

	args := append([]string{b.scriptsDir() + "integrate2finalreport.R", prefix, asm, finalDir}, diff...)
	line := b.command("Rscript", args...).Line + " && touch " + shellquote.Join(marker)

	return &Edge{
		Rule:     "merge_diffmeth_report",
		Wildcard: prefix,
		Inputs:   inputs,
		Outputs:  []Port{{Name: "marker", Path: marker}},
		Action:   Command{Line: line},
		Log:      finalDir + prefix + "_" + asm + "_merge_diffmeth_report.log",
		Message:  "Merging differential methylation report.",
	}
}

func (b *Builder) finalReport(s sample.Sample, paths map[stage.Name][]string) *Edge {
	prefix := b.namer.Prefix(s)
	asm := b.wildcards.Assembly
	out := paths[stage.FinalReport][0]
	dir := path.Dir(out) + "/"
	log := dir + prefix + ".sorted_" + asm + "_final.log"
	index := stage.Template("index.Rmd")
	references := stage.Template("references.Rmd")
	sessioninfo := stage.Template("sessioninfo.Rmd")

	return &Edge{
		Rule:     "final_report",
		Wildcard: prefix,
		Inputs: []Port{
			{Name: "marker", Path: stage.MergeMarker(s, asm)},
			{Name: "index", Path: index},
			{Name: "references", Path: references},
			{Name: "sessioninfo", Path: sessioninfo},
		},
		Outputs: []Port{{Name: "finalreport", Path: out}},
		Action: b.command("Rscript",
			b.scriptsDir()+"generate_multireport.R",
			"--scriptsDir="+b.scriptsDir(),
			"--index="+index,
			"--finalOutput="+out,
			"--finalReportDir="+dir+prefix+"/",
			"--references="+references,
			"--sessioninfo="+sessioninfo,
			"--logFile="+log,
		),
		Log:     log,
		Message: "Compiling Final Report:\n   report    : " + out,
	}
}

func (b *Builder) cores(tool string) int {
	if c := b.cfg.Tool(tool).Cores; c > 0 {
		return c
	}
	return 1
}

func htmlOnly(paths []string) []string {
	var out []string
	for _, p := range paths {
		if strings.HasSuffix(p, ".html") {
			out = append(out, p)
		}
	}
	return out
}
