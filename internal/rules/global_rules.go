package rules

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/bsseqgrid/internal/stage"
	"github.com/specialistvlad/bsseqgrid/internal/treatment"
)

// genomeLink is the link to the reference genome directory. Genome
// preparation writes its indexes inside it.
var genomeLink = strings.TrimSuffix(stage.GenomeDir, "/")

// genomeEdges returns the sample-independent edges: the genome link, genome
// preparation and the gene annotation fetch.
func (b *Builder) genomeEdges() []*Edge {
	asm := b.wildcards.Assembly
	var edges []*Edge

	if src := b.cfg.Locations.GenomeDir; src != "" {
		edges = append(edges, &Edge{
			Rule:    "link_genome",
			Inputs:  []Port{{Name: "source", Path: src, Ancient: true}},
			Outputs: []Port{{Name: "link", Path: genomeLink}},
			Action:  Link{Source: src, Target: genomeLink},
			Message: "Linking reference genome " + src,
		})
	}

	args := []string{}
	if d := b.toolDir("bowtie2"); d != "" {
		args = append(args, "--path_to_bowtie", d)
	}
	args = append(args, "--bowtie2", "--verbose", stage.GenomeDir)
	edges = append(edges, &Edge{
		Rule:     "bismark_genome_preparation",
		Wildcard: asm,
		Inputs:   []Port{{Name: "genome", Path: genomeLink, Ancient: true}},
		Outputs:  ports("refconvert", stage.GenomeConversionFiles()...),
		Action:   b.command("bismark-genome-preparation", args...),
		Log:      "bismark_genome_preparation_" + asm + ".log",
		Message:  "Converting " + asm + " Genome into Bisulfite analogue",
	})

	bed := stage.RefGenesBED(asm)
	log := path.Dir(bed) + "/fetch_refseq.genes." + asm + ".log"
	edges = append(edges, &Edge{
		Rule:     "fetch_refGene",
		Wildcard: asm,
		Outputs:  []Port{{Name: "refgenes", Path: bed}},
		Action: b.command("Rscript",
			b.scriptsDir()+"fetch_refGene.R",
			log,
			bed,
			asm,
			b.scriptsDir(),
			b.cfg.Locations.GenomeDir,
		),
		Log:     log,
		Message: "Fetching RefSeq genes for Genome assembly: " + asm,
	})
	return edges
}

// comparisonEdges returns differential methylation and its annotation for
// one treatment comparison.
func (b *Builder) comparisonEdges(c treatment.Comparison) ([]*Edge, error) {
	asm := b.wildcards.Assembly
	diff, err := b.namer.ComparisonPaths(stage.DiffMeth, c.ID, b.wildcards)
	if err != nil {
		return nil, err
	}
	annot, err := b.namer.ComparisonPaths(stage.Annotation, c.ID, b.wildcards)
	if err != nil {
		return nil, err
	}

	var rdsFiles, treatments []string
	for _, id := range c.SampleIDs {
		s, ok := b.registry.Get(id)
		if !ok {
			continue
		}
		p, err := b.namer.Paths(stage.MethylCalling, s, b.wildcards)
		if err != nil {
			return nil, err
		}
		rdsFiles = append(rdsFiles, p[1])
		treatments = append(treatments, s.Treatment)
	}

	diffDir := path.Dir(diff[0]) + "/"
	stem := diffDir + c.ID + ".sorted_diffmeth"
	hyper := b.abs(diffDir + c.ID + ".sorted_diffmethhyper.RDS")
	hypo := b.abs(diffDir + c.ID + ".sorted_diffmethhypo.RDS")

	absInputs := make([]string, len(rdsFiles))
	for i, p := range rdsFiles {
		absInputs[i] = b.abs(p)
	}

	diffTemplate := "diffmeth.report.Rmd"
	diffLog := stem + ".log"
	diffEdge := &Edge{
		Rule:     "diffmeth",
		Wildcard: c.ID,
		Inputs: append(
			[]Port{{Name: "template", Path: stage.Template(diffTemplate)}},
			ports("inputfiles", rdsFiles...)...,
		),
		Outputs: []Port{
			{Name: "report", Path: diff[0]},
			{Name: "methylDiff_file", Path: diff[1]},
			{Name: "bedfile", Path: diff[2]},
		},
		Action: b.report(diffTemplate, diff[0], c.ID, diffLog, map[string]any{
			"workdir":               b.workdir,
			"inputfiles":            absInputs,
			"sampleids":             c.SampleIDs,
			"methylDiff_file":       b.abs(diff[1]),
			"methylDiff_hyper_file": hyper,
			"methylDiff_hypo_file":  hypo,
			"outBed":                b.abs(diff[2]),
			"assembly":              asm,
			"treatment":             treatments,
			"mincov":                b.cfg.General.MethylationCalling.MinimumCoverage,
			"context":               "CpG",
			"cores":                 b.cfg.General.DifferentialMethylation.Cores,
			"scripts_dir":           b.scriptsDir(),
		}),
		Log:     diffLog,
		Message: "Calculating differential methylation.",
	}

	annotTemplate := "annotation.report.diff.meth.Rmd"
	annotLog := strings.TrimSuffix(annot[0], ".nb.html") + ".log"
	annotEdge := &Edge{
		Rule:     "annotation_diffmeth",
		Wildcard: c.ID,
		Inputs: []Port{
			{Name: "template", Path: stage.Template(annotTemplate)},
			{Name: "bedfile", Path: diff[2]},
			{Name: "refgenes", Path: stage.RefGenesBED(asm)},
		},
		Outputs: []Port{{Name: "report", Path: annot[0]}},
		Action: b.report(annotTemplate, annot[0], c.ID+"."+asm, annotLog, map[string]any{
			"inBed":                 b.abs(diff[2]),
			"assembly":              asm,
			"methylDiff_file":       b.abs(diff[1]),
			"methylDiff_hyper_file": hyper,
			"methylDiff_hypo_file":  hypo,
			"genome_dir":            b.cfg.Locations.GenomeDir,
			"scripts_dir":           b.scriptsDir(),
		}),
		Log:     annotLog,
		Message: "Annotating differential methylation.",
	}
	return []*Edge{diffEdge, annotEdge}, nil
}

// templateEdges links every report template the other edges read from the
// installed template directory.
func (b *Builder) templateEdges(edges []*Edge) []*Edge {
	seen := make(map[string]bool)
	for _, e := range edges {
		for _, p := range e.InputPaths() {
			if strings.HasPrefix(p, stage.TemplatesDir) {
				seen[p] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for p := range seen {
		names = append(names, p)
	}
	sort.Strings(names)

	src := filepath.Join(b.cfg.Locations.LibexecDir, "report_templates")
	out := make([]*Edge, 0, len(names))
	for _, p := range names {
		name := strings.TrimPrefix(p, stage.TemplatesDir)
		from := filepath.Join(src, name)
		out = append(out, &Edge{
			Rule:     "link_template",
			Wildcard: name,
			Inputs:   []Port{{Name: "source", Path: from, Ancient: true}},
			Outputs:  []Port{{Name: "link", Path: p}},
			Action:   Link{Source: from, Target: p},
			Message:  "Linking report template " + name,
		})
	}
	return out
}
