package hclconfig

// fileRoot decodes all possible top-level blocks from any file. Unknown
// blocks and attributes are decode errors.
type fileRoot struct {
	General     *generalBlock      `hcl:"general,block"`
	Locations   *locationsBlock    `hcl:"locations,block"`
	Execution   *executionBlock    `hcl:"execution,block"`
	SampleSheet *sampleSheetBlock  `hcl:"sample_sheet,block"`
	Tools       []*toolBlock       `hcl:"tool,block"`
	Samples     []*sampleBlock     `hcl:"sample,block"`
	Comparisons []*comparisonBlock `hcl:"comparison,block"`
}

type generalBlock struct {
	Assembly                *string                  `hcl:"assembly,optional"`
	MethylationCalling      *methylationCallingBlock `hcl:"methylation_calling,block"`
	DifferentialMethylation *diffMethBlock           `hcl:"differential_methylation,block"`
}

type methylationCallingBlock struct {
	MinimumCoverage *int `hcl:"minimum_coverage,optional"`
	MinimumQuality  *int `hcl:"minimum_quality,optional"`
}

type diffMethBlock struct {
	Cores *int `hcl:"cores,optional"`
}

type locationsBlock struct {
	OutputDir  *string `hcl:"output_dir,optional"`
	InputDir   *string `hcl:"input_dir,optional"`
	GenomeDir  *string `hcl:"genome_dir,optional"`
	LibexecDir *string `hcl:"libexec_dir,optional"`
}

type executionBlock struct {
	Targets []string `hcl:"targets,optional"`
	Jobs    *int     `hcl:"jobs,optional"`
	Nice    *int     `hcl:"nice,optional"`
}

type sampleSheetBlock struct {
	Path string `hcl:"path"`
}

type toolBlock struct {
	Name       string `hcl:"name,label"`
	Executable string `hcl:"executable,optional"`
	Args       string `hcl:"args,optional"`
	Cores      int    `hcl:"cores,optional"`
}

type sampleBlock struct {
	ID        string   `hcl:"id,label"`
	Files     []string `hcl:"files,optional"`
	EndType   string   `hcl:"end_type,optional"`
	Treatment string   `hcl:"treatment,optional"`
	Protocol  string   `hcl:"protocol,optional"`
}

type comparisonBlock struct {
	Treatments []string `hcl:"treatments"`
}
