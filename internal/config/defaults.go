package config

// Defaults returns a model populated with the settings every loader starts
// from before overlaying user configuration.
func Defaults() *Model {
	return &Model{
		General: General{
			MethylationCalling: MethylationCalling{
				MinimumCoverage: 10,
				MinimumQuality:  20,
			},
			DifferentialMethylation: DifferentialMethylation{Cores: 1},
		},
		Locations: Locations{
			OutputDir: ".",
		},
		Tools: map[string]*Tool{
			"fastqc":                     {Executable: "fastqc", Cores: 1},
			"trim-galore":                {Executable: "trim_galore", Cores: 1},
			"cutadapt":                   {Executable: "cutadapt", Cores: 1},
			"bismark":                    {Executable: "bismark", Args: "-N 0 -L 20", Cores: 1},
			"bismark-genome-preparation": {Executable: "bismark_genome_preparation", Cores: 1},
			"bowtie2":                    {Executable: "bowtie2", Cores: 1},
			"samtools":                   {Executable: "samtools", Cores: 1},
			"Rscript":                    {Executable: "Rscript", Args: "--vanilla", Cores: 1},
			"nice":                       {Executable: "nice", Cores: 1},
		},
		Execution: Execution{Jobs: 1},
	}
}

// MergeTool overlays the non-zero fields of t onto the named tool entry.
func (m *Model) MergeTool(name string, t Tool) {
	if m.Tools == nil {
		m.Tools = make(map[string]*Tool)
	}
	cur, ok := m.Tools[name]
	if !ok || cur == nil {
		cur = &Tool{Executable: name, Cores: 1}
		m.Tools[name] = cur
	}
	if t.Executable != "" {
		cur.Executable = t.Executable
	}
	if t.Args != "" {
		cur.Args = t.Args
	}
	if t.Cores > 0 {
		cur.Cores = t.Cores
	}
}
