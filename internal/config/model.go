package config

// Model is the unified, format-agnostic representation of a pipeline run
// configuration: reference genome, tool settings, samples and comparisons.
type Model struct {
	General   General
	Locations Locations
	Tools     map[string]*Tool
	Execution Execution

	// Samples holds one row per sample, either declared inline or read from
	// the sample sheet referenced by SampleSheet.
	Samples     []*SampleRow
	SampleSheet string

	// Comparisons lists the treatment pairs for differential methylation.
	Comparisons []Comparison
}

// General holds genome and statistics settings.
type General struct {
	Assembly                string
	MethylationCalling      MethylationCalling
	DifferentialMethylation DifferentialMethylation
}

// MethylationCalling holds the coverage and quality thresholds passed to the
// methylation caller.
type MethylationCalling struct {
	MinimumCoverage int
	MinimumQuality  int
}

// DifferentialMethylation holds settings for comparative analysis.
type DifferentialMethylation struct {
	Cores int
}

// Locations are the directories the pipeline reads from and writes into.
type Locations struct {
	// OutputDir is the working directory; every stage path is relative to it.
	OutputDir string
	// InputDir holds the raw read files named in the sample sheet.
	InputDir string
	// GenomeDir holds the reference genome FASTA files.
	GenomeDir string
	// LibexecDir holds the pipeline's helper scripts (scripts/ subdirectory).
	LibexecDir string
}

// Tool is the invocation setting for one external program.
type Tool struct {
	Executable string
	Args       string
	Cores      int
}

// Execution holds the user's run selection.
type Execution struct {
	// Targets are the requested target names; empty means final-report.
	Targets []string
	// Jobs is the number of rule edges the executor runs concurrently.
	Jobs int
	// Nice, when positive, runs every external command under nice -n.
	Nice int
}

// SampleRow is one unvalidated sample-sheet record.
type SampleRow struct {
	ID        string
	EndType   string
	Treatment string
	Protocol  string
	// Files are the raw read file names, relative to Locations.InputDir.
	// Paired-end samples list both mates.
	Files []string
}

// Comparison is a requested differential-methylation treatment pair.
type Comparison struct {
	A string
	B string
}

// Tool returns the settings for the named tool, falling back to a bare
// invocation of the name itself.
func (m *Model) Tool(name string) *Tool {
	if t, ok := m.Tools[name]; ok && t != nil {
		return t
	}
	return &Tool{Executable: name, Cores: 1}
}

// HasComparisons reports whether any differential-methylation pair is configured.
func (m *Model) HasComparisons() bool {
	return len(m.Comparisons) > 0
}
