package config

import "fmt"

// Validate checks the settings every downstream component relies on. Sample
// semantics (end types, duplicates) are checked by the sample registry.
func (m *Model) Validate() error {
	if m.General.Assembly == "" {
		return Errorf("general.assembly", "must not be empty")
	}
	if m.General.MethylationCalling.MinimumCoverage < 0 {
		return Errorf("general.methylation_calling.minimum_coverage", "must not be negative, got %d", m.General.MethylationCalling.MinimumCoverage)
	}
	if m.General.MethylationCalling.MinimumQuality < 0 {
		return Errorf("general.methylation_calling.minimum_quality", "must not be negative, got %d", m.General.MethylationCalling.MinimumQuality)
	}
	if m.Execution.Jobs < 1 {
		return Errorf("execution.jobs", "must be at least 1, got %d", m.Execution.Jobs)
	}
	if m.Execution.Nice < 0 || m.Execution.Nice > 19 {
		return Errorf("execution.nice", "must be between 0 and 19, got %d", m.Execution.Nice)
	}
	for i, row := range m.Samples {
		if row == nil || row.ID == "" {
			return Errorf(fmt.Sprintf("samples[%d].id", i), "must not be empty")
		}
	}
	seen := make(map[Comparison]int, len(m.Comparisons))
	for i, c := range m.Comparisons {
		field := fmt.Sprintf("comparisons[%d]", i)
		if c.A == "" || c.B == "" {
			return Errorf(field, "both treatment labels are required")
		}
		if first, dup := seen[c]; dup {
			return Errorf(field, "duplicates comparisons[%d] (%s vs %s)", first, c.A, c.B)
		}
		seen[c] = i
	}
	return nil
}

// ComparisonFromList converts a loader's raw label list into a Comparison.
func ComparisonFromList(field string, labels []string) (Comparison, error) {
	if len(labels) != 2 {
		return Comparison{}, Errorf(field, "a comparison names exactly two treatments, got %d", len(labels))
	}
	return Comparison{A: labels[0], B: labels[1]}, nil
}
