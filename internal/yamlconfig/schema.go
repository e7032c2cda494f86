package yamlconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// settingsFile models a settings.yaml file. Pointer fields distinguish
// "not set" from zero so later files only override what they name.
type settingsFile struct {
	Locations *locations          `yaml:"locations"`
	General   *general            `yaml:"general"`
	Execution *execution          `yaml:"execution"`
	Tools     map[string]toolSpec `yaml:"tools"`
	Samples   sampleMap           `yaml:"SAMPLES"`
	DiffMeth  [][]string          `yaml:"DIFF_METH"`
}

type locations struct {
	OutputDir     *string `yaml:"output-dir"`
	InputDir      *string `yaml:"input-dir"`
	GenomeDir     *string `yaml:"genome-dir"`
	PkgLibexecDir *string `yaml:"pkglibexecdir"`
	SampleSheet   *string `yaml:"sample-sheet"`
}

type general struct {
	Assembly                *string                  `yaml:"assembly"`
	MethylationCalling      *methylationCalling      `yaml:"methylation-calling"`
	DifferentialMethylation *differentialMethylation `yaml:"differential-methylation"`
}

type methylationCalling struct {
	MinimumCoverage *int `yaml:"minimum-coverage"`
	MinimumQuality  *int `yaml:"minimum-quality"`
}

type differentialMethylation struct {
	Cores *int `yaml:"cores"`
}

type execution struct {
	Target targetList `yaml:"target"`
	Jobs   *int       `yaml:"jobs"`
	Nice   *int       `yaml:"nice"`
}

type toolSpec struct {
	Executable string `yaml:"executable"`
	Args       string `yaml:"args"`
	Cores      int    `yaml:"cores"`
}

type sampleSpec struct {
	Files     []string `yaml:"files"`
	EndType   string   `yaml:"end-type"`
	Treatment string   `yaml:"Treatment"`
	Protocol  string   `yaml:"Protocol"`
}

// targetList accepts a single target name or a list of names.
type targetList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *targetList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		if single == "" {
			*t = nil
			return nil
		}
		*t = targetList{single}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	default:
		return fmt.Errorf("line %d: target must be a name or a list of names", value.Line)
	}
}

// sampleEntry is one SAMPLES entry with its key.
type sampleEntry struct {
	ID   string
	Spec sampleSpec
}

// sampleMap keeps SAMPLES entries in document order.
type sampleMap []sampleEntry

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *sampleMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: SAMPLES must be a mapping of sample id to settings", value.Line)
	}
	out := make(sampleMap, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, body := value.Content[i], value.Content[i+1]
		var spec sampleSpec
		if err := body.Decode(&spec); err != nil {
			return fmt.Errorf("sample %q: %w", key.Value, err)
		}
		out = append(out, sampleEntry{ID: key.Value, Spec: spec})
	}
	*s = out
	return nil
}
