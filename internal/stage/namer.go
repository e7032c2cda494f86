package stage

import (
	"fmt"

	"github.com/specialistvlad/bsseqgrid/internal/sample"
)

// Namer maps stages and subjects to paths. It holds no mutable state.
type Namer struct {
	catalog *Catalog
}

// NewNamer returns a Namer over the given catalog; nil selects Default.
func NewNamer(c *Catalog) *Namer {
	if c == nil {
		c = Default()
	}
	return &Namer{catalog: c}
}

// Catalog returns the catalog the namer resolves stages against.
func (n *Namer) Catalog() *Catalog {
	return n.catalog
}

// Paths returns the ordered output set of stage for one sample.
func (n *Namer) Paths(name Name, s sample.Sample, w Wildcards) ([]string, error) {
	st, err := n.usable(name, w)
	if err != nil {
		return nil, err
	}
	if st.perSample == nil {
		return nil, &UnsupportedStageError{Stage: name, Reason: "stage has no per-sample outputs"}
	}
	return join(st.Dir, st.perSample(s.ID, s.EndType, w)), nil
}

// PathFor returns the primary output of stage for one sample.
func (n *Namer) PathFor(name Name, s sample.Sample, w Wildcards) (string, error) {
	paths, err := n.Paths(name, s, w)
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// ComparisonPaths returns the ordered output set of stage for one treatment
// comparison identifier.
func (n *Namer) ComparisonPaths(name Name, comparison string, w Wildcards) ([]string, error) {
	st, err := n.usable(name, w)
	if err != nil {
		return nil, err
	}
	if st.perComparison == nil {
		return nil, &UnsupportedStageError{Stage: name, Reason: "stage has no per-comparison outputs"}
	}
	return join(st.Dir, st.perComparison(comparison, w)), nil
}

// Dir returns the output directory of stage.
func (n *Namer) Dir(name Name) (string, error) {
	st, err := n.catalog.Lookup(name)
	if err != nil {
		return "", err
	}
	return st.Dir, nil
}

// Prefix returns the deduplicated-alignment stem of a sample, shared by all
// stages from deduplication onward.
func (n *Namer) Prefix(s sample.Sample) string {
	return methylPrefix(s.ID, s.EndType)
}

// ComparisonSubject is one treatment pair together with the identifier its
// outputs are named by. Distinct pairs may share an identifier.
type ComparisonSubject struct {
	A, B string
	ID   string
}

// CheckCollisions names every per-sample and per-comparison output and fails
// on the first path claimed by two different owners. A comparison is owned by
// its treatment pair, not by its identifier.
func (n *Namer) CheckCollisions(samples []sample.Sample, comparisons []ComparisonSubject, w Wildcards) error {
	owners := make(map[string]string)
	claim := func(paths []string, owner string) error {
		for _, p := range paths {
			if prev, ok := owners[p]; ok && prev != owner {
				return &PathCollisionError{Path: p, First: prev, Second: owner}
			}
			owners[p] = owner
		}
		return nil
	}

	for _, st := range n.catalog.stages {
		if st.NeedsAssembly && w.Assembly == "" {
			continue
		}
		if st.perSample != nil {
			for _, s := range samples {
				owner := fmt.Sprintf("%s/%s", st.Name, s.ID)
				if err := claim(join(st.Dir, st.perSample(s.ID, s.EndType, w)), owner); err != nil {
					return err
				}
			}
		}
		if st.perComparison != nil {
			for _, c := range comparisons {
				owner := fmt.Sprintf("%s/%s vs %s", st.Name, c.A, c.B)
				if err := claim(join(st.Dir, st.perComparison(c.ID, w)), owner); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (n *Namer) usable(name Name, w Wildcards) (Stage, error) {
	st, err := n.catalog.Lookup(name)
	if err != nil {
		return Stage{}, err
	}
	if st.NeedsAssembly && w.Assembly == "" {
		return Stage{}, &MissingWildcardError{Stage: name, Wildcard: "assembly"}
	}
	return st, nil
}

func join(dir string, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = dir + name
	}
	return out
}
