// Package treatment partitions samples by treatment label and validates the
// treatment pairs used for differential methylation.
package treatment

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/specialistvlad/bsseqgrid/internal/sample"
)

// Separator joins two treatment labels into a comparison identifier.
const Separator = "_"

// EmptyGroupError is returned when no sample carries the requested label.
type EmptyGroupError struct {
	Label string
}

// Error implements the error interface for EmptyGroupError.
func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("no sample carries treatment %q", e.Label)
}

// InvalidComparisonError is returned for comparisons naming an unknown label
// or comparing a label with itself.
type InvalidComparisonError struct {
	A, B   string
	Reason string
}

// Error implements the error interface for InvalidComparisonError.
func (e *InvalidComparisonError) Error() string {
	return fmt.Sprintf("invalid comparison %q vs %q: %s", e.A, e.B, e.Reason)
}

// Comparison is a validated pair of treatment groups.
type Comparison struct {
	// ID is the filename stem shared by the comparison's artifacts.
	ID string
	A  string
	B  string
	// SampleIDs lists the members of A followed by the members of B.
	SampleIDs []string
}

// Grouper answers treatment questions about one registry. Groups are
// computed once at construction and never change afterwards.
type Grouper struct {
	groups map[string][]string
}

// New partitions the registry's samples by treatment label, keeping sheet
// order inside each group. Samples without a label belong to no group.
func New(r *sample.Registry) *Grouper {
	g := &Grouper{groups: make(map[string][]string)}
	for _, s := range r.All() {
		if s.Treatment == "" {
			continue
		}
		g.groups[s.Treatment] = append(g.groups[s.Treatment], s.ID)
	}
	return g
}

// Labels returns every treatment label, sorted.
func (g *Grouper) Labels() []string {
	labels := make([]string, 0, len(g.groups))
	for l := range g.groups {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Group returns the ids of the samples carrying label.
func (g *Grouper) Group(label string) ([]string, error) {
	ids, ok := g.groups[label]
	if !ok || len(ids) == 0 {
		return nil, &EmptyGroupError{Label: label}
	}
	return append([]string(nil), ids...), nil
}

// Comparison returns the identifier of the a-versus-b comparison.
func (g *Grouper) Comparison(a, b string) (string, error) {
	c, err := g.Compare(a, b)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// Compare validates the a-versus-b pair and returns it with its members.
func (g *Grouper) Compare(a, b string) (Comparison, error) {
	if a == b {
		return Comparison{}, &InvalidComparisonError{A: a, B: b, Reason: "a treatment cannot be compared with itself"}
	}
	groupA, err := g.Group(a)
	if err != nil {
		return Comparison{}, &InvalidComparisonError{A: a, B: b, Reason: fmt.Sprintf("unknown treatment %q", a)}
	}
	groupB, err := g.Group(b)
	if err != nil {
		return Comparison{}, &InvalidComparisonError{A: a, B: b, Reason: fmt.Sprintf("unknown treatment %q", b)}
	}
	return Comparison{
		ID:        a + Separator + b,
		A:         a,
		B:         b,
		SampleIDs: append(groupA, groupB...),
	}, nil
}

// Comparisons validates every configured pair in order and fails on the
// first invalid one.
func (g *Grouper) Comparisons(pairs []config.Comparison) ([]Comparison, error) {
	out := make([]Comparison, 0, len(pairs))
	for _, p := range pairs {
		c, err := g.Compare(p.A, p.B)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Involves reports whether the comparison includes the given treatment.
func (c Comparison) Involves(label string) bool {
	return label != "" && (c.A == label || c.B == label)
}
