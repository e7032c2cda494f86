package target

import (
	"fmt"
	"io"
	"sort"

	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/specialistvlad/bsseqgrid/internal/sample"
	"github.com/specialistvlad/bsseqgrid/internal/stage"
	"github.com/specialistvlad/bsseqgrid/internal/treatment"
)

// Resolver expands target names into output sets for one run.
type Resolver struct {
	registry  *sample.Registry
	grouper   *treatment.Grouper
	namer     *stage.Namer
	pairs     []config.Comparison
	wildcards stage.Wildcards
}

// NewResolver wires a resolver and verifies that no two subjects of the run
// share an output path.
func NewResolver(
	reg *sample.Registry,
	grouper *treatment.Grouper,
	namer *stage.Namer,
	pairs []config.Comparison,
	wildcards stage.Wildcards,
) (*Resolver, error) {
	subjects := make([]stage.ComparisonSubject, 0, len(pairs))
	for _, p := range pairs {
		subjects = append(subjects, stage.ComparisonSubject{A: p.A, B: p.B, ID: p.A + treatment.Separator + p.B})
	}
	if err := namer.CheckCollisions(reg.All(), subjects, wildcards); err != nil {
		return nil, err
	}
	return &Resolver{
		registry:  reg,
		grouper:   grouper,
		namer:     namer,
		pairs:     append([]config.Comparison(nil), pairs...),
		wildcards: wildcards,
	}, nil
}

// Resolve returns the output set of a single target.
func (r *Resolver) Resolve(name string) (OutputSet, error) {
	t, err := lookup(Name(name))
	if err != nil {
		return nil, err
	}
	return t.resolve(r)
}

// ResolveAll unions the output sets of every named target. An empty list
// selects the default target.
func (r *Resolver) ResolveAll(names []string) (OutputSet, error) {
	if len(names) == 0 {
		names = []string{string(Default)}
	}
	out := NewOutputSet()
	for _, name := range names {
		set, err := r.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("resolving target %q: %w", name, err)
		}
		out.Union(set)
	}
	return out, nil
}

// Comparisons returns the configured comparisons, validated against the
// treatment groups. With no samples there is nothing to compare, so the
// result is empty rather than an error.
func (r *Resolver) Comparisons() ([]treatment.Comparison, error) {
	return r.comparisons()
}

func (r *Resolver) comparisons() ([]treatment.Comparison, error) {
	if r.registry.Len() == 0 {
		return nil, nil
	}
	return r.grouper.Comparisons(r.pairs)
}

// All returns the vocabulary sorted by name.
func All() []Target {
	out := append([]Target(nil), vocabulary...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Lookup returns the named target.
func Lookup(name string) (Target, error) {
	return lookup(Name(name))
}

// WriteHelp writes every target name with its description, sorted by name.
func WriteHelp(w io.Writer) error {
	for _, t := range All() {
		if _, err := fmt.Fprintf(w, "%s:\n  %s\n", t.Name(), t.Description()); err != nil {
			return err
		}
	}
	return nil
}

// IsHelpOnly reports whether names selects nothing but the help target.
func IsHelpOnly(names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range names {
		if Name(n) != Help {
			return false
		}
	}
	return true
}

func lookup(name Name) (Target, error) {
	for _, t := range vocabulary {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, &UnknownTargetError{Name: string(name)}
}
