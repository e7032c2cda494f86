package target

import (
	"github.com/specialistvlad/bsseqgrid/internal/stage"
)

func (helpTarget) resolve(*Resolver) (OutputSet, error) {
	return NewOutputSet(), nil
}

func (genomeTarget) resolve(*Resolver) (OutputSet, error) {
	return NewOutputSet(stage.GenomeConversionFiles()...), nil
}

func (t sampleStageTarget) resolve(r *Resolver) (OutputSet, error) {
	out := NewOutputSet()
	for _, s := range r.registry.All() {
		paths, err := r.namer.Paths(t.stage, s, r.wildcards)
		if err != nil {
			return nil, err
		}
		out.Add(paths...)
	}
	return out, nil
}

func (t comparisonStageTarget) resolve(r *Resolver) (OutputSet, error) {
	out := NewOutputSet()
	comparisons, err := r.comparisons()
	if err != nil {
		return nil, err
	}
	for _, c := range comparisons {
		paths, err := r.namer.ComparisonPaths(t.stage, c.ID, r.wildcards)
		if err != nil {
			return nil, err
		}
		out.Add(paths...)
	}
	return out, nil
}

func (finalReportTarget) resolve(r *Resolver) (OutputSet, error) {
	out := NewOutputSet()

	chain, err := r.namer.Catalog().Chain(stage.FinalReport)
	if err != nil {
		return nil, err
	}
	for _, s := range r.registry.All() {
		for _, st := range chain {
			paths, err := r.namer.Paths(st.Name, s, r.wildcards)
			if err != nil {
				return nil, err
			}
			out.Add(paths...)
		}
		out.Add(stage.MergeMarker(s, r.wildcards.Assembly))
	}

	for _, name := range []Name{DiffMeth, DiffMethAnnotation} {
		t, _ := lookup(name)
		paths, err := t.resolve(r)
		if err != nil {
			return nil, err
		}
		out.Union(paths)
	}
	return out, nil
}
