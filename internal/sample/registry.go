package sample

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/bsseqgrid/internal/config"
)

// Options tunes registry validation.
type Options struct {
	// RequireTreatment rejects samples without a treatment label. It is set
	// when differential-methylation comparisons are configured.
	RequireTreatment bool
}

// Registry is the immutable, ordered set of samples of one run. It is safe
// for concurrent use because nothing mutates it after Build returns.
type Registry struct {
	samples []Sample
	byID    map[string]int
}

// Build validates rows and constructs a Registry in sheet order.
func Build(rows []*config.SampleRow, opts Options) (*Registry, error) {
	r := &Registry{
		samples: make([]Sample, 0, len(rows)),
		byID:    make(map[string]int, len(rows)),
	}

	for i, row := range rows {
		if row == nil || row.ID == "" {
			return nil, config.Errorf(fmt.Sprintf("samples[%d].id", i), "must not be empty")
		}
		field := fmt.Sprintf("sample[%s]", row.ID)

		if _, dup := r.byID[row.ID]; dup {
			return nil, config.Errorf(field+".id", "duplicate sample id")
		}

		endType, err := endTypeOf(row)
		if err != nil {
			return nil, &config.ConfigError{Field: field + ".end_type", Reason: "invalid end type", Err: err}
		}

		if opts.RequireTreatment && row.Treatment == "" {
			return nil, config.Errorf(field+".treatment", "a treatment label is required when comparisons are configured")
		}

		if len(row.Files) > 0 {
			want := 1
			if endType == Paired {
				want = 2
			}
			if len(row.Files) != want {
				return nil, config.Errorf(field+".files", "%s samples need %d read files, got %d", endType, want, len(row.Files))
			}
		}

		r.byID[row.ID] = len(r.samples)
		r.samples = append(r.samples, Sample{
			ID:        row.ID,
			EndType:   endType,
			Treatment: row.Treatment,
			Protocol:  row.Protocol,
			Reads:     append([]string(nil), row.Files...),
		})
	}
	return r, nil
}

// All returns every sample in sheet order.
func (r *Registry) All() []Sample {
	out := make([]Sample, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.clone()
	}
	return out
}

// Len returns the number of samples.
func (r *Registry) Len() int {
	return len(r.samples)
}

// ByEndType returns the samples of the given end type in sheet order.
func (r *Registry) ByEndType(t EndType) []Sample {
	var out []Sample
	for _, s := range r.samples {
		if s.EndType == t {
			out = append(out, s.clone())
		}
	}
	return out
}

// Get looks up a sample by id.
func (r *Registry) Get(id string) (Sample, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Sample{}, false
	}
	return r.samples[i].clone(), true
}

// endTypeOf parses the row's end type. A row without one is single-end with
// one read file and paired-end with two.
func endTypeOf(row *config.SampleRow) (EndType, error) {
	if strings.TrimSpace(row.EndType) != "" {
		return ParseEndType(row.EndType)
	}
	switch len(row.Files) {
	case 1:
		return Single, nil
	case 2:
		return Paired, nil
	default:
		return 0, fmt.Errorf("no end type given and %d read files do not imply one", len(row.Files))
	}
}

// TreatmentOf returns the treatment label of the sample with the given id.
func (r *Registry) TreatmentOf(id string) (string, error) {
	s, ok := r.Get(id)
	if !ok {
		return "", fmt.Errorf("unknown sample %q", id)
	}
	return s.Treatment, nil
}
