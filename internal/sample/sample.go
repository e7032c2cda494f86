// Package sample turns sample-sheet rows into an immutable registry of typed
// sample records.
package sample

import (
	"fmt"
	"strings"
)

// EndType tells whether a sample was sequenced as single reads or read pairs.
type EndType int

const (
	// Single marks single-end reads.
	Single EndType = iota + 1
	// Paired marks paired-end reads.
	Paired
)

// String returns the canonical spelling of the end type.
func (t EndType) String() string {
	switch t {
	case Single:
		return "SINGLE"
	case Paired:
		return "PAIRED"
	default:
		return fmt.Sprintf("EndType(%d)", int(t))
	}
}

// ParseEndType accepts the spellings used by sample sheets and configs.
func ParseEndType(s string) (EndType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "se", "single-end", "single_end":
		return Single, nil
	case "paired", "pe", "paired-end", "paired_end":
		return Paired, nil
	default:
		return 0, fmt.Errorf("unrecognized end type %q: must be SINGLE or PAIRED", s)
	}
}

// Sample is one sequenced sample. Values are never modified after the
// registry is built.
type Sample struct {
	ID        string
	EndType   EndType
	Treatment string
	Protocol  string
	// Reads are the raw read file names as listed in the sample sheet.
	Reads []string
}

// clone returns a copy that shares no slices with s.
func (s Sample) clone() Sample {
	s.Reads = append([]string(nil), s.Reads...)
	return s
}

// IsPaired reports whether the sample has paired-end reads.
func (s Sample) IsPaired() bool {
	return s.EndType == Paired
}
