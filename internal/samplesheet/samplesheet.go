// Package samplesheet reads the CSV sample sheet that accompanies a pipeline
// configuration. The sheet has a header row naming at least the Read,
// SampleID and Treatment columns; Read2, Protocol and EndType are optional.
package samplesheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/bsseqgrid/internal/config"
)

// Column names, matched case-insensitively.
const (
	ColRead      = "read"
	ColRead2     = "read2"
	ColSampleID  = "sampleid"
	ColProtocol  = "protocol"
	ColTreatment = "treatment"
	ColEndType   = "endtype"
)

var requiredColumns = []string{ColRead, ColSampleID, ColTreatment}

// ParseFile opens path and parses it as a sample sheet.
func ParseFile(path string) ([]*config.SampleRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &config.ConfigError{Field: "sample_sheet", Reason: "cannot open " + path, Err: err}
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("sample sheet %s: %w", path, err)
	}
	return rows, nil
}

// Parse reads sample rows from r. When no EndType column is present the end
// type is derived from whether Read2 is filled in.
func Parse(r io.Reader) ([]*config.SampleRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, config.Errorf("sample_sheet", "file is empty")
		}
		return nil, &config.ConfigError{Field: "sample_sheet", Reason: "cannot read header", Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, config.Errorf("sample_sheet", "missing required column %q", col)
		}
	}

	field := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []*config.SampleRow
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &config.ConfigError{Field: "sample_sheet", Reason: "malformed record", Err: err}
		}
		line, _ := reader.FieldPos(0)

		row := &config.SampleRow{
			ID:        field(rec, ColSampleID),
			Treatment: field(rec, ColTreatment),
			Protocol:  field(rec, ColProtocol),
			EndType:   field(rec, ColEndType),
		}
		if row.ID == "" {
			return nil, config.Errorf(fmt.Sprintf("sample_sheet line %d", line), "SampleID is empty")
		}
		read1, read2 := field(rec, ColRead), field(rec, ColRead2)
		if read1 == "" {
			return nil, config.Errorf(fmt.Sprintf("sample_sheet line %d", line), "Read is empty for sample %q", row.ID)
		}
		row.Files = append(row.Files, read1)
		if read2 != "" {
			row.Files = append(row.Files, read2)
		}
		if row.EndType == "" {
			row.EndType = "single"
			if read2 != "" {
				row.EndType = "paired"
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Attach reads the sample sheet referenced by m, if any, and appends its
// rows to the samples declared inline. A relative sheet path is resolved
// against baseDir.
func Attach(m *config.Model, baseDir string) error {
	if m.SampleSheet == "" {
		return nil
	}
	p := m.SampleSheet
	if !filepath.IsAbs(p) && baseDir != "" {
		p = filepath.Join(baseDir, p)
	}
	rows, err := ParseFile(p)
	if err != nil {
		return err
	}
	m.SampleSheet = p
	m.Samples = append(m.Samples, rows...)
	return nil
}
