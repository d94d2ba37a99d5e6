// Package source decodes the pipeline's tabular inputs.
//
// Sources are header-addressed CSV files: column order is not
// significant, column presence is. Each decoder validates required
// fields per record and applies the configured malformed-record policy.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/popstat/pkg/popstat"
)

// MalformedPolicy decides what happens when an input row is missing a
// required field.
type MalformedPolicy int

const (
	// FailFast aborts the whole load on the first malformed record.
	// This is the default: a partial load is harder to reason about
	// than a clean failure.
	FailFast MalformedPolicy = iota

	// SkipWithWarning logs and skips malformed records, loading the rest.
	SkipWithWarning
)

// PlaceRecord is one row of the places source.
type PlaceRecord struct {
	City    string
	County  string // optional
	Country string
	Line    int // 1-based source line, for diagnostics
}

// Key returns the record's natural composite key.
func (r PlaceRecord) Key() popstat.PlaceKey {
	return popstat.PlaceKey{City: r.City, County: r.County, Country: r.Country}
}

// PersonRecord is one row of the people source. Birthplace is the
// natural-key reference; a zero key means the row carries no birthplace
// reference at all.
type PersonRecord struct {
	GivenName   string
	FamilyName  string
	DateOfBirth string // optional, opaque text; never parsed or validated
	Birthplace  popstat.PlaceKey
	Line        int
}

// Open opens a source file, mapping a missing file to ErrSourceNotFound.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", popstat.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	return f, nil
}

// header maps lower-cased column names to their positions.
type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, error) {
	row, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("source is empty (missing header row)")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	h := make(header, len(row))
	for i, name := range row {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, fmt.Errorf("source header is missing required column %q", name)
		}
	}

	return h, nil
}

// field returns the trimmed value of a named column, or "" if the
// column is absent from the header or the row is short.
func (h header) field(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	// Rows may legitimately omit trailing optional columns
	cr.FieldsPerRecord = -1
	return cr
}

func malformed(line int, field string) error {
	return fmt.Errorf("%w: line %d: missing required field %q", popstat.ErrMalformedRecord, line, field)
}
