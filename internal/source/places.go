package source

import (
	"fmt"
	"io"

	"github.com/vvka-141/popstat/pkg/popstat"
)

// Places source columns. city and country are required per record;
// county may be absent or empty.
const (
	colCity    = "city"
	colCounty  = "county"
	colCountry = "country"
)

// DecodePlaces reads place records from r in source order. Malformed
// records (empty city or country) are handled per policy: FailFast
// returns ErrMalformedRecord for the first bad row, SkipWithWarning
// logs it and continues. skipped reports how many rows were dropped.
func DecodePlaces(r io.Reader, policy MalformedPolicy, logger popstat.Logger) (records []PlaceRecord, skipped int64, err error) {
	cr := newReader(r)

	h, err := readHeader(cr, colCity, colCountry)
	if err != nil {
		return nil, 0, fmt.Errorf("places: %w", err)
	}

	line := 1 // header consumed
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("places: line %d: %w", line+1, err)
		}
		line++

		rec := PlaceRecord{
			City:    h.field(row, colCity),
			County:  h.field(row, colCounty),
			Country: h.field(row, colCountry),
			Line:    line,
		}

		if badField := validatePlace(rec); badField != "" {
			if policy == FailFast {
				return nil, skipped, fmt.Errorf("places: %w", malformed(line, badField))
			}
			skipped++
			logger.Error("places: skipping line %d: missing required field %q", line, badField)
			continue
		}

		records = append(records, rec)
	}

	return records, skipped, nil
}

func validatePlace(rec PlaceRecord) string {
	if rec.City == "" {
		return colCity
	}
	if rec.Country == "" {
		return colCountry
	}
	return ""
}
