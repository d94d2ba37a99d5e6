package source

import (
	"fmt"
	"io"

	"github.com/vvka-141/popstat/pkg/popstat"
)

// People source columns. given_name and family_name are required;
// date_of_birth is opaque optional text; the birth_* triple is the
// optional birthplace reference in natural-key terms.
const (
	colGivenName    = "given_name"
	colFamilyName   = "family_name"
	colDateOfBirth  = "date_of_birth"
	colBirthCity    = "birth_city"
	colBirthCounty  = "birth_county"
	colBirthCountry = "birth_country"
)

// DecodePeople reads person records from r in source order, applying the
// malformed-record policy to rows missing a required name field. An
// absent or partial birthplace reference is NOT malformed; resolution
// happens later and failure to resolve is recorded, not rejected.
func DecodePeople(r io.Reader, policy MalformedPolicy, logger popstat.Logger) (records []PersonRecord, skipped int64, err error) {
	cr := newReader(r)

	h, err := readHeader(cr, colGivenName, colFamilyName)
	if err != nil {
		return nil, 0, fmt.Errorf("people: %w", err)
	}

	line := 1 // header consumed
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("people: line %d: %w", line+1, err)
		}
		line++

		rec := PersonRecord{
			GivenName:   h.field(row, colGivenName),
			FamilyName:  h.field(row, colFamilyName),
			DateOfBirth: h.field(row, colDateOfBirth),
			Birthplace: popstat.PlaceKey{
				City:    h.field(row, colBirthCity),
				County:  h.field(row, colBirthCounty),
				Country: h.field(row, colBirthCountry),
			},
			Line: line,
		}

		if badField := validatePerson(rec); badField != "" {
			if policy == FailFast {
				return nil, skipped, fmt.Errorf("people: %w", malformed(line, badField))
			}
			skipped++
			logger.Error("people: skipping line %d: missing required field %q", line, badField)
			continue
		}

		records = append(records, rec)
	}

	return records, skipped, nil
}

func validatePerson(rec PersonRecord) string {
	if rec.GivenName == "" {
		return colGivenName
	}
	if rec.FamilyName == "" {
		return colFamilyName
	}
	return ""
}
