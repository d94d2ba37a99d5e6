package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/popstat/internal/logging"
	"github.com/vvka-141/popstat/pkg/popstat"
)

func TestDecodePeople_ValidRecords(t *testing.T) {
	input := `given_name,family_name,date_of_birth,birth_city,birth_county,birth_country
Aileen,Boyd,1987-04-02,Edinburgh,Midlothian,Scotland
Rory,Millar,,,,
`
	records, skipped, err := DecodePeople(strings.NewReader(input), FailFast, logging.NewNullLogger())
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 2)

	assert.Equal(t, "Aileen", records[0].GivenName)
	assert.Equal(t, "Boyd", records[0].FamilyName)
	assert.Equal(t, "1987-04-02", records[0].DateOfBirth)
	assert.Equal(t, popstat.PlaceKey{City: "Edinburgh", County: "Midlothian", Country: "Scotland"}, records[0].Birthplace)

	// No birthplace reference at all
	assert.True(t, records[1].Birthplace.IsZero())
	assert.Empty(t, records[1].DateOfBirth)
}

func TestDecodePeople_DateOfBirthIsOpaque(t *testing.T) {
	// The pipeline never parses or validates date shape
	input := `given_name,family_name,date_of_birth
Morag,Hughes,sometime in spring
`
	records, _, err := DecodePeople(strings.NewReader(input), FailFast, logging.NewNullLogger())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sometime in spring", records[0].DateOfBirth)
}

func TestDecodePeople_PartialBirthplaceIsNotMalformed(t *testing.T) {
	input := `given_name,family_name,birth_city,birth_country
Ewan,Ross,Inverness,
`
	records, skipped, err := DecodePeople(strings.NewReader(input), FailFast, logging.NewNullLogger())
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 1)
	assert.False(t, records[0].Birthplace.IsZero())
	assert.Equal(t, "Inverness", records[0].Birthplace.City)
}

func TestDecodePeople_FailFastOnMissingName(t *testing.T) {
	input := `given_name,family_name
Aileen,
`
	_, _, err := DecodePeople(strings.NewReader(input), FailFast, logging.NewNullLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, popstat.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "family_name")
}

func TestDecodePeople_SkipWithWarning(t *testing.T) {
	input := `given_name,family_name
Aileen,Boyd
,Missing
Rory,Millar
`
	records, skipped, err := DecodePeople(strings.NewReader(input), SkipWithWarning, logging.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, int64(1), skipped)
	assert.Len(t, records, 2)
}

func TestDecodePeople_MissingRequiredColumn(t *testing.T) {
	input := `given_name,date_of_birth
Aileen,1987-04-02
`
	_, _, err := DecodePeople(strings.NewReader(input), FailFast, logging.NewNullLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "family_name")
}
