package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/popstat/internal/pipeline"
	"github.com/vvka-141/popstat/pkg/popstat"
)

func TestDirectory_ResolveHitAndMiss(t *testing.T) {
	dir := pipeline.NewDirectory()
	key := popstat.PlaceKey{City: "Reykjavik", Country: "Iceland"}
	dir.Add(key, 7)

	id, ok, err := dir.Resolve(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok, err = dir.Resolve(context.Background(), popstat.PlaceKey{City: "Akureyri", Country: "Iceland"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectory_CountyDistinguishesKeys(t *testing.T) {
	dir := pipeline.NewDirectory()
	withCounty := popstat.PlaceKey{City: "Springfield", County: "Greene", Country: "United States"}
	withoutCounty := popstat.PlaceKey{City: "Springfield", Country: "United States"}

	dir.Add(withCounty, 1)
	dir.Add(withoutCounty, 2)
	assert.Equal(t, 2, dir.Len())

	id, ok, _ := dir.Resolve(context.Background(), withCounty)
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	id, ok, _ = dir.Resolve(context.Background(), withoutCounty)
	assert.True(t, ok)
	assert.Equal(t, int64(2), id)
}

// Duplicate source rows must resolve identically whether the lookup
// goes through the in-run directory or the store, which returns the
// lowest id. First insert wins.
func TestDirectory_DuplicateKeyFirstWins(t *testing.T) {
	dir := pipeline.NewDirectory()
	key := popstat.PlaceKey{City: "Dublin", Country: "Ireland"}

	dir.Add(key, 1)
	dir.Add(key, 9)
	assert.Equal(t, 1, dir.Len())

	id, ok, _ := dir.Resolve(context.Background(), key)
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)
}
