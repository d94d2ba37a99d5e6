package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// PlaceResolver resolves a natural place key to a store identifier.
// ok is false when no place matches; that is expected variance, not an
// error.
type PlaceResolver interface {
	Resolve(ctx context.Context, key popstat.PlaceKey) (id int64, ok bool, err error)
}

// Directory is the in-process natural-key lookup built during the place
// stage. It covers every place inserted in the current run and resolves
// without touching the store.
type Directory struct {
	ids map[popstat.PlaceKey]int64
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{ids: make(map[popstat.PlaceKey]int64)}
}

// Add records the identifier assigned to a key. For duplicate keys the
// first inserted row wins, matching the store lookup's lowest-id
// resolution; the pipeline itself never deduplicates rows.
func (d *Directory) Add(key popstat.PlaceKey, id int64) {
	if _, exists := d.ids[key]; exists {
		return
	}
	d.ids[key] = id
}

// Len returns the number of distinct keys in the directory.
func (d *Directory) Len() int {
	return len(d.ids)
}

// Resolve looks the key up in memory. Never returns an error.
func (d *Directory) Resolve(_ context.Context, key popstat.PlaceKey) (int64, bool, error) {
	id, ok := d.ids[key]
	return id, ok, nil
}

// StoreDirectory resolves natural keys with a store query. Used when
// the person stage runs as a separate process without access to the
// place stage's in-memory directory.
type StoreDirectory struct {
	q popstat.Querier
}

// NewStoreDirectory creates a resolver backed by the given store.
func NewStoreDirectory(q popstat.Querier) *StoreDirectory {
	return &StoreDirectory{q: q}
}

// Resolve queries the store for the key. A missing row is (0, false, nil).
func (s *StoreDirectory) Resolve(ctx context.Context, key popstat.PlaceKey) (int64, bool, error) {
	var id int64
	err := s.q.QueryRow(ctx, queryLookupPlace, key.City, nullableText(key.County), key.Country).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up place %s: %w", key, err)
	}
	return id, true, nil
}

// nullableText maps an empty string to SQL NULL.
func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var (
	_ PlaceResolver = (*Directory)(nil)
	_ PlaceResolver = (*StoreDirectory)(nil)
)
