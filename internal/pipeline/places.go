package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/popstat/internal/source"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// PlaceLoader inserts place records and builds the natural-key
// directory the person stage resolves against.
type PlaceLoader struct {
	q      popstat.Querier
	logger popstat.Logger
}

// NewPlaceLoader creates a PlaceLoader on the given store.
func NewPlaceLoader(q popstat.Querier, logger popstat.Logger) *PlaceLoader {
	return &PlaceLoader{q: q, logger: logger}
}

// Load inserts every record as one row, in source order, and returns the
// completed directory mapping each record's natural key to its assigned
// identifier. The directory is complete before this returns; the person
// stage must not start earlier.
func (l *PlaceLoader) Load(ctx context.Context, records []source.PlaceRecord) (*Directory, int64, error) {
	dir := NewDirectory()
	var inserted int64

	for _, rec := range records {
		var id int64
		err := l.q.QueryRow(ctx, queryInsertPlace,
			rec.City, nullableText(rec.County), rec.Country,
		).Scan(&id)
		if err != nil {
			return nil, inserted, wrapInsertError("places", rec.Line, err)
		}

		dir.Add(rec.Key(), id)
		inserted++
		l.logger.Verbose("inserted place %s with id %d", rec.Key(), id)
	}

	l.logger.Info("inserted %d places (%d distinct keys)", inserted, dir.Len())
	return dir, inserted, nil
}

// wrapInsertError classifies a store insert failure. Integrity-class
// errors (SQLSTATE 23xxx) indicate a resolution logic defect and map to
// ErrConstraintViolation.
func wrapInsertError(table string, line int, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %s: source line %d: %s", popstat.ErrConstraintViolation, table, line, pgErr.Message)
	}
	return fmt.Errorf("failed to insert into %s (source line %d): %w", table, line, err)
}
