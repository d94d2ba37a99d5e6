package pipeline

import (
	"context"

	"github.com/vvka-141/popstat/internal/source"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// PersonLoader inserts person records, resolving birthplace references
// through a PlaceResolver. An unmatched reference is stored as NULL —
// a recorded "unknown birthplace", not an error.
type PersonLoader struct {
	q      popstat.Querier
	logger popstat.Logger
}

// NewPersonLoader creates a PersonLoader on the given store.
func NewPersonLoader(q popstat.Querier, logger popstat.Logger) *PersonLoader {
	return &PersonLoader{q: q, logger: logger}
}

// Load inserts one row per record, in source order. unresolved counts
// records that carried a birthplace reference which matched nothing.
func (l *PersonLoader) Load(ctx context.Context, records []source.PersonRecord, resolver PlaceResolver) (inserted, unresolved int64, err error) {
	for _, rec := range records {
		var placeID *int64

		if !rec.Birthplace.IsZero() {
			id, ok, err := resolver.Resolve(ctx, rec.Birthplace)
			if err != nil {
				return inserted, unresolved, err
			}
			if ok {
				placeID = &id
			} else {
				unresolved++
				l.logger.Verbose("unresolved birthplace %s for %s %s (source line %d)",
					rec.Birthplace, rec.GivenName, rec.FamilyName, rec.Line)
			}
		}

		_, err := l.q.Exec(ctx, queryInsertPerson,
			rec.GivenName, rec.FamilyName, nullableText(rec.DateOfBirth), placeID)
		if err != nil {
			return inserted, unresolved, wrapInsertError("people", rec.Line, err)
		}
		inserted++
	}

	l.logger.Info("inserted %d people (%d with unresolved birthplace)", inserted, unresolved)
	return inserted, unresolved, nil
}
