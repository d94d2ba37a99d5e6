package pipeline

import (
	"context"
	"fmt"

	"github.com/vvka-141/popstat/pkg/popstat"
)

// Aggregator derives the population-by-country summary from persisted
// data. It performs no mutation: running it repeatedly without
// intervening loads yields identical results.
type Aggregator struct {
	q      popstat.Querier
	logger popstat.Logger
}

// NewAggregator creates an Aggregator on the given store.
func NewAggregator(q popstat.Querier, logger popstat.Logger) *Aggregator {
	return &Aggregator{q: q, logger: logger}
}

// ComputeSummary joins people to places on the birthplace reference and
// counts people per country. People with a NULL reference, or whose
// place has a blank country, contribute to no group. An empty store
// yields an empty (non-nil) summary.
func (a *Aggregator) ComputeSummary(ctx context.Context) (popstat.Summary, error) {
	rows, err := a.q.Query(ctx, queryCountrySummary)
	if err != nil {
		return nil, fmt.Errorf("failed to compute country summary: %w", err)
	}
	defer rows.Close()

	summary := popstat.Summary{}
	for rows.Next() {
		var country string
		var population int64
		if err := rows.Scan(&country, &population); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary[country] = population
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read summary rows: %w", err)
	}

	a.logger.Info("computed summary: %d countries, %d people", len(summary), summary.Total())
	return summary, nil
}
