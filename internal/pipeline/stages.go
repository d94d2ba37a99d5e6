package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/popstat/internal/source"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// LoadStage orchestrates one load run: optional reset, place stage,
// person stage. Stages run strictly in order; the person stage never
// starts before the place directory is complete.
type LoadStage struct {
	connector popstat.Connector
	approver  popstat.Approver
	logger    popstat.Logger
}

// NewLoadStage creates a LoadStage. The approver is only consulted for
// reset runs.
func NewLoadStage(connector popstat.Connector, approver popstat.Approver, logger popstat.Logger) *LoadStage {
	return &LoadStage{
		connector: connector,
		approver:  approver,
		logger:    logger,
	}
}

// Run executes the load stage per cfg and reports what it did. On error
// the store may hold a partial load; the stage is not transactional
// across sources.
func (s *LoadStage) Run(ctx context.Context, cfg *popstat.LoadConfig) (*popstat.LoadStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	start := time.Now()
	s.logger.Verbose("load run %s starting", runID)

	pool, err := s.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer releaseConnector(s.connector)
	defer pool.Close()

	if cfg.Reset {
		if err := s.reset(ctx, pool); err != nil {
			return nil, err
		}
	}

	policy := source.FailFast
	if cfg.SkipMalformed {
		policy = source.SkipWithWarning
	}

	stats := &popstat.LoadStats{}

	// Birthplace references resolve against the directory built in this
	// run when places were loaded, and against the store otherwise.
	var resolver PlaceResolver = NewStoreDirectory(pool)

	if cfg.PlacesPath != "" {
		dir, inserted, skipped, err := s.loadPlaces(ctx, pool, cfg.PlacesPath, policy)
		if err != nil {
			return nil, err
		}
		stats.PlacesInserted = inserted
		stats.SkippedRecords += skipped
		resolver = dir
	}

	if cfg.PeoplePath != "" {
		inserted, unresolved, skipped, err := s.loadPeople(ctx, pool, cfg.PeoplePath, policy, resolver)
		if err != nil {
			return nil, err
		}
		stats.PeopleInserted = inserted
		stats.UnresolvedRefs = unresolved
		stats.SkippedRecords += skipped
	}

	s.logger.Info("load run %s finished in %s: %d places, %d people, %d skipped, %d unresolved",
		runID, time.Since(start).Round(time.Millisecond),
		stats.PlacesInserted, stats.PeopleInserted, stats.SkippedRecords, stats.UnresolvedRefs)
	return stats, nil
}

// reset truncates both pipeline tables. The approver decides whether
// the run may proceed; a declined approval aborts before any mutation.
func (s *LoadStage) reset(ctx context.Context, pool poolQuerier) error {
	database := pool.Config().ConnConfig.Database

	approved, err := s.approver.RequestApproval(ctx, database)
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("%w: reset of database %q was not approved", popstat.ErrApprovalDenied, database)
	}

	s.logger.Info("resetting pipeline tables in database %q", database)
	if _, err := pool.Exec(ctx, queryResetTables); err != nil {
		return fmt.Errorf("failed to reset pipeline tables: %w", err)
	}
	return nil
}

func (s *LoadStage) loadPlaces(ctx context.Context, q popstat.Querier, path string, policy source.MalformedPolicy) (*Directory, int64, int64, error) {
	f, err := source.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	records, skipped, err := source.DecodePlaces(f, policy, s.logger)
	if err != nil {
		return nil, 0, skipped, err
	}

	dir, inserted, err := NewPlaceLoader(q, s.logger).Load(ctx, records)
	if err != nil {
		return nil, inserted, skipped, err
	}
	return dir, inserted, skipped, nil
}

func (s *LoadStage) loadPeople(ctx context.Context, q popstat.Querier, path string, policy source.MalformedPolicy, resolver PlaceResolver) (inserted, unresolved, skipped int64, err error) {
	f, err := source.Open(path)
	if err != nil {
		return 0, 0, 0, err
	}
	defer f.Close()

	records, skipped, err := source.DecodePeople(f, policy, s.logger)
	if err != nil {
		return 0, 0, skipped, err
	}

	inserted, unresolved, err = NewPersonLoader(q, s.logger).Load(ctx, records, resolver)
	return inserted, unresolved, skipped, err
}

// poolQuerier is the pool surface the reset path needs beyond Querier:
// access to the resolved connection config for the database name.
type poolQuerier interface {
	popstat.Querier
	Config() *pgxpool.Config
}

// releaseConnector frees connector-held resources, such as the Cloud
// SQL dialer, once the pool it produced is closed. Deferred before
// pool.Close() so it runs after it.
func releaseConnector(c popstat.Connector) {
	if closer, ok := c.(io.Closer); ok {
		closer.Close()
	}
}

// ComputeStage orchestrates one compute run: aggregate, then write the
// report. The stage only reads from the store.
type ComputeStage struct {
	connector popstat.Connector
	logger    popstat.Logger
}

// NewComputeStage creates a ComputeStage.
func NewComputeStage(connector popstat.Connector, logger popstat.Logger) *ComputeStage {
	return &ComputeStage{connector: connector, logger: logger}
}

// Run computes the population-by-country summary and writes it to
// cfg.OutputPath. The returned summary is the same data, for callers
// that want to render it.
func (s *ComputeStage) Run(ctx context.Context, cfg *popstat.ComputeConfig) (popstat.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	pool, err := s.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer releaseConnector(s.connector)
	defer pool.Close()

	summary, err := NewAggregator(pool, s.logger).ComputeSummary(ctx)
	if err != nil {
		return nil, err
	}

	if err := WriteReport(summary, cfg.OutputPath); err != nil {
		return nil, err
	}

	s.logger.Info("wrote summary for %d countries to %s", len(summary), cfg.OutputPath)
	return summary, nil
}
