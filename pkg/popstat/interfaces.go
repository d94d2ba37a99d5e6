package popstat

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Logger defines the logging interface used throughout the pipeline.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Verbose logs detailed diagnostic information (no-op unless enabled).
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	Info(format string, args ...interface{})

	// Error logs error messages.
	Error(format string, args ...interface{})
}

// Connector establishes a connection pool to the relational store.
// Implementations handle authentication and bounded retry; callers own
// the returned pool and must Close() it on every exit path.
type Connector interface {
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// Querier abstracts the store operations the pipeline needs. It is the
// subset of pgxpool.Pool the loaders and aggregator use, kept narrow so
// tests can substitute fakes without a live store.
type Querier interface {
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Errors are deferred until the row's Scan method is called.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Approver decides whether a destructive reset may proceed.
type Approver interface {
	// RequestApproval asks for confirmation to truncate the store's
	// pipeline tables. Returns true to proceed, false to abort.
	RequestApproval(ctx context.Context, database string) (bool, error)
}

// ErrorClassifier determines whether an error is transient (retryable) or fatal.
type ErrorClassifier interface {
	// IsTransient returns true if the error is temporary and the operation
	// should be retried.
	IsTransient(err error) bool
}

// BackoffStrategy calculates the delay before the next connection attempt.
type BackoffStrategy interface {
	// NextDelay returns the duration to wait after the given attempt.
	// attempt is one-indexed (1 = first attempt).
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the total number of attempts to make (1 = no retries).
	MaxAttempts() int
}
