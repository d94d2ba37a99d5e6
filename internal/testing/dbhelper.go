// Package testing provides shared helpers for popstat's integration
// tests: a lazily started PostgreSQL container, per-test databases with
// the pipeline schema, and ready-made stage instances.
package testing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/popstat/internal/db"
	"github.com/vvka-141/popstat/internal/logging"
	"github.com/vvka-141/popstat/internal/pipeline"
	"github.com/vvka-141/popstat/internal/testinfra"
	"github.com/vvka-141/popstat/pkg/popstat"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		ctx := context.Background()
		container, err := testinfra.StartPostgres(ctx)
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test store connection string.
// Priority: POPSTAT_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("POPSTAT_TEST_CONN"); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("POPSTAT_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// CreateTestDB creates a uniquely named database with the pipeline
// schema provisioned and registers cleanup. Returns a connection string
// pointing at the new database.
func CreateTestDB(t *testing.T, connString string) string {
	t.Helper()

	ctx := context.Background()
	dbName := "popstat_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect for test DB creation: %v", err)
	}
	_, err = pool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName))
	pool.Close()
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", dbName, err)
	}

	t.Cleanup(func() {
		cleanupTestDB(t, connString, dbName)
	})

	targetConnString := replaceDatabase(t, connString, dbName)

	schemaPool, err := pgxpool.New(ctx, targetConnString)
	if err != nil {
		t.Fatalf("Failed to connect to test database %s: %v", dbName, err)
	}
	defer schemaPool.Close()
	if err := testinfra.ProvisionSchema(ctx, schemaPool); err != nil {
		t.Fatalf("Failed to provision schema in %s: %v", dbName, err)
	}

	return targetConnString
}

func cleanupTestDB(t *testing.T, connString, dbName string) {
	t.Helper()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Logf("Warning: Failed to connect for cleanup: %v", err)
		return
	}
	defer pool.Close()

	terminateQuery := `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`
	if _, err := pool.Exec(ctx, terminateQuery, dbName); err != nil {
		t.Logf("Warning: Failed to terminate connections to %s: %v", dbName, err)
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)); err != nil {
		t.Logf("Warning: Failed to drop database %s: %v", dbName, err)
	}
}

// GetTestPool creates a pool on the given connection string, closed
// automatically when the test completes.
func GetTestPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

func replaceDatabase(t *testing.T, connString, dbName string) string {
	t.Helper()

	config, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	config.Database = dbName
	return db.BuildConnectionString(config)
}

// NewTestConnector creates a standard connector for the given
// connection string, failing the test on config errors.
func NewTestConnector(t *testing.T, connString string) popstat.Connector {
	t.Helper()

	config, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}
	return db.NewStandardConnector(config, logging.NewNullLogger())
}

// NewTestLoadStage creates a LoadStage wired with a standard connector,
// an always-approving approver, and a silent logger.
func NewTestLoadStage(t *testing.T, connString string) *pipeline.LoadStage {
	t.Helper()

	return pipeline.NewLoadStage(
		NewTestConnector(t, connString),
		&ForceApprover{},
		logging.NewNullLogger(),
	)
}

// NewTestComputeStage creates a ComputeStage wired with a standard
// connector and a silent logger.
func NewTestComputeStage(t *testing.T, connString string) *pipeline.ComputeStage {
	t.Helper()

	return pipeline.NewComputeStage(
		NewTestConnector(t, connString),
		logging.NewNullLogger(),
	)
}

// ForceApprover is a test approver that always approves reset requests.
type ForceApprover struct{}

// RequestApproval always returns true (auto-approves).
func (a *ForceApprover) RequestApproval(_ context.Context, _ string) (bool, error) {
	return true, nil
}
