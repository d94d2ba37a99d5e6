// Package testinfra provisions throwaway PostgreSQL instances for
// integration tests. The container is shared per test binary; each test
// gets its own database so runs stay isolated.
package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "postgres"
)

// schemaSQL mirrors the schema the external bootstrap step provisions in
// production. Tests create it themselves since there is no bootstrap.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS places (
	id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	city    TEXT NOT NULL,
	county  TEXT,
	country TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS people (
	id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	given_name        TEXT NOT NULL,
	family_name       TEXT NOT NULL,
	date_of_birth     TEXT,
	place_of_birth_id BIGINT REFERENCES places (id)
);
`

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgres starts a plain PostgreSQL container and returns its
// connection string (sslmode=disable).
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

// ProvisionSchema creates the pipeline tables in the connected database,
// standing in for the external bootstrap step.
func ProvisionSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("provision schema: %w", err)
	}
	return nil
}
