package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// GoogleCloudSQLConnector implements popstat.Connector for Google Cloud
// SQL using IAM database authentication via the Cloud SQL Go Connector.
//
// Implements io.Closer; the stages call Close() after closing the pool
// to release the Cloud SQL dialer resources.
type GoogleCloudSQLConnector struct {
	config   *popstat.ConnectionConfig
	instance string
	logger   popstat.Logger
	dialer   *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector creates a connector for Google Cloud SQL
// IAM authentication. instance is the instance connection name in
// project:region:instance format.
func NewGoogleCloudSQLConnector(config *popstat.ConnectionConfig, instance string, logger popstat.Logger) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{
		config:   config,
		instance: instance,
		logger:   logger,
	}
}

// Connect establishes a connection pool through the Cloud SQL dialer,
// which handles authentication, TLS and connection management.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s dbname=%s sslmode=disable",
		c.instance,
		c.config.Username,
		c.config.Database,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialer.Dial(ctx, c.instance)
	}

	configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		dialer.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	c.dialer = dialer
	c.logger.Info("connected to Cloud SQL instance %s/%s", c.instance, c.config.Database)
	return pool, nil
}

// Close releases the Cloud SQL dialer resources. Must be called after
// the pool returned by Connect() is closed.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer != nil {
		return c.dialer.Close()
	}
	return nil
}

// Verify GoogleCloudSQLConnector implements the Connector interface at compile time
var _ popstat.Connector = (*GoogleCloudSQLConnector)(nil)
