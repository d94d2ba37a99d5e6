package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/popstat/internal/retry"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns limits concurrent connections. The pipeline is a
	// single sequential writer, so a small pool is plenty.
	DefaultMaxConns = 2

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps connections alive across the stage
	// to avoid reconnection overhead between loaders.
	DefaultMaxConnIdleTime = 10 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
}

// StandardConnector implements popstat.Connector for standard
// username/password authentication with bounded fixed-interval retry on
// transient failures.
type StandardConnector struct {
	config        *popstat.ConnectionConfig
	logger        popstat.Logger
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a StandardConnector with the contract
// retry bounds: DefaultConnectMaxAttempts total attempts spaced
// DefaultConnectRetryDelay apart.
func NewStandardConnector(config *popstat.ConnectionConfig, logger popstat.Logger) *StandardConnector {
	classifier := retry.NewPostgreSQLErrorClassifier()
	strategy := retry.NewConstantBackoff(popstat.DefaultConnectMaxAttempts, popstat.DefaultConnectRetryDelay)

	executor := retry.NewExecutor(classifier, strategy).
		WithOnRetry(func(attempt, maxAttempts int, err error, delay time.Duration) {
			logger.Info("store not ready yet (attempt %d/%d), retrying in %v...", attempt, maxAttempts, delay)
			logger.Verbose("connection attempt %d failed: %v", attempt, err)
		})

	return &StandardConnector{
		config:        config,
		logger:        logger,
		retryExecutor: executor,
	}
}

// Connect establishes a connection pool, retrying transient failures up
// to the attempt budget. Exhaustion surfaces ErrConnectionUnavailable;
// the caller owns the returned pool and must Close() it.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(c.config)

	attempts, err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}

		configurePool(poolConfig)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		// Test the connection
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w after %d of %d attempts: %w",
			popstat.ErrConnectionUnavailable, attempts, popstat.DefaultConnectMaxAttempts, err)
	}

	c.logger.Info("connected to %s:%d/%s", c.config.Host, c.config.Port, c.config.Database)
	return pool, nil
}

// NewConnector is a factory that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *popstat.ConnectionConfig, logger popstat.Logger) (popstat.Connector, error) {
	switch config.AuthMethod {
	case popstat.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case popstat.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case popstat.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case popstat.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, popstat.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable
  - Network connection issue

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or ~/.pgpass)
  - Wrong username
  - User does not have access to the database

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

The store schema is provisioned externally; make sure the bootstrap
step ran before this stage.

Original error: %w`, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Network latency or packet loss
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(config *popstat.ConnectionConfig, logger popstat.Logger) (popstat.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", logger), nil
}

// newGoogleConnector creates a connector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *popstat.ConnectionConfig, logger popstat.Logger) (popstat.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance)")
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U)")
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, logger), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID
// token provider. Explicit credentials select Service Principal auth;
// otherwise the DefaultAzureCredential chain is used.
func newAzureConnector(config *popstat.ConnectionConfig, logger popstat.Logger) (popstat.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure", logger), nil
}
