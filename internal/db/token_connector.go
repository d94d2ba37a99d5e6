package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/popstat/internal/retry"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// TokenBasedConnector implements popstat.Connector for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired fresh inside the retry loop and used as the
// PostgreSQL password.
type TokenBasedConnector struct {
	config        *popstat.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	logger        popstat.Logger
	retryExecutor *retry.Executor
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider
// for authentication. providerName appears in log messages.
func NewTokenBasedConnector(config *popstat.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger popstat.Logger) *TokenBasedConnector {
	classifier := retry.NewPostgreSQLErrorClassifier()
	strategy := retry.NewConstantBackoff(popstat.DefaultConnectMaxAttempts, popstat.DefaultConnectRetryDelay)

	executor := retry.NewExecutor(classifier, strategy).
		WithOnRetry(func(attempt, maxAttempts int, err error, delay time.Duration) {
			logger.Info("store not ready yet (attempt %d/%d), retrying in %v...", attempt, maxAttempts, delay)
			logger.Verbose("connection attempt %d failed: %v", attempt, err)
		})

	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
		retryExecutor: executor,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	c.logger.Verbose("authenticating via %s", c.tokenProvider)

	attempts, err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}

		if remaining := time.Until(expiresOn); remaining < 5*time.Minute {
			c.logger.Info("warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
		}

		configWithToken := *c.config
		configWithToken.Password = token

		poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&configWithToken))
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}

		configurePool(poolConfig)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
		}

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

	c.logger.Info("connected to %s:%d/%s via %s", c.config.Host, c.config.Port, c.config.Database, c.providerName)
	return pool, nil
}

// Verify TokenBasedConnector implements the Connector interface at compile time
var _ popstat.Connector = (*TokenBasedConnector)(nil)
