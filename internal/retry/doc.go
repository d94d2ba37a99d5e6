// Package retry provides bounded retry logic for transient store
// connection failures.
//
// The load and compute stages typically start alongside the store under
// an external scheduler, so the first connection attempts are expected to
// fail while the store is still coming up. The Executor makes a fixed
// total number of attempts with a pluggable delay strategy, then gives up
// with the last error.
//
// # Example Usage
//
//	classifier := retry.NewPostgreSQLErrorClassifier()
//	strategy := retry.NewConstantBackoff(popstat.DefaultConnectMaxAttempts, popstat.DefaultConnectRetryDelay)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	attempts, err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return connectToStore(ctx)
//	})
//
// # Attempt Counting
//
// MaxAttempts is the TOTAL number of attempts, including the first one.
// A strategy with MaxAttempts()==10 produces at most ten operation calls
// and nine sleeps. This bounds worst-case startup latency to
// (attempts-1) × delay for a constant strategy.
//
// # Error Classification
//
// The ErrorClassifier interface decides which errors are transient
// (retryable) versus fatal. PostgreSQLErrorClassifier recognizes common
// transient conditions: connection refused, network failures, the server
// still starting up, resource exhaustion.
package retry
