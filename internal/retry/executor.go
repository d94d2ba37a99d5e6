package retry

import (
	"context"
	"time"

	"github.com/vvka-141/popstat/pkg/popstat"
)

// Executor orchestrates bounded attempts with backoff and error
// classification.
//
// Thread Safety:
// The Executor itself is safe for concurrent use when calling Execute().
// WithOnRetry() returns a NEW instance with the callback configured; the
// original Executor remains unchanged.
type Executor struct {
	classifier popstat.ErrorClassifier
	strategy   popstat.BackoffStrategy
	onRetry    func(attempt, maxAttempts int, err error, delay time.Duration)
}

// NewExecutor creates a new retry executor with the given configuration.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier popstat.ErrorClassifier, strategy popstat.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
	}
}

// WithOnRetry returns a new Executor that invokes callback before each
// wait between attempts. attempt is the one-indexed attempt that just
// failed. The receiver is not modified.
func (e *Executor) WithOnRetry(callback func(attempt, maxAttempts int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs the operation until it succeeds, fails fatally, or the
// attempt budget is exhausted. The budget is total attempts: a strategy
// reporting MaxAttempts()==10 yields at most ten operation calls.
// Returns the number of attempts actually made and the error from the
// last one, so callers can report "gave up after N" truthfully even
// when a fatal error aborted the loop early.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) (int, error) {
	maxAttempts := e.strategy.MaxAttempts()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return attempt, nil
		}

		if !e.classifier.IsTransient(lastErr) {
			return attempt, lastErr // Fatal error, don't retry
		}

		if attempt == maxAttempts {
			break // Budget exhausted, no point sleeping
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, maxAttempts, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, ctx.Err()
		case <-timer.C:
		}
	}

	return maxAttempts, lastErr
}
