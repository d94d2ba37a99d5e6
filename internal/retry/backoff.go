package retry

import (
	"math"
	"time"
)

// ConstantBackoff waits a fixed interval between attempts. This is the
// default strategy for store connections: the contract is an explicit
// bounded loop with a named attempt cap and a named sleep, nothing adaptive.
type ConstantBackoff struct {
	maxAttempts int
	delay       time.Duration
}

// NewConstantBackoff creates a constant-delay strategy making maxAttempts
// total attempts with the given delay between them.
func NewConstantBackoff(maxAttempts int, delay time.Duration) *ConstantBackoff {
	return &ConstantBackoff{
		maxAttempts: maxAttempts,
		delay:       delay,
	}
}

// NextDelay returns the fixed delay regardless of attempt number.
func (b *ConstantBackoff) NextDelay(attempt int) time.Duration {
	return b.delay
}

// MaxAttempts returns the total number of attempts to make.
func (b *ConstantBackoff) MaxAttempts() int {
	return b.maxAttempts
}

// ExponentialBackoff implements exponential backoff with a delay cap.
// Available for callers that prefer ramping waits over a fixed interval.
type ExponentialBackoff struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
}

// BackoffOption is a functional option for configuring ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the delay after the first attempt.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) {
		b.initialDelay = d
	}
}

// WithMaxDelay sets the maximum delay between attempts.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) {
		b.maxDelay = d
	}
}

// WithMultiplier sets the factor by which delay increases between attempts.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) {
		b.multiplier = m
	}
}

// NewExponentialBackoff creates an exponential backoff strategy with
// sensible defaults, configurable via functional options.
func NewExponentialBackoff(maxAttempts int, opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		maxAttempts:  maxAttempts,
		initialDelay: 100 * time.Millisecond,
		maxDelay:     30 * time.Second,
		multiplier:   2.0,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NextDelay calculates the delay after the given one-indexed attempt.
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delayMs := float64(b.initialDelay.Milliseconds()) * math.Pow(b.multiplier, float64(attempt-1))
	if delayMs > float64(b.maxDelay.Milliseconds()) {
		delayMs = float64(b.maxDelay.Milliseconds())
	}

	return time.Duration(delayMs) * time.Millisecond
}

// MaxAttempts returns the total number of attempts to make.
func (b *ExponentialBackoff) MaxAttempts() int {
	return b.maxAttempts
}
