package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// mockOperation tracks invocation count and simulates transient failures
type mockOperation struct {
	invocations int
	failUntil   int // Fail for invocations < failUntil
	err         error
}

func (m *mockOperation) execute(ctx context.Context) error {
	m.invocations++

	if m.invocations < m.failUntil {
		if m.err != nil {
			return m.err
		}
		return &pgconn.PgError{Code: "08006", Message: "connection failure"}
	}

	return nil // Success
}

func TestExecutor_Execute_SuccessOnFirstAttempt(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	strategy := NewConstantBackoff(10, time.Millisecond)

	executor := NewExecutor(classifier, strategy)

	op := &mockOperation{failUntil: 1} // Succeed immediately

	attempts, err := executor.Execute(context.Background(), op.execute)

	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 reported attempt, got %d", attempts)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation, got %d", op.invocations)
	}
}

func TestExecutor_Execute_SuccessAfterRetries(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	strategy := NewConstantBackoff(10, time.Millisecond)

	executor := NewExecutor(classifier, strategy)

	// Fail first 3 attempts, succeed on 4th
	op := &mockOperation{failUntil: 4}

	attempts, err := executor.Execute(context.Background(), op.execute)

	if err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if attempts != 4 {
		t.Errorf("Expected 4 reported attempts, got %d", attempts)
	}
	if op.invocations != 4 {
		t.Errorf("Expected 4 invocations, got %d", op.invocations)
	}
}

func TestExecutor_Execute_ExhaustsExactAttemptBudget(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	strategy := NewConstantBackoff(10, time.Millisecond)

	executor := NewExecutor(classifier, strategy)

	// Never succeeds: every attempt returns a transient connection error
	op := &mockOperation{failUntil: 1000}

	attempts, err := executor.Execute(context.Background(), op.execute)

	if err == nil {
		t.Fatal("Expected error after exhausting attempts, got nil")
	}
	if attempts != 10 {
		t.Errorf("Expected 10 reported attempts, got %d", attempts)
	}
	if op.invocations != 10 {
		t.Errorf("Expected exactly 10 invocations, got %d", op.invocations)
	}
}

func TestExecutor_Execute_FatalErrorNoRetry(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	strategy := NewConstantBackoff(10, time.Millisecond)

	executor := NewExecutor(classifier, strategy)

	fatalErr := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	op := &mockOperation{failUntil: 1000, err: fatalErr}

	attempts, err := executor.Execute(context.Background(), op.execute)

	if err == nil {
		t.Fatal("Expected fatal error, got nil")
	}
	if !errors.Is(err, fatalErr) && err.Error() != fatalErr.Error() {
		t.Errorf("Expected fatal error to surface, got: %v", err)
	}
	// A fatal abort must report the attempt it died on, not the budget
	if attempts != 1 {
		t.Errorf("Expected 1 reported attempt on fatal error, got %d", attempts)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation (no retry on fatal), got %d", op.invocations)
	}
}

func TestExecutor_Execute_OnRetryCallback(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	strategy := NewConstantBackoff(3, time.Millisecond)

	var calls []int
	executor := NewExecutor(classifier, strategy).
		WithOnRetry(func(attempt, maxAttempts int, err error, delay time.Duration) {
			calls = append(calls, attempt)
			if maxAttempts != 3 {
				t.Errorf("Expected maxAttempts 3 in callback, got %d", maxAttempts)
			}
		})

	op := &mockOperation{failUntil: 1000}

	if _, err := executor.Execute(context.Background(), op.execute); err == nil {
		t.Fatal("Expected error, got nil")
	}

	// Callback fires between attempts, not after the last one
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("Expected callbacks for attempts [1 2], got %v", calls)
	}
}

func TestExecutor_Execute_ContextCancellation(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	strategy := NewConstantBackoff(10, 10*time.Second)

	executor := NewExecutor(classifier, strategy)

	ctx, cancel := context.WithCancel(context.Background())
	op := &mockOperation{failUntil: 1000}

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	attempts, err := executor.Execute(ctx, op.execute)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 reported attempt before cancellation, got %d", attempts)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation before cancellation, got %d", op.invocations)
	}
}

func TestExecutor_Execute_WithOnRetryDoesNotMutateOriginal(t *testing.T) {
	classifier := NewPostgreSQLErrorClassifier()
	strategy := NewConstantBackoff(2, time.Millisecond)

	original := NewExecutor(classifier, strategy)
	configured := original.WithOnRetry(func(int, int, error, time.Duration) {})

	if original == configured {
		t.Error("WithOnRetry should return a new instance")
	}
	if original.onRetry != nil {
		t.Error("Original executor should not have a callback")
	}
}
