package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hrkernel/config"
	"hrkernel/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	c := DefaultConfig
	c.InitialDelay = time.Millisecond
	c.MaxDelay = 2 * time.Millisecond
	c.JitterEnabled = false
	return c
}

func conflict() error {
	return shared.NewConcurrencyError("employee", "e-1", 1, 2)
}

func TestExecuteWithRetry_RetriesConflictsUntilSuccess(t *testing.T) {
	calls := 0
	var retried []int
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, err error) {
		retried = append(retried, attempt)
		assert.ErrorIs(t, err, shared.ErrConcurrency)
	}

	err := ExecuteWithRetry(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 3 {
			return conflict()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestExecuteWithRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return fmt.Errorf("save: %w", conflict())
	})

	assert.ErrorIs(t, err, shared.ErrConcurrency)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_DoesNotRetryDomainFailures(t *testing.T) {
	for _, failure := range []error{
		shared.NewValidationError("employee", "email", "x", "invalid email"),
		shared.NewNotFoundError("employee", "e-1"),
		shared.NewBusinessRuleViolationError("employee", "salary_positive", "salary must be positive"),
		errors.New("plain"),
	} {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(context.Context) error {
			calls++
			return failure
		})
		assert.Same(t, failure, err)
		assert.Equal(t, 1, calls, failure.Error())
	}
}

func TestExecuteWithRetry_Disabled(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false
	calls := 0
	err := ExecuteWithRetry(context.Background(), cfg, func(context.Context) error {
		calls++
		return conflict()
	})
	assert.ErrorIs(t, err, shared.ErrConcurrency)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := ExecuteWithRetry(ctx, fastConfig(), func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestIsRetryableError_Predicate(t *testing.T) {
	transient := errors.New("transient")
	cfg := fastConfig()
	assert.False(t, IsRetryableError(transient, cfg))
	assert.False(t, IsRetryableError(nil, cfg))

	cfg.RetryPredicate = func(err error) bool { return errors.Is(err, transient) }
	assert.True(t, IsRetryableError(transient, cfg))

	cfg.RetryOnConcurrentModification = false
	assert.False(t, IsRetryableError(conflict(), cfg))
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffFactor: 2}

	assert.Zero(t, ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 400*time.Millisecond, ExponentialBackoffWithJitter(3, cfg))
	assert.Equal(t, time.Second, ExponentialBackoffWithJitter(10, cfg))

	cfg.JitterEnabled = true
	for range 20 {
		d := ExponentialBackoffWithJitter(2, cfg)
		assert.GreaterOrEqual(t, d, 160*time.Millisecond)
		assert.LessOrEqual(t, d, 240*time.Millisecond)
	}
}

func TestFromAppConfig(t *testing.T) {
	app := config.Default()
	app.Retry.MaxAttempts = 7

	cfg := FromAppConfig(app)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, app.Retry.InitialDelay, cfg.InitialDelay)
	assert.True(t, cfg.RetryOnConcurrentModification)
}
