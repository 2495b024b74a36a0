package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestDo_SucceedsAfterFailure(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("boom")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	cause := errors.New("unavailable")
	var retried []int

	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, err error, nextDelay time.Duration) {
		retried = append(retried, attempt)
	}

	err := Do(context.Background(), cfg, func(ctx context.Context) error { return cause })

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	cause := errors.New("not found")
	calls := 0

	cfg := fastConfig(5)
	cfg.Retryable = func(err error) bool { return false }

	err := Do(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return cause
	})

	assert.Same(t, cause, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SingleAttemptReturnsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Do(context.Background(), fastConfig(1), func(ctx context.Context) error { return cause })
	assert.Same(t, cause, err)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fastConfig(3), func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
