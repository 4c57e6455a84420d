package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_SucceedsAfterFailures(t *testing.T) {
	p := RetryPolicy{Attempts: 3, Delay: time.Millisecond}
	calls := 0

	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_ExhaustsBudget(t *testing.T) {
	p := RetryPolicy{Attempts: 2, Delay: time.Millisecond}
	sentinel := errors.New("down")
	calls := 0

	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestRetryPolicy_ZeroAttemptsStillRunsOnce(t *testing.T) {
	p := RetryPolicy{}
	calls := 0
	require.NoError(t, p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_CancelledBetweenAttempts(t *testing.T) {
	p := RetryPolicy{Attempts: 5, Delay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := p.Do(ctx, func(ctx context.Context) error {
		return errors.New("always fails")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
