package remote

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy bounds re-attempts of a single channel operation. Retries are
// scoped to one operation: a failed verify never re-runs the submit that
// preceded it.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry is the standard budget for channel operations.
var DefaultRetry = RetryPolicy{Attempts: 3, Delay: 500 * time.Millisecond}

// Do runs fn up to p.Attempts times, sleeping p.Delay between attempts.
// The last error is returned when all attempts fail.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
