package genimage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryPolicy bounds the attempts of a failing call. Backoff receives the
// number of the attempt that just failed (1-based) and returns the pause
// before the next one.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

func DefaultRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: Exponential(2 * time.Second)}
}

// Exponential doubles base after every failed attempt.
func Exponential(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		return base << (attempt - 1)
	}
}

// Do calls fn until it succeeds, the attempts run out, ctx is done, or fn
// returns ErrUnavailable.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := max(p.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		}
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		if attempt == attempts {
			break
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, err)
}
