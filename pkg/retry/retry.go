// Package retry implements the bounded exponential-backoff policy shared by
// the fetcher and the batch persister.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy describes a bounded retry loop: up to MaxAttempts attempts, with a
// delay of InitialDelay * 2^(k-2) before attempt k (the first attempt runs
// immediately). IsRetryable classifies errors; a nil IsRetryable retries
// everything.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	IsRetryable  func(error) bool
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Do gives up immediately instead of retrying it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// Do runs fn until it succeeds, returns a non-retryable error, or the attempt
// budget is exhausted. fn receives the 1-based attempt number so callers can
// log it. Context cancellation aborts the wait and is returned as-is.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := p.InitialDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}

		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		var perm permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if p.IsRetryable != nil && !p.IsRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
