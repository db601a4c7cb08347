package httputil

import (
	"context"
	"errors"
	"time"
)

// maxRetryDelay caps the doubled backoff.
const maxRetryDelay = 30 * time.Second

// RetryableError marks a transient failure: a transport error, a 5xx or a
// 429. Everything else fails fast.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is marked transient anywhere in its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry runs fn until it succeeds, returns a non-transient error, or has
// run attempts times. The wait starts at delay and doubles up to
// maxRetryDelay. A cancelled ctx ends the wait with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	err := fn()
	for left := attempts - 1; left > 0 && IsRetryable(err); left-- {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(2*delay, maxRetryDelay)
		err = fn()
	}
	return err
}
