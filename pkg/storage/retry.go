package storage

import (
	"context"
	"errors"
	"time"
)

// TransientError marks a failure worth retrying, such as a refused
// connection while a backend is still starting.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times, doubling delay after each failed
// attempt. Only errors wrapped in [TransientError] are retried; the last
// error is returned unwrapped, or ctx.Err() if ctx is cancelled first.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		var te *TransientError
		if !errors.As(err, &te) {
			return err
		}
		lastErr = te.Err

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
