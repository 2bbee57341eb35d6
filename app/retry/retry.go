// Package retry runs fallible operations with bounded attempts and
// exponential backoff.
package retry

import (
	"context"
	"time"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 1000 * time.Millisecond
)

// Config controls how many times an operation is attempted and how long the
// first backoff lasts. Zero values fall back to the defaults.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = defaultInitialDelay
	}
	return c
}

// Do invokes op until it succeeds or the attempt budget is exhausted. The
// delay before attempt n is InitialDelay doubled n-2 times, so a failed run
// with the defaults waits 1s then 2s. No delay follows the final failure; the
// last error is returned as-is. Cancelling ctx during a backoff wait aborts
// with ctx.Err().
func Do[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := cfg.InitialDelay << (attempt - 2)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return zero, lastErr
}
