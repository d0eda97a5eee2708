package marketdata

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy bounds an I/O step to at most Attempts tries, sleeping
// BaseDelay*attemptNumber between tries. attempts <= 0 is a programmer
// error and panics rather than silently looping forever.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// Do runs fn up to Attempts times, returning nil on the first success. On
// exhaustion the last error is returned wrapped with the attempt count.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.Attempts <= 0 {
		panic("marketdata: RetryPolicy.Attempts must be > 0")
	}

	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := fn(ctx); err != nil {
			lastErr = err
			if attempt < p.Attempts {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(p.BaseDelay * time.Duration(attempt)):
				}
				continue
			}
			return fmt.Errorf("exhausted %d attempts: %w", p.Attempts, lastErr)
		}
		return nil
	}
	return lastErr
}
