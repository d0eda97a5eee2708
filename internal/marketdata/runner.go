package marketdata

import (
	"context"
	"time"
)

// Runner drives the pipeline's pump loop: pump all due feeds, then sleep
// for the configured interval. The market-data pump is strictly
// sequential within its own service (spec §5); it respects cancellation
// between iterations, after a retry sequence completes.
type Runner struct {
	Pipeline *Pipeline
	Interval time.Duration
}

// Run blocks pumping the pipeline until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.Pipeline.Pump(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			r.Pipeline.Pump(ctx, t)
		}
	}
}
