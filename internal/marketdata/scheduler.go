package marketdata

import "time"

// Scheduler holds the next-due timestamp for a single feed. It does not
// sleep; it is driven by the external pump loop.
type Scheduler struct {
	nextDue time.Time
	set     bool
}

// Due reports whether the feed should emit at wall time t.
func (s *Scheduler) Due(t time.Time) bool {
	if !s.set {
		return true
	}
	return !t.Before(s.nextDue)
}

// Advance sets the next-due time to t + interval. Called on every emission
// attempt regardless of success, so a persistently failing feed cannot
// monopolize retries (spec §4.5, §9).
func (s *Scheduler) Advance(t time.Time, interval time.Duration) {
	s.nextDue = t.Add(interval)
	s.set = true
}
