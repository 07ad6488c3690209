package page

import "time"

// Throttle coalesces frequent requests into at most one run per interval:
// the first request arms it, later ones are ignored until it fires.
type Throttle struct {
	interval time.Duration
	due      time.Time
	armed    bool
}

// NewThrottle returns a Throttle with the given interval.
func NewThrottle(interval time.Duration) Throttle {
	return Throttle{interval: interval}
}

// Request asks for a run interval after now unless one is already armed.
func (t *Throttle) Request(now time.Time) {
	if t.armed {
		return
	}
	t.due = now.Add(t.interval)
	t.armed = true
}

// Due reports, once, that an armed run is due.
func (t *Throttle) Due(now time.Time) bool {
	if !t.armed || now.Before(t.due) {
		return false
	}
	t.armed = false
	return true
}
