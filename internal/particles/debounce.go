package particles

import "time"

// Debouncer collapses a burst of triggers into one, delivered once delay has
// passed since the last trigger. It is polled from the frame loop rather than
// firing timers, so the work always runs on the loop goroutine.
type Debouncer struct {
	delay    time.Duration
	deadline time.Time
	pending  bool
}

// NewDebouncer returns a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) Debouncer {
	return Debouncer{delay: delay}
}

// Trigger (re)starts the quiet period at now.
func (d *Debouncer) Trigger(now time.Time) {
	d.deadline = now.Add(d.delay)
	d.pending = true
}

// Ready reports whether a trigger has settled. It returns true at most once
// per burst.
func (d *Debouncer) Ready(now time.Time) bool {
	if !d.pending || now.Before(d.deadline) {
		return false
	}
	d.pending = false
	return true
}

// Pending reports whether a burst is waiting to settle.
func (d *Debouncer) Pending() bool { return d.pending }
