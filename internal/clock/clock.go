// Package clock implements the Frame Clock: a fixed-interval gate over a
// monotonic frame counter.
//
// Clock is a value type so that dashboard state can carry it and a tick can be
// computed as a pure function of (state, now).
package clock

import "time"

// Clock gates ticks to a fixed interval while running.
type Clock struct {
	interval time.Duration
	running  bool
	next     time.Time
	frame    uint64
}

// New returns a stopped clock with the given tick interval.
func New(interval time.Duration) Clock {
	return Clock{interval: interval}
}

// Interval returns the tick period.
func (c Clock) Interval() time.Duration { return c.interval }

// Running reports whether the clock produces ticks.
func (c Clock) Running() bool { return c.running }

// Frame returns the number of ticks produced so far. It never decreases.
func (c Clock) Frame() uint64 { return c.frame }

// Start arms the clock so that the first tick is due at now.
// Starting a running clock is a no-op.
func (c Clock) Start(now time.Time) Clock {
	if c.running {
		return c
	}
	c.running = true
	c.next = now
	return c
}

// Stop halts ticking. The frame counter is kept.
func (c Clock) Stop() Clock {
	c.running = false
	c.next = time.Time{}
	return c
}

// Advance reports whether a tick is due at now and returns the clock with the
// frame counter incremented if so. Several missed deadlines collapse into a
// single tick; the next deadline is re-anchored one interval after now.
func (c Clock) Advance(now time.Time) (Clock, bool) {
	if !c.running || now.Before(c.next) {
		return c, false
	}
	c.frame++
	c.next = c.next.Add(c.interval)
	if !c.next.After(now) {
		c.next = now.Add(c.interval)
	}
	return c, true
}
