package tui

import "time"

// TickInterval is the fixed redraw cadence (§5 "TUI"): every tick the
// model redraws unconditionally, so spinner animations advance even with
// no fs or keyboard events.
const TickInterval = 100 * time.Millisecond

// SpinnerFrames is the glyph sequence the tick clock cycles through.
var SpinnerFrames = [...]rune{'|', '/', '-', '\\'}

// TickClock tracks the next scheduled redraw and a spinner frame index,
// advancing the frame whenever a tick lands late (current time past the
// next scheduled tick), per the Rust tui/loading.rs design referenced in
// SPEC_FULL.md.
type TickClock struct {
	next  time.Time
	frame int
}

// NewTickClock starts a clock whose first tick is due at now+TickInterval.
func NewTickClock(now time.Time) *TickClock {
	return &TickClock{next: now.Add(TickInterval)}
}

// Advance is called on every redraw with the current time. It advances the
// spinner frame whenever now has passed the scheduled tick, and reschedules
// the next tick relative to now (so drift never compounds).
func (c *TickClock) Advance(now time.Time) {
	if !now.Before(c.next) {
		c.frame = (c.frame + 1) % len(SpinnerFrames)
		c.next = now.Add(TickInterval)
	}
}

// Frame returns the current spinner glyph.
func (c *TickClock) Frame() rune {
	return SpinnerFrames[c.frame]
}

// Next reports when the next tick is due.
func (c *TickClock) Next() time.Time {
	return c.next
}
