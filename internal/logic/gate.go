package logic

import "time"

// TickGate rate-limits control ticks by elapsed time. The control loop polls
// on a short interval so shutdown signals stay responsive, but a tick only
// runs when the configured control interval has fully elapsed.
type TickGate struct {
	interval time.Duration
	last     time.Time
	started  bool
}

// NewTickGate creates a gate with the given control interval.
func NewTickGate(interval time.Duration) *TickGate {
	return &TickGate{interval: interval}
}

// Due reports whether a control tick should run at now, and records the tick
// when it does. The first call is always due so a freshly started controller
// acts immediately.
func (g *TickGate) Due(now time.Time) bool {
	if g.started && now.Sub(g.last) < g.interval {
		return false
	}
	g.started = true
	g.last = now
	return true
}
