package logic

import "time"

// Controller owns the enclosure control state and applies the rules once per
// tick. It is not safe for concurrent use; the control loop is the only
// caller.
type Controller struct {
	durations Durations
	bands     Bands
	dayStart  int
	dayEnd    int

	phase      Phase
	cycleStart time.Time
	day        bool
	dayKnown   bool
	tempC      float64
	tempValid  bool
	fanOn      bool
	heaterOn   bool
	lightOn    bool

	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewController creates a controller at the start of a fresh growth cycle.
// All actuators begin off; the first tick establishes period and issues the
// initial light command. The startTime doubles as the cycle origin and the
// uptime reference for heartbeat events.
func NewController(s Settings, startTime time.Time) *Controller {
	return &Controller{
		durations:     s.Durations,
		bands:         s.Bands,
		dayStart:      s.DayStart,
		dayEnd:        s.DayEnd,
		phase:         PhaseGermination,
		cycleStart:    startTime,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Result is what one tick produced: the full desired actuator state and any
// transition events to publish.
type Result struct {
	Commands Commands
	Events   []Event
}

// Tick runs one control cycle: adopt the sensor reading, advance the growth
// phase, classify the period, pick the active band and drive the actuators
// toward it. It never blocks and touches no hardware; the caller applies
// Result.Commands to the relays and publishes Result.Events.
func (c *Controller) Tick(input Input) Result {
	// Adopt the reading when the sensor delivered one. On a fault the last
	// known value is retained so the thresholds keep acting on real data.
	if input.TempOK {
		c.tempC = input.TempC
		c.tempValid = true
	}

	prevPhase := c.phase
	c.phase = c.advancePhase(input.Now)

	day := IsDay(input.Hour, c.dayStart, c.dayEnd)
	lightEdge := !c.dayKnown || day != c.day
	c.day = day
	c.dayKnown = true
	if lightEdge {
		c.lightOn = day
	}

	band := c.bands.For(c.phase, c.day)
	fanWas, heaterWas := c.fanOn, c.heaterOn
	if c.tempValid {
		// Above the band: vent. Below: heat. Inside: both actuators latch
		// their previous state, so there is a deadband but no hysteresis
		// beyond the band edges. The cooling comparison runs first, which
		// also makes a degenerate band (min > max) resolve deterministically.
		if c.tempC > band.Max {
			c.fanOn, c.heaterOn = true, false
		} else if c.tempC < band.Min {
			c.fanOn, c.heaterOn = false, true
		}
	}

	// Emit events in a fixed order: phase, light, fan, heater.
	var events []Event
	if c.phase != prevPhase {
		events = append(events, c.newEvent(input.Now, EventPhaseChange))
	}
	if lightEdge {
		if c.lightOn {
			events = append(events, c.newEvent(input.Now, EventLightOn))
		} else {
			events = append(events, c.newEvent(input.Now, EventLightOff))
		}
	}
	if c.fanOn != fanWas {
		if c.fanOn {
			events = append(events, c.newEvent(input.Now, EventFanOn))
		} else {
			events = append(events, c.newEvent(input.Now, EventFanOff))
		}
	}
	if c.heaterOn != heaterWas {
		if c.heaterOn {
			events = append(events, c.newEvent(input.Now, EventHeaterOn))
		} else {
			events = append(events, c.newEvent(input.Now, EventHeaterOff))
		}
	}

	for _, e := range events {
		switch e.Type {
		case EventFanOn:
			c.eventCounts.FanOn++
		case EventFanOff:
			c.eventCounts.FanOff++
		case EventHeaterOn:
			c.eventCounts.HeaterOn++
		case EventHeaterOff:
			c.eventCounts.HeaterOff++
		case EventLightOn:
			c.eventCounts.LightOn++
		case EventLightOff:
			c.eventCounts.LightOff++
		case EventPhaseChange:
			c.eventCounts.PhaseChanges++
		}
	}

	return Result{Commands: c.Commands(), Events: events}
}

// advancePhase maps the elapsed time since the cycle origin onto a phase.
// Elapsed time is always measured from the one origin, so the boundaries are
// cumulative. When the configured cycle length is reached the cycle restarts:
// the origin moves to now and the phase returns to germination.
func (c *Controller) advancePhase(now time.Time) Phase {
	elapsed := now.Sub(c.cycleStart)
	t1 := c.durations.Germination
	t2 := t1 + c.durations.Growth
	t3 := t2 + c.durations.Flowering

	switch {
	case elapsed < t1:
		return PhaseGermination
	case elapsed < t2:
		return PhaseGrowth
	case elapsed < t3:
		return PhaseFlowering
	default:
		c.cycleStart = now
		return PhaseGermination
	}
}

// newEvent snapshots the controller state into an event.
func (c *Controller) newEvent(ts time.Time, typ EventType) Event {
	return Event{
		Timestamp: ts,
		Type:      typ,
		Phase:     c.phase,
		Day:       c.day,
		TempC:     c.tempC,
		TempOK:    c.tempValid,
		Commands:  c.Commands(),
	}
}

// Commands returns the full desired actuator state.
func (c *Controller) Commands() Commands {
	return Commands{Fan: c.fanOn, Heater: c.heaterOn, Light: c.lightOn}
}

// Phase returns the current growth phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// CycleStart returns the origin of the current growth cycle.
func (c *Controller) CycleStart() time.Time {
	return c.cycleStart
}

// Day reports the current period. The second return is false until the first
// tick has classified it.
func (c *Controller) Day() (day bool, known bool) {
	return c.day, c.dayKnown
}

// Temperature returns the last adopted reading. The second return is false
// until the sensor has delivered at least one reading.
func (c *Controller) Temperature() (float64, bool) {
	return c.tempC, c.tempValid
}

// Counts returns the transition totals since startup.
func (c *Controller) Counts() EventCounts {
	return c.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed or
// if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.eventCounts,
	}
}
