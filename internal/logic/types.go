// Package logic contains the pure control rules for the growing enclosure:
// growth phase scheduling, day/night classification, temperature band
// selection and the heater/fan threshold policy. This package has NO
// external dependencies (no GPIO, 1-Wire, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Phase is a stage of the growth cycle. Phases advance in a fixed order and
// wrap back to germination when the cycle completes.
type Phase string

const (
	PhaseGermination Phase = "GERMINATION"
	PhaseGrowth      Phase = "GROWTH"
	PhaseFlowering   Phase = "FLOWERING"
)

// Label returns the display name used on the status pages and in telemetry.
func (p Phase) Label() string {
	switch p {
	case PhaseGrowth:
		return "Croissance"
	case PhaseFlowering:
		return "Floraison et fructification"
	default:
		return "Germination"
	}
}

// Durations holds the length of each growth phase. A full cycle is their sum.
type Durations struct {
	Germination time.Duration
	Growth      time.Duration
	Flowering   time.Duration
}

// Cycle returns the total length of one growth cycle.
func (d Durations) Cycle() time.Duration {
	return d.Germination + d.Growth + d.Flowering
}

// Band is an inclusive temperature range in degrees Celsius. Temperatures
// inside the band require no actuator change.
type Band struct {
	Min float64
	Max float64
}

// Bands holds the target band for every phase and period combination.
// Germination uses a single band regardless of period.
type Bands struct {
	Germination    Band
	GrowthDay      Band
	GrowthNight    Band
	FloweringDay   Band
	FloweringNight Band
}

// Settings carries the tunable policy for a Controller.
type Settings struct {
	Durations Durations
	Bands     Bands
	DayStart  int // first hour of the day period (inclusive)
	DayEnd    int // first hour of the night period (day is exclusive of it)
}

// Input is one control sample handed to Tick.
type Input struct {
	Now    time.Time
	Hour   int     // local wall-clock hour, 0..23
	TempC  float64 // valid only when TempOK
	TempOK bool    // false means the sensor produced no reading this tick
}

// Commands is the full desired actuator state after a tick. The caller
// applies it to the relay outputs; repeated application is harmless.
type Commands struct {
	Fan    bool
	Heater bool
	Light  bool
}

// EventType identifies a state transition to be published.
type EventType string

const (
	EventFanOn       EventType = "FAN_ON"
	EventFanOff      EventType = "FAN_OFF"
	EventHeaterOn    EventType = "HEATER_ON"
	EventHeaterOff   EventType = "HEATER_OFF"
	EventLightOn     EventType = "LIGHT_ON"
	EventLightOff    EventType = "LIGHT_OFF"
	EventPhaseChange EventType = "PHASE_CHANGE"
)

// Event is a single state transition detected during a tick, carrying the
// controller state after the transition was applied.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Phase     Phase
	Day       bool
	TempC     float64
	TempOK    bool
	Commands  Commands
}

// EventCounts tracks the number of each transition since startup.
type EventCounts struct {
	FanOn        int
	FanOff       int
	HeaterOn     int
	HeaterOff    int
	LightOn      int
	LightOff     int
	PhaseChanges int
}

// Total returns the sum of all transition counts.
func (c EventCounts) Total() int {
	return c.FanOn + c.FanOff + c.HeaterOn + c.HeaterOff +
		c.LightOn + c.LightOff + c.PhaseChanges
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
