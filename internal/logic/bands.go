package logic

import "time"

// DefaultDurations is the reference grow schedule: 10 days of germination,
// 30 days of growth, 60 days of flowering and fruiting.
var DefaultDurations = Durations{
	Germination: 240 * time.Hour,
	Growth:      720 * time.Hour,
	Flowering:   1440 * time.Hour,
}

// DefaultBands are the reference temperature targets. Growth and flowering
// currently share the same day and night bands; they are kept separate so
// either can be tuned without touching the other.
var DefaultBands = Bands{
	Germination:    Band{Min: 20, Max: 25},
	GrowthDay:      Band{Min: 18, Max: 24},
	GrowthNight:    Band{Min: 15, Max: 18},
	FloweringDay:   Band{Min: 18, Max: 24},
	FloweringNight: Band{Min: 15, Max: 18},
}

// Default day period: hours 6 through 21 are day, 22 through 5 are night.
const (
	DefaultDayStart = 6
	DefaultDayEnd   = 22
)

// For returns the active band for a phase and period. Every phase variant is
// listed; an unknown phase falls back to the germination band so the selector
// stays total.
func (b Bands) For(phase Phase, day bool) Band {
	switch phase {
	case PhaseGermination:
		// Germination ignores the period.
		return b.Germination
	case PhaseGrowth:
		if day {
			return b.GrowthDay
		}
		return b.GrowthNight
	case PhaseFlowering:
		if day {
			return b.FloweringDay
		}
		return b.FloweringNight
	}
	return b.Germination
}

// IsDay reports whether the given wall-clock hour falls inside the lighting
// window [start, end). The end hour itself is night.
func IsDay(hour, start, end int) bool {
	return hour >= start && hour < end
}
