// Package config loads the controller configuration from YAML.
//
// Every field has a default, so an empty (or absent) file yields a
// fully working configuration for a stock enclosure. Values from the
// file override defaults field by field, and ${VAR} references in the
// file body are expanded from the environment before parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GeekMada/hydropi/internal/logic"
	"github.com/GeekMada/hydropi/internal/relay"
	"github.com/GeekMada/hydropi/internal/status"
)

// Config is the full controller configuration.
type Config struct {
	Timezone  string        `yaml:"timezone"`
	Poll      time.Duration `yaml:"poll"`
	Tick      time.Duration `yaml:"tick"`
	Heartbeat time.Duration `yaml:"heartbeat"`
	HTTP      string        `yaml:"http"`
	MQTT      MQTTConfig    `yaml:"mqtt"`
	Sensor    SensorConfig  `yaml:"sensor"`
	Relays    RelayConfig   `yaml:"relays"`
	Phases    PhaseConfig   `yaml:"phases"`
	Day       DayConfig     `yaml:"day"`
	Bands     BandConfig    `yaml:"bands"`
}

// MQTTConfig selects the broker to publish to.
type MQTTConfig struct {
	Broker string `yaml:"broker"`
}

// SensorConfig selects the 1-Wire probe. An empty device means
// autodetect the first DS18B20 on the bus.
type SensorConfig struct {
	Device string `yaml:"device"`
}

// RelayConfig holds the BCM pin assignments for the relay board.
type RelayConfig struct {
	Fan       int  `yaml:"fan"`
	Heater    int  `yaml:"heater"`
	Light     int  `yaml:"light"`
	ActiveLow bool `yaml:"activeLow"`
}

// PhaseConfig holds the growth stage durations.
type PhaseConfig struct {
	Germination time.Duration `yaml:"germination"`
	Growth      time.Duration `yaml:"growth"`
	Flowering   time.Duration `yaml:"flowering"`
}

// DayConfig holds the lighting window, in local hours. Start is
// inclusive, End exclusive.
type DayConfig struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// BandConfig holds the temperature bands per stage and period.
type BandConfig struct {
	Germination BandRange   `yaml:"germination"`
	Growth      PeriodBands `yaml:"growth"`
	Flowering   PeriodBands `yaml:"flowering"`
}

// PeriodBands splits a stage's band by day and night.
type PeriodBands struct {
	Day   BandRange `yaml:"day"`
	Night BandRange `yaml:"night"`
}

// BandRange is an inclusive temperature range in degrees Celsius.
type BandRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Default returns the stock enclosure configuration.
func Default() Config {
	return Config{
		Timezone:  "Europe/Paris",
		Poll:      time.Second,
		Tick:      time.Minute,
		Heartbeat: 15 * time.Minute,
		HTTP:      ":80",
		MQTT: MQTTConfig{
			Broker: "tcp://127.0.0.1:1883",
		},
		Relays: RelayConfig{
			Fan:       relay.PinFan,
			Heater:    relay.PinHeater,
			Light:     relay.PinLight,
			ActiveLow: true,
		},
		Phases: PhaseConfig{
			Germination: logic.DefaultDurations.Germination,
			Growth:      logic.DefaultDurations.Growth,
			Flowering:   logic.DefaultDurations.Flowering,
		},
		Day: DayConfig{
			Start: logic.DefaultDayStart,
			End:   logic.DefaultDayEnd,
		},
		Bands: BandConfig{
			Germination: BandRange{Min: logic.DefaultBands.Germination.Min, Max: logic.DefaultBands.Germination.Max},
			Growth: PeriodBands{
				Day:   BandRange{Min: logic.DefaultBands.GrowthDay.Min, Max: logic.DefaultBands.GrowthDay.Max},
				Night: BandRange{Min: logic.DefaultBands.GrowthNight.Min, Max: logic.DefaultBands.GrowthNight.Max},
			},
			Flowering: PeriodBands{
				Day:   BandRange{Min: logic.DefaultBands.FloweringDay.Min, Max: logic.DefaultBands.FloweringDay.Max},
				Night: BandRange{Min: logic.DefaultBands.FloweringNight.Min, Max: logic.DefaultBands.FloweringNight.Max},
			},
		},
	}
}

// Load reads the configuration file, overlays it on the defaults and
// validates the result.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

// Parse overlays YAML content on the defaults and validates the result.
func Parse(content []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(content))), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the controller cannot
// run with.
func (c *Config) Validate() error {
	if c.Timezone == "" {
		return fmt.Errorf("config: timezone must not be empty")
	}
	if c.Poll <= 0 {
		return fmt.Errorf("config: poll interval must be positive, got %s", c.Poll)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("config: tick interval must be positive, got %s", c.Tick)
	}
	if c.Heartbeat < 0 {
		return fmt.Errorf("config: heartbeat interval must not be negative, got %s", c.Heartbeat)
	}
	if c.HTTP == "" {
		return fmt.Errorf("config: http listen address must not be empty")
	}
	if c.MQTT.Broker == "" {
		return fmt.Errorf("config: mqtt broker must not be empty")
	}

	if c.Phases.Germination <= 0 {
		return fmt.Errorf("config: germination duration must be positive, got %s", c.Phases.Germination)
	}
	if c.Phases.Growth <= 0 {
		return fmt.Errorf("config: growth duration must be positive, got %s", c.Phases.Growth)
	}
	if c.Phases.Flowering <= 0 {
		return fmt.Errorf("config: flowering duration must be positive, got %s", c.Phases.Flowering)
	}

	if c.Day.Start < 0 || c.Day.Start > 23 {
		return fmt.Errorf("config: day start must be between 0 and 23, got %d", c.Day.Start)
	}
	if c.Day.End < 1 || c.Day.End > 24 {
		return fmt.Errorf("config: day end must be between 1 and 24, got %d", c.Day.End)
	}
	if c.Day.Start >= c.Day.End {
		return fmt.Errorf("config: day start %d must come before day end %d", c.Day.Start, c.Day.End)
	}

	bands := []struct {
		name string
		band BandRange
	}{
		{"germination", c.Bands.Germination},
		{"growth day", c.Bands.Growth.Day},
		{"growth night", c.Bands.Growth.Night},
		{"flowering day", c.Bands.Flowering.Day},
		{"flowering night", c.Bands.Flowering.Night},
	}
	for _, b := range bands {
		if b.band.Min > b.band.Max {
			return fmt.Errorf("config: %s band min %.1f exceeds max %.1f", b.name, b.band.Min, b.band.Max)
		}
	}

	pins := []struct {
		name string
		pin  int
	}{
		{"fan", c.Relays.Fan},
		{"heater", c.Relays.Heater},
		{"light", c.Relays.Light},
	}
	seen := make(map[int]string)
	for _, p := range pins {
		if p.pin <= 0 {
			return fmt.Errorf("config: %s relay pin must be positive, got %d", p.name, p.pin)
		}
		if other, dup := seen[p.pin]; dup {
			return fmt.Errorf("config: %s and %s relays share pin %d", other, p.name, p.pin)
		}
		seen[p.pin] = p.name
	}

	return nil
}

// ControlSettings projects the configuration onto the control rules.
func (c *Config) ControlSettings() logic.Settings {
	return logic.Settings{
		Durations: logic.Durations{
			Germination: c.Phases.Germination,
			Growth:      c.Phases.Growth,
			Flowering:   c.Phases.Flowering,
		},
		Bands: logic.Bands{
			Germination:    logic.Band{Min: c.Bands.Germination.Min, Max: c.Bands.Germination.Max},
			GrowthDay:      logic.Band{Min: c.Bands.Growth.Day.Min, Max: c.Bands.Growth.Day.Max},
			GrowthNight:    logic.Band{Min: c.Bands.Growth.Night.Min, Max: c.Bands.Growth.Night.Max},
			FloweringDay:   logic.Band{Min: c.Bands.Flowering.Day.Min, Max: c.Bands.Flowering.Day.Max},
			FloweringNight: logic.Band{Min: c.Bands.Flowering.Night.Min, Max: c.Bands.Flowering.Night.Max},
		},
		DayStart: c.Day.Start,
		DayEnd:   c.Day.End,
	}
}

// StatusConfig projects the configuration onto the status page.
func (c *Config) StatusConfig() status.Config {
	return status.Config{
		PollMs:           c.Poll.Milliseconds(),
		TickMs:           c.Tick.Milliseconds(),
		HeartbeatMs:      c.Heartbeat.Milliseconds(),
		Broker:           c.MQTT.Broker,
		HTTPAddr:         c.HTTP,
		Timezone:         c.Timezone,
		DayStart:         c.Day.Start,
		DayEnd:           c.Day.End,
		GerminationHours: int64(c.Phases.Germination.Hours()),
		GrowthHours:      int64(c.Phases.Growth.Hours()),
		FloweringHours:   int64(c.Phases.Flowering.Hours()),
	}
}
