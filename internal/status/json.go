package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event               string       `json:"event,omitempty"`
	Reason              string       `json:"reason,omitempty"`
	Temperature         *float64     `json:"temperature"` // null until the probe has delivered
	GrowthStage         string       `json:"growth_stage"`
	IsDay               bool         `json:"is_day"`
	Fan                 bool         `json:"fan"`
	Heater              bool         `json:"heater"`
	Light               bool         `json:"light"`
	CycleStart          string       `json:"cycle_start"`
	CycleElapsedSeconds int64        `json:"cycle_elapsed_seconds"`
	UptimeSeconds       int64        `json:"uptime_seconds"`
	StartTime           string       `json:"start_time"`
	Timestamp           string       `json:"timestamp"`
	MQTT                MQTTStatus   `json:"mqtt"`
	Counts              CountsJSON   `json:"event_counts"`
	ControlRequests     int64        `json:"control_requests"`
	Network             *NetworkJSON `json:"network,omitempty"`
	Config              ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	FanOn        int `json:"fan_on"`
	FanOff       int `json:"fan_off"`
	HeaterOn     int `json:"heater_on"`
	HeaterOff    int `json:"heater_off"`
	LightOn      int `json:"light_on"`
	LightOff     int `json:"light_off"`
	PhaseChanges int `json:"phase_changes"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs           int64  `json:"poll_ms"`
	TickMs           int64  `json:"tick_ms"`
	HeartbeatMs      int64  `json:"heartbeat_ms"`
	Broker           string `json:"broker"`
	HTTPAddr         string `json:"http_addr"`
	Timezone         string `json:"timezone"`
	DayStart         int    `json:"day_start"`
	DayEnd           int    `json:"day_end"`
	GerminationHours int64  `json:"germination_hours"`
	GrowthHours      int64  `json:"growth_hours"`
	FloweringHours   int64  `json:"flowering_hours"`
}

func buildInner(snap Snapshot) StatusInner {
	var temp *float64
	if snap.Control.TempValid {
		t := snap.Control.TempC
		temp = &t
	}

	cycleStart := ""
	if !snap.Control.CycleStart.IsZero() {
		cycleStart = snap.Control.CycleStart.UTC().Format(time.RFC3339)
	}

	return StatusInner{
		Temperature:         temp,
		GrowthStage:         snap.Control.Phase.Label(),
		IsDay:               snap.Control.Day,
		Fan:                 snap.Control.Fan,
		Heater:              snap.Control.Heater,
		Light:               snap.Control.Light,
		CycleStart:          cycleStart,
		CycleElapsedSeconds: int64(snap.CycleElapsed().Truncate(time.Second).Seconds()),
		UptimeSeconds:       int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:           snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:           snap.Now.UTC().Format(time.RFC3339),
		MQTT:                MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			FanOn:        snap.Control.Counts.FanOn,
			FanOff:       snap.Control.Counts.FanOff,
			HeaterOn:     snap.Control.Counts.HeaterOn,
			HeaterOff:    snap.Control.Counts.HeaterOff,
			LightOn:      snap.Control.Counts.LightOn,
			LightOff:     snap.Control.Counts.LightOff,
			PhaseChanges: snap.Control.Counts.PhaseChanges,
		},
		ControlRequests: snap.ControlRequests,
		Config: ConfigJSON{
			PollMs:           snap.Config.PollMs,
			TickMs:           snap.Config.TickMs,
			HeartbeatMs:      snap.Config.HeartbeatMs,
			Broker:           snap.Config.Broker,
			HTTPAddr:         snap.Config.HTTPAddr,
			Timezone:         snap.Config.Timezone,
			DayStart:         snap.Config.DayStart,
			DayEnd:           snap.Config.DayEnd,
			GerminationHours: snap.Config.GerminationHours,
			GrowthHours:      snap.Config.GrowthHours,
			FloweringHours:   snap.Config.FloweringHours,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
