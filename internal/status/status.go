// Package status provides a thread-safe status tracker for the hydropi
// daemon. It is written by the control loop and read by the HTTP handlers and
// the MQTT status events.
package status

import (
	"sync"
	"time"

	"github.com/GeekMada/hydropi/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs           int64
	TickMs           int64
	HeartbeatMs      int64
	Broker           string
	HTTPAddr         string
	Timezone         string
	DayStart         int
	DayEnd           int
	GerminationHours int64
	GrowthHours      int64
	FloweringHours   int64
}

// ControlState is the controller-owned portion of the snapshot, written once
// per control tick.
type ControlState struct {
	Phase      logic.Phase
	Day        bool
	DayKnown   bool
	TempC      float64
	TempValid  bool
	Fan        bool
	Heater     bool
	Light      bool
	CycleStart time.Time
	Counts     logic.EventCounts
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Control         ControlState
	StartTime       time.Time
	Now             time.Time
	MQTTConnected   bool
	ControlRequests int64
	Network         *NetworkInfo
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// CycleElapsed returns the time spent in the current growth cycle. Zero
// before the first tick has recorded a cycle origin.
func (s Snapshot) CycleElapsed() time.Duration {
	if s.Control.CycleStart.IsZero() {
		return 0
	}
	return s.Now.Sub(s.Control.CycleStart)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the controller state. Called from the control loop on every
// tick.
func (t *Tracker) Update(cs ControlState) {
	t.mu.Lock()
	t.snap.Control = cs
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// AddControlRequest counts one accepted control endpoint request. Called
// from the HTTP handler goroutine.
func (t *Tracker) AddControlRequest() {
	t.mu.Lock()
	t.snap.ControlRequests++
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
