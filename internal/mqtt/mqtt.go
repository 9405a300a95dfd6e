// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/GeekMada/hydropi/internal/logic"
)

// Topic is the MQTT topic for enclosure transition events.
const Topic = "hydro/enclosure/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "hydro/enclosure/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an enclosure event to the broker.
	// Returns error if publishing fails (must not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Enclosure EnclosurePayload `json:"enclosure"`
}

// EnclosurePayload contains the enclosure event details.
type EnclosurePayload struct {
	Timestamp   string           `json:"timestamp"`
	Event       string           `json:"event"`
	Stage       string           `json:"stage"`
	Day         bool             `json:"day"`
	Temperature *float64         `json:"temperature"` // null until the probe has delivered
	Actuators   ActuatorsPayload `json:"actuators"`
}

// ActuatorsPayload holds the actuator states after the event.
type ActuatorsPayload struct {
	Fan    string `json:"fan"`
	Heater string `json:"heater"`
	Light  string `json:"light"`
}

// FormatPayload creates the JSON payload for an enclosure event.
func FormatPayload(event logic.Event) ([]byte, error) {
	var temp *float64
	if event.TempOK {
		t := event.TempC
		temp = &t
	}

	payload := Payload{
		Enclosure: EnclosurePayload{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
			Event:       string(event.Type),
			Stage:       event.Phase.Label(),
			Day:         event.Day,
			Temperature: temp,
			Actuators: ActuatorsPayload{
				Fan:    onOff(event.Commands.Fan),
				Heater: onOff(event.Commands.Heater),
				Light:  onOff(event.Commands.Light),
			},
		},
	}
	return json.Marshal(payload)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// WillPayload is the last-will message the broker publishes on our behalf if
// the connection dies without a clean shutdown. It carries no timestamp: the
// broker sends it at an unknown later moment.
func WillPayload() []byte {
	b, _ := json.Marshal(SystemPayload{System: SystemPayloadInner{Event: "OFFLINE"}})
	return b
}
