// Package relay drives the enclosure actuator relays with hardware
// abstraction. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package relay

// Line identifies one actuator relay.
type Line string

const (
	Fan    Line = "fan"
	Heater Line = "heater"
	Light  Line = "light"
)

// Writer sets actuator relay states.
type Writer interface {
	// Set drives the relay for the given line to on or off.
	// Setting a relay to its current state is harmless.
	Set(line Line, on bool) error

	// Close releases GPIO resources, leaving every relay off.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	PinFan    = 26 // extraction fan
	PinHeater = 16 // heating mat
	PinLight  = 12 // grow light
)
