//go:build !linux

package relay

import "errors"

// RealWriter is not available on non-Linux platforms.
type RealWriter struct{}

// Pins maps each relay line to a BCM pin number.
type Pins struct {
	Fan    int
	Heater int
	Light  int
}

// DefaultPins returns the reference wiring.
func DefaultPins() Pins {
	return Pins{Fan: PinFan, Heater: PinHeater, Light: PinLight}
}

// NewRealWriter returns an error on non-Linux platforms.
func NewRealWriter(pins Pins, activeLow bool) (*RealWriter, error) {
	return nil, errors.New("relay: not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (w *RealWriter) Set(line Line, on bool) error {
	return errors.New("relay: not supported")
}

// Close is not implemented on non-Linux platforms.
func (w *RealWriter) Close() error {
	return nil
}
