//go:build linux

package relay

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealWriter drives relays on actual hardware using the Linux GPIO character
// device.
type RealWriter struct {
	chip      *gpiocdev.Chip
	lines     map[Line]*gpiocdev.Line
	activeLow bool
}

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

// NewRealWriter requests the three relay pins as outputs, all off. Most relay
// boards energize on a low level; activeLow matches the board's input sense.
func NewRealWriter(pins Pins, activeLow bool) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &RealWriter{
		chip:      chip,
		lines:     make(map[Line]*gpiocdev.Line),
		activeLow: activeLow,
	}

	for _, req := range []struct {
		line Line
		pin  int
	}{
		{Fan, pins.Fan},
		{Heater, pins.Heater},
		{Light, pins.Light},
	} {
		l, err := chip.RequestLine(req.pin, gpiocdev.AsOutput(w.level(false)))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", req.line, req.pin, err)
		}
		w.lines[req.line] = l
	}

	return w, nil
}

// Set drives the relay for the given line.
func (w *RealWriter) Set(line Line, on bool) error {
	l, ok := w.lines[line]
	if !ok {
		return fmt.Errorf("unknown relay line %q", line)
	}
	if err := l.SetValue(w.level(on)); err != nil {
		return fmt.Errorf("set %s relay: %w", line, err)
	}
	return nil
}

// level translates a logical state to the raw pin level.
func (w *RealWriter) level(on bool) int {
	if w.activeLow {
		on = !on
	}
	if on {
		return 1
	}
	return 0
}

// Close drives every relay off and releases GPIO resources. Leaving the
// outputs de-energized means a daemon restart never strands a heater on.
func (w *RealWriter) Close() error {
	var errs []error

	for line, l := range w.lines {
		if err := l.SetValue(w.level(false)); err != nil {
			errs = append(errs, fmt.Errorf("park %s relay: %w", line, err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", line, err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
