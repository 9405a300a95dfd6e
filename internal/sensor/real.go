//go:build linux

package sensor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const w1Dir = "/sys/bus/w1/devices"

// RealReader reads a DS18B20 probe through the w1-gpio sysfs interface.
type RealReader struct {
	path string // full path to the probe's w1_slave file
}

// NewRealReader opens the probe with the given 1-Wire device ID, e.g.
// "28-0316a2799f7b". An empty ID autodetects the first DS18B20 on the bus.
func NewRealReader(device string) (*RealReader, error) {
	if device == "" {
		var err error
		device, err = detectProbe()
		if err != nil {
			return nil, err
		}
	}

	path := filepath.Join(w1Dir, device, "w1_slave")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open probe %s: %w", device, err)
	}

	return &RealReader{path: path}, nil
}

// detectProbe scans the 1-Wire bus for the first DS18B20 family device.
func detectProbe() (string, error) {
	entries, err := os.ReadDir(w1Dir)
	if err != nil {
		return "", fmt.Errorf("scan 1-wire bus (is w1-gpio loaded?): %w", err)
	}

	for _, e := range entries {
		// The DS18B20 family code is 0x28.
		if strings.HasPrefix(e.Name(), "28-") {
			return e.Name(), nil
		}
	}

	return "", errors.New("no DS18B20 probe found on 1-wire bus")
}

// Read takes one measurement. The kernel driver performs the conversion,
// which holds the read for up to 750ms.
func (r *RealReader) Read() (float64, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return 0, fmt.Errorf("read probe: %w", err)
	}
	return parseW1(string(raw))
}

// Close releases sensor resources. The sysfs interface holds no state.
func (r *RealReader) Close() error {
	return nil
}
