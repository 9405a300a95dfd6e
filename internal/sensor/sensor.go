// Package sensor provides enclosure temperature reading with hardware
// abstraction. The real implementation reads a DS18B20 probe through the
// Linux 1-Wire sysfs interface. The fake implementation allows testing
// without hardware.
package sensor

// Reader reads the enclosure temperature.
type Reader interface {
	// Read returns the temperature in degrees Celsius.
	// An error means no reading could be taken; the caller keeps acting on
	// its last known value.
	Read() (float64, error)

	// Close releases sensor resources.
	Close() error
}
