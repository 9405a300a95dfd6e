package sensor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DS18B20 measurement limits per the datasheet.
const (
	minTempC = -55.0
	maxTempC = 125.0
)

// parseW1 extracts the temperature from the two-line w1_slave format:
//
//	53 01 4b 46 7f ff 0c 10 2d : crc=2d YES
//	53 01 4b 46 7f ff 0c 10 2d t=21187
//
// The first line carries the CRC verdict, the second the reading in
// millidegrees. A failed CRC or an out-of-range value is an error so the
// control loop treats the sample as a fault rather than acting on garbage.
func parseW1(raw string) (float64, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 2 {
		return 0, errors.New("short w1_slave output")
	}

	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, errors.New("probe CRC check failed")
	}

	idx := strings.LastIndex(lines[1], "t=")
	if idx < 0 {
		return 0, errors.New("no temperature in w1_slave output")
	}

	milli, err := strconv.Atoi(strings.TrimSpace(lines[1][idx+2:]))
	if err != nil {
		return 0, fmt.Errorf("parse temperature: %w", err)
	}

	t := float64(milli) / 1000.0
	if t < minTempC || t > maxTempC {
		return 0, fmt.Errorf("temperature %.3f out of probe range", t)
	}

	// 85.000 is the DS18B20 power-on reset value; a conversion that was read
	// before it finished reports it. Discard rather than chase a phantom
	// heat spike.
	if milli == 85000 {
		return 0, errors.New("probe returned power-on reset value")
	}

	return t, nil
}
