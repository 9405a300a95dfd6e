package sensor

import "errors"

// FakeReader is a test double that returns scripted temperature readings.
type FakeReader struct {
	// Samples contains scripted readings to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Reads counts Read() calls, including failed ones
	Reads int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by every Read()
	ReadError error
}

// Sample represents a single scripted reading. Fail simulates a probe fault
// for that one call.
type Sample struct {
	TempC float64
	Fail  bool
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (float64, error) {
	f.Reads++

	if f.ReadError != nil {
		return 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	if sample.Fail {
		return 0, errors.New("scripted probe fault")
	}

	return sample.TempC, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Reads = 0
	f.Closed = false
}
