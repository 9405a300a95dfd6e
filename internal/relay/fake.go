package relay

// FakeWriter is a test double that records relay commands.
type FakeWriter struct {
	// Commands contains every Set call in order.
	Commands []Command

	// States holds the latest state written per line.
	States map[Line]bool

	// SetError, if set, will be returned by Set()
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// Command records a single Set call.
type Command struct {
	Line Line
	On   bool
}

// NewFakeWriter creates an empty FakeWriter.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{States: make(map[Line]bool)}
}

// Set records the command.
func (f *FakeWriter) Set(line Line, on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Commands = append(f.Commands, Command{Line: line, On: on})
	f.States[line] = on
	return nil
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded commands and states.
func (f *FakeWriter) Reset() {
	f.Commands = nil
	f.States = make(map[Line]bool)
	f.Closed = false
}
