package relay

// Bank wraps a Writer and skips writes that would not change relay state.
// The control loop re-applies its full desired state every tick; the bank
// keeps that idempotent so the relays only ever see real transitions.
type Bank struct {
	w    Writer
	last map[Line]bool
}

// NewBank creates a bank over the given writer.
func NewBank(w Writer) *Bank {
	return &Bank{w: w, last: make(map[Line]bool)}
}

// Set forwards the write when the line state actually changes. The first
// write on each line always reaches the hardware so startup establishes a
// known state. A failed write is not recorded, so it is retried on the next
// tick.
func (b *Bank) Set(line Line, on bool) error {
	if prev, ok := b.last[line]; ok && prev == on {
		return nil
	}
	if err := b.w.Set(line, on); err != nil {
		return err
	}
	b.last[line] = on
	return nil
}

// Close closes the underlying writer.
func (b *Bank) Close() error {
	return b.w.Close()
}
