package audit

// Writer defines the interface for audit log writers.
//
// Implementations must return an error if the write fails, flush before
// returning from Write, and maintain the hash chain (HashPrev, Hash).
type Writer interface {
	// Write validates the event, chains it to the previous one and
	// persists it.
	Write(event *Event) error

	// Close flushes any pending writes and closes the writer.
	Close() error

	// LastHash returns the hash of the last written event, or GenesisHash.
	LastHash() string
}

// NopWriter discards all events. Used when audit logging is disabled.
type NopWriter struct{}

var _ Writer = (*NopWriter)(nil)

func (NopWriter) Write(*Event) error { return nil }
func (NopWriter) Close() error       { return nil }
func (NopWriter) LastHash() string   { return GenesisHash }
