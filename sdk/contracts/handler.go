package contracts

// Handler consumes one decoded event. Handlers run synchronously on the
// engine's event goroutine: a slow or blocking handler stalls all
// subsequent MIDI delivery.
type Handler func(event MidiEvent)

// HandlerRegistry resolves candidate handler identifiers to handlers. The
// engine generates identifiers from the configured prefix plus event
// properties ("Midi", "MidiNoteOn", "MidiNoteOnC#3", "MidiClock", ...) and
// queries them most-generic first; every identifier that resolves is
// invoked.
type HandlerRegistry interface {
	// Resolve returns the handler registered for id, if any.
	Resolve(id string) (Handler, bool)
}
