package contracts

// DebugSink observes decoded events and device state transitions for
// display or logging. It never affects control flow: the engine ignores
// anything a sink does, and delivery continues identically whether a sink
// is configured or not.
//
// Sink methods are invoked synchronously from the engine, in some cases
// while internal locks are held. They must return quickly and must not
// call back into the engine.
type DebugSink interface {
	// EventDecoded is called for every successfully decoded event,
	// before handler delivery.
	EventDecoded(event MidiEvent)

	// DeviceStateChanged is called when a device is opened (open true)
	// or closed (open false).
	DeviceStateChanged(dir Direction, device DeviceDescriptor, open bool)
}
