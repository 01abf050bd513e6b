package contracts

// Engine is the host-facing surface of the MIDI engine. Device ids are the
// zero-based indices from the most recent enumeration in the respective
// direction; name-based variants do an exact-match scan over that same set.
//
// All methods are safe for concurrent use. Handlers run on the engine's
// single event goroutine and must not call Close.
type Engine interface {
	// Devices queries the OS anew and returns the devices in the given
	// direction. On failure the previously enumerated set stays in
	// effect for id and name lookups.
	Devices(dir Direction) ([]DeviceDescriptor, error)

	// LookupInput scans the last enumerated input set for an exact name
	// match. Absence is reported via the bool, not an error.
	LookupInput(name string) (DeviceDescriptor, bool)

	// LookupOutput is LookupInput for the output direction.
	LookupOutput(name string) (DeviceDescriptor, bool)

	// OpenInput opens the input device with the given id and starts
	// monitoring it. The id is returned as the confirmation token.
	OpenInput(deviceID int) (int, error)

	// OpenInputByName resolves name against the last enumeration and
	// opens the match.
	OpenInputByName(name string) (int, error)

	// CloseInput stops monitoring and closes the input device.
	CloseInput(deviceID int) error

	// CloseInputByName resolves name and closes the match.
	CloseInputByName(name string) error

	// OpenOutput opens the output device with the given id.
	OpenOutput(deviceID int) (int, error)

	// OpenOutputByName resolves name against the last enumeration and
	// opens the match.
	OpenOutputByName(name string) (int, error)

	// CloseOutput silences and closes the output device.
	CloseOutput(deviceID int) error

	// CloseOutputByName resolves name and closes the match.
	CloseOutputByName(name string) error

	// CloseAllInputs closes every open input.
	CloseAllInputs() error

	// CloseAllOutputs closes every open output.
	CloseAllOutputs() error

	// OpenInputIDs returns the ids of the currently open inputs,
	// ascending.
	OpenInputIDs() []int

	// OpenOutputIDs returns the ids of the currently open outputs,
	// ascending.
	OpenOutputIDs() []int

	// Send writes one packed short message to the open output with the
	// given id.
	Send(deviceID int, raw uint32) error

	// CurrentEvent returns the most recently decoded event, if any.
	CurrentEvent() (MidiEvent, bool)

	// CurrentEventFrom returns the most recent event decoded from the
	// open input with the given id, if any.
	CurrentEventFrom(deviceID int) (MidiEvent, bool)

	// SetDispatch toggles handler delivery at runtime.
	SetDispatch(enabled bool)

	// SetPassThrough toggles pass-through forwarding at runtime.
	SetPassThrough(enabled bool)

	// Close closes all devices, releases the driver and stops the event
	// goroutine. Close is idempotent; it must not be called from a
	// handler.
	Close() error
}
