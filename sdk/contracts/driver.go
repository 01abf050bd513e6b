package contracts

// RawCallback receives one packed short message together with the input
// handle it arrived on. Drivers invoke it from their OS callback context,
// so implementations must return quickly and must not call back into the
// driver.
type RawCallback func(raw uint32, source DeviceHandle)

// Driver is the boundary to one OS MIDI backend. A single Driver instance
// serves both device directions. Drivers perform no bookkeeping beyond what
// the OS requires; open-handle accounting and precondition checks belong to
// the device manager, which is also the only caller of these methods.
type Driver interface {
	// Enumerate queries the OS for all devices in the given direction,
	// in OS index order. Any per-device query failure fails the whole
	// enumeration; no partial list is returned.
	Enumerate(dir Direction) ([]DeviceDescriptor, error)

	// Open acquires an OS handle for the device at the given index.
	Open(dir Direction, deviceID int) (DeviceHandle, error)

	// Close releases an OS handle obtained from Open.
	Close(dir Direction, h DeviceHandle) error

	// Start begins hardware monitoring on an open input handle. Messages
	// are reported through the subscribed callback.
	Start(h DeviceHandle) error

	// Stop halts hardware monitoring on an open input handle.
	Stop(h DeviceHandle) error

	// Reset silences an open output handle (releases pending notes)
	// without closing it.
	Reset(h DeviceHandle) error

	// SendShort writes one packed short message to an open output handle.
	SendShort(h DeviceHandle, raw uint32) error

	// Subscribe installs the process-wide raw message callback. At most
	// one callback is installed at a time; a second Subscribe replaces
	// the first.
	Subscribe(cb RawCallback)

	// Unsubscribe removes the installed callback. Messages arriving
	// afterwards are discarded by the driver.
	Unsubscribe()

	// Shutdown releases driver-level resources. Called once, after all
	// handles have been closed.
	Shutdown() error
}
