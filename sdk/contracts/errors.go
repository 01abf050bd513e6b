package contracts

import "errors"

// Error taxonomy for device lifecycle operations. OS-level failures are
// wrapped with fmt.Errorf("%w: ...") so callers can test with errors.Is
// while the underlying failure code stays visible in the message.
var (
	// ErrEnumerationFailed reports that an OS device query failed. No
	// partial device list is exposed; the previously enumerated set is
	// retained.
	ErrEnumerationFailed = errors.New("device enumeration failed")

	// ErrUnknownDevice reports an id or name absent from the last
	// enumeration.
	ErrUnknownDevice = errors.New("unknown device")

	// ErrAlreadyOpen reports an open of a device id that already holds a
	// handle. Callers must close first; the open is rejected, not
	// silently accepted.
	ErrAlreadyOpen = errors.New("device already open")

	// ErrNotOpen reports a close or send for a device id with no
	// recorded handle.
	ErrNotOpen = errors.New("device not open")

	// ErrOpenFailed wraps an OS handle acquisition failure.
	ErrOpenFailed = errors.New("device open failed")

	// ErrCloseFailed wraps an OS handle release failure. The registry
	// slot is freed regardless.
	ErrCloseFailed = errors.New("device close failed")

	// ErrStartFailed wraps an OS failure to begin input monitoring.
	ErrStartFailed = errors.New("input start failed")

	// ErrStopFailed wraps an OS failure to halt input monitoring or to
	// reset an output.
	ErrStopFailed = errors.New("input stop failed")

	// ErrDecodeUnsupported reports a status byte outside the recognized
	// set. The dispatcher swallows it; it never halts the event stream.
	ErrDecodeUnsupported = errors.New("unsupported midi message")
)
