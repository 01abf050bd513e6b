package midihook

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/hetima/midihook/internal/driver/coremidi"
	"github.com/hetima/midihook/internal/driver/rtmidi"
	"github.com/hetima/midihook/internal/driver/winmm"
	"github.com/hetima/midihook/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system has no MIDI driver.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// driverInitializers maps OS names to corresponding MIDI driver initializers.
var driverInitializers = map[string]func(*contracts.Options) (contracts.Driver, error){
	"darwin":  coremidi.NewDriver, // macOS (Darwin) CoreMIDI driver.
	"windows": winmm.NewDriver,    // Windows winmm driver.
	"linux":   rtmidi.NewDriver,   // Linux rtmidi driver.
}

// newDriver initializes the MIDI driver for the current operating system,
// returning ErrUnsupportedOS when there is none.
func newDriver(opts *contracts.Options) (contracts.Driver, error) {
	if initializer, exists := driverInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}
