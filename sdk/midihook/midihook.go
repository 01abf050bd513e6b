// Package midihook is the public entry point for the MIDI event engine.
// It opens hardware devices through the platform driver, decodes incoming
// short messages into events and delivers each event to every registered
// handler whose identifier matches, with optional pass-through of
// unhandled messages to every open output.
package midihook

import (
	"github.com/hetima/midihook/internal/engine"
	"github.com/hetima/midihook/sdk/contracts"
)

// New creates a MIDI engine with the specified options. The platform driver
// is chosen from the current operating system unless WithDriver supplies one.
//
// opts ...contracts.Option: A variadic list of option functions to customize the engine configuration.
//
// Returns:
//   - contracts.Engine: A running engine with both device directions enumerated.
//   - error: An error if the driver could not start or enumeration failed.
func New(opts ...contracts.Option) (contracts.Engine, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	ownDriver := options.Driver == nil
	if ownDriver {
		drv, err := newDriver(&options)
		if err != nil {
			return nil, err
		}
		options.Driver = drv
	}

	eng, err := engine.New(&options)
	if err != nil {
		// A driver created here is released again; an injected one stays
		// with its owner.
		if ownDriver {
			_ = options.Driver.Shutdown()
		}
		return nil, err
	}
	return eng, nil
}
