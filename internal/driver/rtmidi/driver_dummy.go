//go:build !linux || !cgo
// +build !linux !cgo

package rtmidi

import (
	"errors"

	"github.com/hetima/midihook/sdk/contracts"
)

// NewDriver reports that the rtmidi backend needs Linux.
func NewDriver(_ *contracts.Options) (contracts.Driver, error) {
	return nil, errors.New("rtmidi driver is only available on Linux")
}
