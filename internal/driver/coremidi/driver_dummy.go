//go:build !darwin
// +build !darwin

package coremidi

import (
	"errors"

	"github.com/hetima/midihook/sdk/contracts"
)

// NewDriver reports that the CoreMIDI backend needs macOS.
func NewDriver(_ *contracts.Options) (contracts.Driver, error) {
	return nil, errors.New("coremidi driver is only available on macOS")
}
