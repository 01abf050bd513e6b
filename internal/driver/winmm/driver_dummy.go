//go:build !windows
// +build !windows

package winmm

import (
	"errors"

	"github.com/hetima/midihook/sdk/contracts"
)

// NewDriver reports that the winmm backend needs Windows.
func NewDriver(_ *contracts.Options) (contracts.Driver, error) {
	return nil, errors.New("winmm driver is only available on Windows")
}
