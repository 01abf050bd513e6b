//go:build windows
// +build windows

// Package winmm implements the MIDI driver on top of winmm.dll.
package winmm

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/hetima/midihook/sdk/contracts"
)

// Type definitions for MIDI handles
type (
	HMIDIIN  windows.Handle
	HMIDIOUT windows.Handle
)

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MMSYSERR_NOERROR = 0

	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_LONGDATA  = 0x3C4 // Long MIDI data received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// Struct representing MIDI input device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Struct representing MIDI output device capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// Load the winmm.dll library and required functions
var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs  = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps  = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen        = winmm.NewProc("midiInOpen")
	procMidiInStart       = winmm.NewProc("midiInStart")
	procMidiInStop        = winmm.NewProc("midiInStop")
	procMidiInClose       = winmm.NewProc("midiInClose")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutReset      = winmm.NewProc("midiOutReset")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// Driver talks to winmm.dll. winmm itself is process global, so the
// instance only carries the logger, the callback trampoline and the
// subscriber slot.
type Driver struct {
	log      contracts.Logger
	callback uintptr
	sub      atomic.Value // contracts.RawCallback
}

// NewDriver creates the MIDI driver for Windows. The callback trampoline
// is registered once here; windows.NewCallback never releases its slot.
func NewDriver(options *contracts.Options) (contracts.Driver, error) {
	d := &Driver{log: options.Logger}
	d.callback = windows.NewCallback(midiInProc)
	d.sub.Store(contracts.RawCallback(nil))
	d.log.Debug("winmm driver ready")
	return d, nil
}

// Enumerate lists the available MIDI devices in one direction.
func (d *Driver) Enumerate(dir contracts.Direction) ([]contracts.DeviceDescriptor, error) {
	if dir == contracts.DirectionOutput {
		return d.enumerateOutputs()
	}
	return d.enumerateInputs()
}

func (d *Driver) enumerateInputs() ([]contracts.DeviceDescriptor, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	count := uint32(r0)

	devices := make([]contracts.DeviceDescriptor, 0, count)
	for i := uint32(0); i < count; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != MMSYSERR_NOERROR {
			return nil, mmError(fmt.Sprintf("midiInGetDevCapsW device %d", i), r1)
		}
		devices = append(devices, contracts.DeviceDescriptor{
			ID:             int(i),
			Name:           windows.UTF16ToString(caps.szPname[:]),
			ManufacturerID: int(caps.wMid),
			ProductID:      int(caps.wPid),
			Version:        driverVersion(caps.vDriverVersion),
		})
	}
	return devices, nil
}

func (d *Driver) enumerateOutputs() ([]contracts.DeviceDescriptor, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	count := uint32(r0)

	devices := make([]contracts.DeviceDescriptor, 0, count)
	for i := uint32(0); i < count; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != MMSYSERR_NOERROR {
			return nil, mmError(fmt.Sprintf("midiOutGetDevCapsW device %d", i), r1)
		}
		devices = append(devices, contracts.DeviceDescriptor{
			ID:             int(i),
			Name:           windows.UTF16ToString(caps.szPname[:]),
			ManufacturerID: int(caps.wMid),
			ProductID:      int(caps.wPid),
			Version:        driverVersion(caps.vDriverVersion),
		})
	}
	return devices, nil
}

// Open acquires an OS handle for the device at the given winmm index. Input
// handles are opened with the callback trampoline attached; the subscriber
// slot decides whether messages go anywhere.
func (d *Driver) Open(dir contracts.Direction, deviceID int) (contracts.DeviceHandle, error) {
	if dir == contracts.DirectionOutput {
		var h HMIDIOUT
		r1, _, _ := procMidiOutOpen.Call(
			uintptr(unsafe.Pointer(&h)),
			uintptr(deviceID),
			0,
			0,
			0,
		)
		if r1 != MMSYSERR_NOERROR {
			return 0, mmError(fmt.Sprintf("midiOutOpen device %d", deviceID), r1)
		}
		return contracts.DeviceHandle(h), nil
	}

	var h HMIDIIN
	r1, _, _ := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&h)),
		uintptr(deviceID),
		d.callback,
		uintptr(unsafe.Pointer(d)),
		CALLBACK_FUNCTION|MIDI_IO_STATUS,
	)
	if r1 != MMSYSERR_NOERROR {
		return 0, mmError(fmt.Sprintf("midiInOpen device %d", deviceID), r1)
	}
	return contracts.DeviceHandle(h), nil
}

// Close releases an OS handle obtained from Open.
func (d *Driver) Close(dir contracts.Direction, h contracts.DeviceHandle) error {
	if dir == contracts.DirectionOutput {
		r1, _, _ := procMidiOutClose.Call(uintptr(h))
		if r1 != MMSYSERR_NOERROR {
			return mmError("midiOutClose", r1)
		}
		return nil
	}
	r1, _, _ := procMidiInClose.Call(uintptr(h))
	if r1 != MMSYSERR_NOERROR {
		return mmError("midiInClose", r1)
	}
	return nil
}

// Start begins hardware monitoring on an open input handle.
func (d *Driver) Start(h contracts.DeviceHandle) error {
	r1, _, _ := procMidiInStart.Call(uintptr(h))
	if r1 != MMSYSERR_NOERROR {
		return mmError("midiInStart", r1)
	}
	return nil
}

// Stop halts hardware monitoring on an open input handle.
func (d *Driver) Stop(h contracts.DeviceHandle) error {
	r1, _, _ := procMidiInStop.Call(uintptr(h))
	if r1 != MMSYSERR_NOERROR {
		return mmError("midiInStop", r1)
	}
	return nil
}

// Reset silences an open output handle, releasing any sounding notes.
func (d *Driver) Reset(h contracts.DeviceHandle) error {
	r1, _, _ := procMidiOutReset.Call(uintptr(h))
	if r1 != MMSYSERR_NOERROR {
		return mmError("midiOutReset", r1)
	}
	return nil
}

// SendShort writes one packed short message to an open output handle.
func (d *Driver) SendShort(h contracts.DeviceHandle, raw uint32) error {
	r1, _, _ := procMidiOutShortMsg.Call(uintptr(h), uintptr(raw))
	if r1 != MMSYSERR_NOERROR {
		return mmError("midiOutShortMsg", r1)
	}
	return nil
}

// Subscribe installs the raw message callback shared by all open inputs.
func (d *Driver) Subscribe(cb contracts.RawCallback) {
	d.sub.Store(cb)
}

// Unsubscribe removes the installed callback. A typed nil is stored because
// atomic.Value must always hold the same concrete type.
func (d *Driver) Unsubscribe() {
	d.sub.Store(contracts.RawCallback(nil))
}

// Shutdown releases driver-level resources. winmm holds none beyond the
// per-device handles, which the device manager has already closed.
func (d *Driver) Shutdown() error {
	d.log.Debug("winmm driver shut down")
	return nil
}

// midiInProc processes incoming MIDI messages on the winmm callback
// thread. It must return quickly and must not call back into winmm.
func midiInProc(hMidiIn, wMsg, dwInstance, dwParam1, dwParam2 uintptr) uintptr {
	d := (*Driver)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case MIM_OPEN:
		d.log.Debug("input port opened")
	case MIM_CLOSE:
		d.log.Debug("input port closed")
	case MIM_DATA, MIM_MOREDATA:
		if cb, ok := d.sub.Load().(contracts.RawCallback); ok && cb != nil {
			cb(uint32(dwParam1), contracts.DeviceHandle(hMidiIn))
		}
	case MIM_LONGDATA:
		// No sysex buffers are queued, so long data carries nothing.
		d.log.Debug("long data message ignored")
	case MIM_ERROR, MIM_LONGERROR:
		d.log.Warn("hardware reported an invalid message",
			d.log.Field().Uint64("param", uint64(dwParam1)))
	}
	return 0
}

func driverVersion(v uint32) contracts.DriverVersion {
	return contracts.DriverVersion{Major: uint8(v >> 8), Minor: uint8(v)}
}

func mmError(op string, r uintptr) error {
	return fmt.Errorf("%s: MMSYSERR %d", op, r)
}
