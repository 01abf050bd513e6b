//go:build linux && cgo
// +build linux,cgo

// Package rtmidi implements the MIDI driver on top of the rtmidi backend
// of gomidi.
package rtmidi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/hetima/midihook/internal/event"
	"github.com/hetima/midihook/sdk/contracts"
)

// Driver manages rtmidi ports. Handles are synthetic; each one maps to an
// opened port, and input listeners are started and stopped per handle.
type Driver struct {
	log contracts.Logger
	drv *rtmididrv.Driver
	sub atomic.Value // contracts.RawCallback

	mu    sync.Mutex
	next  uintptr
	ins   map[contracts.DeviceHandle]drivers.In
	outs  map[contracts.DeviceHandle]drivers.Out
	stops map[contracts.DeviceHandle]func()
}

// NewDriver creates the MIDI driver for Linux.
func NewDriver(options *contracts.Options) (contracts.Driver, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}

	d := &Driver{
		log:   options.Logger,
		drv:   drv,
		ins:   make(map[contracts.DeviceHandle]drivers.In),
		outs:  make(map[contracts.DeviceHandle]drivers.Out),
		stops: make(map[contracts.DeviceHandle]func()),
	}
	d.sub.Store(contracts.RawCallback(nil))
	d.log.Debug("rtmidi driver ready")
	return d, nil
}

// Enumerate lists the available ports in one direction, in rtmidi order.
func (d *Driver) Enumerate(dir contracts.Direction) ([]contracts.DeviceDescriptor, error) {
	if dir == contracts.DirectionOutput {
		outs, err := d.drv.Outs()
		if err != nil {
			return nil, fmt.Errorf("list outputs: %w", err)
		}
		devices := make([]contracts.DeviceDescriptor, len(outs))
		for i, out := range outs {
			devices[i] = contracts.DeviceDescriptor{ID: i, Name: out.String()}
		}
		return devices, nil
	}

	ins, err := d.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}
	devices := make([]contracts.DeviceDescriptor, len(ins))
	for i, in := range ins {
		devices[i] = contracts.DeviceDescriptor{ID: i, Name: in.String()}
	}
	return devices, nil
}

// Open opens the port at the given rtmidi index.
func (d *Driver) Open(dir contracts.Direction, deviceID int) (contracts.DeviceHandle, error) {
	if dir == contracts.DirectionOutput {
		outs, err := d.drv.Outs()
		if err != nil {
			return 0, fmt.Errorf("list outputs: %w", err)
		}
		if deviceID < 0 || deviceID >= len(outs) {
			return 0, fmt.Errorf("output %d out of range", deviceID)
		}
		out := outs[deviceID]
		if err := out.Open(); err != nil {
			return 0, fmt.Errorf("open %q: %w", out.String(), err)
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		h := d.nextHandleLocked()
		d.outs[h] = out
		return h, nil
	}

	ins, err := d.drv.Ins()
	if err != nil {
		return 0, fmt.Errorf("list inputs: %w", err)
	}
	if deviceID < 0 || deviceID >= len(ins) {
		return 0, fmt.Errorf("input %d out of range", deviceID)
	}
	in := ins[deviceID]
	if err := in.Open(); err != nil {
		return 0, fmt.Errorf("open %q: %w", in.String(), err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	h := d.nextHandleLocked()
	d.ins[h] = in
	return h, nil
}

// Close releases the port behind h. An input still listening is stopped
// first.
func (d *Driver) Close(dir contracts.Direction, h contracts.DeviceHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if dir == contracts.DirectionOutput {
		out, ok := d.outs[h]
		if !ok {
			return fmt.Errorf("unknown output handle %#x", uintptr(h))
		}
		delete(d.outs, h)
		return out.Close()
	}

	in, ok := d.ins[h]
	if !ok {
		return fmt.Errorf("unknown input handle %#x", uintptr(h))
	}
	if stop, ok := d.stops[h]; ok {
		stop()
		delete(d.stops, h)
	}
	delete(d.ins, h)
	return in.Close()
}

// Start begins listening on an open input handle. Timecode, active sense
// and sysex all pass through; the decoder upstream decides what to keep.
func (d *Driver) Start(h contracts.DeviceHandle) error {
	d.mu.Lock()
	in, ok := d.ins[h]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown input handle %#x", uintptr(h))
	}

	stop, err := in.Listen(func(msg []byte, _ int32) {
		d.deliver(h, msg)
	}, drivers.ListenConfig{
		TimeCode:    true,
		ActiveSense: true,
		SysEx:       true,
		OnErr: func(listenErr error) {
			d.log.Warn("listener error",
				d.log.Field().String("port", in.String()),
				d.log.Field().Error("error", listenErr))
		},
	})
	if err != nil {
		return fmt.Errorf("listen %q: %w", in.String(), err)
	}

	d.mu.Lock()
	d.stops[h] = stop
	d.mu.Unlock()
	return nil
}

// Stop halts listening on an open input handle.
func (d *Driver) Stop(h contracts.DeviceHandle) error {
	d.mu.Lock()
	stop, ok := d.stops[h]
	delete(d.stops, h)
	d.mu.Unlock()
	if ok {
		stop()
	}
	return nil
}

// Reset releases every sounding note on the output by sending All Notes
// Off on all sixteen channels.
func (d *Driver) Reset(h contracts.DeviceHandle) error {
	for ch := byte(0); ch < 16; ch++ {
		if err := d.SendShort(h, contracts.PackShort(0xB0|ch, 123, 0)); err != nil {
			return err
		}
	}
	return nil
}

// SendShort writes one packed short message to the output behind h.
func (d *Driver) SendShort(h contracts.DeviceHandle, raw uint32) error {
	d.mu.Lock()
	out, ok := d.outs[h]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown output handle %#x", uintptr(h))
	}

	status := byte(raw)
	buf := []byte{status, byte(raw >> 8), byte(raw >> 16)}
	if err := out.Send(buf[:event.ShortLength(status)]); err != nil {
		return fmt.Errorf("send to %q: %w", out.String(), err)
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

// Shutdown closes the underlying rtmidi driver.
func (d *Driver) Shutdown() error {
	err := d.drv.Close()
	d.log.Debug("rtmidi driver shut down")
	return err
}

func (d *Driver) nextHandleLocked() contracts.DeviceHandle {
	d.next++
	return contracts.DeviceHandle(d.next)
}

// deliver forwards one framed rtmidi message to the subscriber. A sysex
// buffer is forwarded one payload byte at a time; everything else packs
// into a single short message.
func (d *Driver) deliver(h contracts.DeviceHandle, msg []byte) {
	cb, _ := d.sub.Load().(contracts.RawCallback)
	if cb == nil || len(msg) == 0 {
		return
	}

	if msg[0] == 0xF0 {
		for _, b := range msg[1:] {
			if b < 0x80 {
				cb(contracts.PackShort(0xF0, b, 0), h)
			}
		}
		return
	}

	var data1, data2 byte
	if len(msg) > 1 {
		data1 = msg[1]
	}
	if len(msg) > 2 {
		data2 = msg[2]
	}
	cb(contracts.PackShort(msg[0], data1, data2), h)
}
