//go:build darwin
// +build darwin

// Package coremidi implements the MIDI driver on top of CoreMIDI.
package coremidi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/youpy/go-coremidi"

	"github.com/hetima/midihook/internal/event"
	"github.com/hetima/midihook/sdk/contracts"
)

// Driver manages CoreMIDI sources and destinations. CoreMIDI has no
// per-device open call; opening an input connects a source to a dedicated
// input port, and opening an output merely pins the destination. Handles
// are synthetic and allocated here.
type Driver struct {
	log    contracts.Logger
	client coremidi.Client
	out    coremidi.OutputPort
	sub    atomic.Value // contracts.RawCallback

	mu    sync.Mutex
	next  uintptr
	conns map[contracts.DeviceHandle]coremidi.PortConnection
	dests map[contracts.DeviceHandle]coremidi.Destination
}

// NewDriver creates the MIDI driver for macOS. One CoreMIDI client and one
// shared output port serve every device.
func NewDriver(options *contracts.Options) (contracts.Driver, error) {
	client, err := coremidi.NewClient(options.ClientName)
	if err != nil {
		return nil, fmt.Errorf("create coremidi client: %w", err)
	}
	out, err := coremidi.NewOutputPort(client, options.ClientName+" out")
	if err != nil {
		return nil, fmt.Errorf("create output port: %w", err)
	}

	d := &Driver{
		log:    options.Logger,
		client: client,
		out:    out,
		conns:  make(map[contracts.DeviceHandle]coremidi.PortConnection),
		dests:  make(map[contracts.DeviceHandle]coremidi.Destination),
	}
	d.sub.Store(contracts.RawCallback(nil))
	d.log.Debug("coremidi driver ready")
	return d, nil
}

// Enumerate lists the available sources or destinations in CoreMIDI order.
func (d *Driver) Enumerate(dir contracts.Direction) ([]contracts.DeviceDescriptor, error) {
	if dir == contracts.DirectionOutput {
		destinations, err := coremidi.AllDestinations()
		if err != nil {
			return nil, fmt.Errorf("list destinations: %w", err)
		}
		devices := make([]contracts.DeviceDescriptor, len(destinations))
		for i, destination := range destinations {
			entity := destination.Entity()
			devices[i] = contracts.DeviceDescriptor{
				ID:           i,
				Name:         destination.Name(),
				Manufacturer: entity.Manufacturer(),
			}
		}
		return devices, nil
	}

	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	devices := make([]contracts.DeviceDescriptor, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = contracts.DeviceDescriptor{
			ID:           i,
			Name:         source.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// Open connects the device at the given CoreMIDI index. Each input gets its
// own port whose callback carries the handle, so incoming packets need no
// source lookup.
func (d *Driver) Open(dir contracts.Direction, deviceID int) (contracts.DeviceHandle, error) {
	if dir == contracts.DirectionOutput {
		destinations, err := coremidi.AllDestinations()
		if err != nil {
			return 0, fmt.Errorf("list destinations: %w", err)
		}
		if deviceID < 0 || deviceID >= len(destinations) {
			return 0, fmt.Errorf("destination %d out of range", deviceID)
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		h := d.nextHandleLocked()
		d.dests[h] = destinations[deviceID]
		return h, nil
	}

	sources, err := coremidi.AllSources()
	if err != nil {
		return 0, fmt.Errorf("list sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		return 0, fmt.Errorf("source %d out of range", deviceID)
	}

	d.mu.Lock()
	h := d.nextHandleLocked()
	d.mu.Unlock()

	port, err := coremidi.NewInputPort(d.client, fmt.Sprintf("in %d", deviceID),
		func(_ coremidi.Source, packet coremidi.Packet) {
			d.deliver(h, packet.Data)
		})
	if err != nil {
		return 0, fmt.Errorf("create input port: %w", err)
	}
	conn, err := port.Connect(sources[deviceID])
	if err != nil {
		return 0, fmt.Errorf("connect source %d: %w", deviceID, err)
	}

	d.mu.Lock()
	d.conns[h] = conn
	d.mu.Unlock()
	return h, nil
}

// Close disconnects an input source or releases an output destination.
func (d *Driver) Close(dir contracts.Direction, h contracts.DeviceHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if dir == contracts.DirectionOutput {
		if _, ok := d.dests[h]; !ok {
			return fmt.Errorf("unknown output handle %#x", uintptr(h))
		}
		delete(d.dests, h)
		return nil
	}

	conn, ok := d.conns[h]
	if !ok {
		return fmt.Errorf("unknown input handle %#x", uintptr(h))
	}
	conn.Disconnect()
	delete(d.conns, h)
	return nil
}

// Start is a no-op: a connected CoreMIDI source delivers from the moment
// Open connects it.
func (d *Driver) Start(contracts.DeviceHandle) error { return nil }

// Stop is a no-op; delivery ends when Close disconnects the source.
func (d *Driver) Stop(contracts.DeviceHandle) error { return nil }

// Reset releases every sounding note on the destination by sending All
// Notes Off on all sixteen channels.
func (d *Driver) Reset(h contracts.DeviceHandle) error {
	for ch := byte(0); ch < 16; ch++ {
		if err := d.SendShort(h, contracts.PackShort(0xB0|ch, 123, 0)); err != nil {
			return err
		}
	}
	return nil
}

// SendShort writes one packed short message to the destination behind h.
func (d *Driver) SendShort(h contracts.DeviceHandle, raw uint32) error {
	d.mu.Lock()
	destination, ok := d.dests[h]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown output handle %#x", uintptr(h))
	}

	status := byte(raw)
	buf := []byte{status, byte(raw >> 8), byte(raw >> 16)}
	packet := coremidi.NewPacket(buf[:event.ShortLength(status)], 0)
	if err := packet.Send(&d.out, &destination); err != nil {
		return fmt.Errorf("send packet: %w", err)
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

// Shutdown releases driver-level resources. CoreMIDI disposes client and
// ports with the process, so only the handle tables are cleared.
func (d *Driver) Shutdown() error {
	d.mu.Lock()
	d.conns = make(map[contracts.DeviceHandle]coremidi.PortConnection)
	d.dests = make(map[contracts.DeviceHandle]coremidi.Destination)
	d.mu.Unlock()
	d.log.Debug("coremidi driver shut down")
	return nil
}

func (d *Driver) nextHandleLocked() contracts.DeviceHandle {
	d.next++
	return contracts.DeviceHandle(d.next)
}

// deliver splits one CoreMIDI packet into short messages and forwards each
// to the subscriber. Packets may carry several messages back to back, and a
// sysex stream is forwarded one payload byte at a time.
func (d *Driver) deliver(h contracts.DeviceHandle, data []byte) {
	cb, _ := d.sub.Load().(contracts.RawCallback)
	if cb == nil {
		return
	}

	for i := 0; i < len(data); {
		status := data[i]
		if status < 0x80 {
			i++
			continue
		}
		if status == 0xF0 {
			i++
			for i < len(data) && data[i] < 0x80 {
				cb(contracts.PackShort(0xF0, data[i], 0), h)
				i++
			}
			continue
		}

		n := event.ShortLength(status)
		var data1, data2 byte
		if n >= 2 && i+1 < len(data) {
			data1 = data[i+1]
		}
		if n >= 3 && i+2 < len(data) {
			data2 = data[i+2]
		}
		cb(contracts.PackShort(status, data1, data2), h)
		i += n
	}
}
