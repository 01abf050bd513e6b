// Package drivertest provides a scripted in-memory driver for exercising
// the engine without hardware.
package drivertest

import (
	"fmt"
	"sync"

	"github.com/hetima/midihook/sdk/contracts"
)

// Sent records one short message written to an output handle.
type Sent struct {
	Handle contracts.DeviceHandle
	Raw    uint32
}

type slot struct {
	dir contracts.Direction
	id  int
}

// Driver implements contracts.Driver entirely in memory. The exported
// error fields, when set, make the matching calls fail; every call is also
// appended to an op trace for order assertions. Recorded state is read
// through accessor methods so tests stay race-free while the engine is
// running.
type Driver struct {
	EnumerateErr error
	OpenErr      error
	StartErr     error
	StopErr      error
	CloseErr     error
	ResetErr     error
	SendErr      error

	// FailSends makes sends to specific handles fail while others
	// succeed.
	FailSends map[contracts.DeviceHandle]bool

	mu           sync.Mutex
	inputs       []contracts.DeviceDescriptor
	outputs      []contracts.DeviceDescriptor
	next         contracts.DeviceHandle
	open         map[contracts.DeviceHandle]slot
	cb           contracts.RawCallback
	ops          []string
	subscribes   int
	unsubscribes int
	sent         []Sent
	shutdowns    int
}

// New builds a driver exposing the given number of generated input and
// output devices.
func New(inputs, outputs int) *Driver {
	d := &Driver{
		open:      make(map[contracts.DeviceHandle]slot),
		FailSends: make(map[contracts.DeviceHandle]bool),
	}
	for i := 0; i < inputs; i++ {
		d.inputs = append(d.inputs, contracts.DeviceDescriptor{
			ID:             i,
			Name:           fmt.Sprintf("Test In %d", i),
			ManufacturerID: 1,
			ProductID:      100 + i,
			Version:        contracts.DriverVersion{Major: 1},
		})
	}
	for i := 0; i < outputs; i++ {
		d.outputs = append(d.outputs, contracts.DeviceDescriptor{
			ID:             i,
			Name:           fmt.Sprintf("Test Out %d", i),
			ManufacturerID: 1,
			ProductID:      200 + i,
			Version:        contracts.DriverVersion{Major: 1},
		})
	}
	return d
}

func (d *Driver) Enumerate(dir contracts.Direction) ([]contracts.DeviceDescriptor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "enumerate "+dir.String())
	if d.EnumerateErr != nil {
		return nil, d.EnumerateErr
	}
	if dir == contracts.DirectionInput {
		return append([]contracts.DeviceDescriptor(nil), d.inputs...), nil
	}
	return append([]contracts.DeviceDescriptor(nil), d.outputs...), nil
}

func (d *Driver) Open(dir contracts.Direction, deviceID int) (contracts.DeviceHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, fmt.Sprintf("open %s %d", dir, deviceID))
	if d.OpenErr != nil {
		return 0, d.OpenErr
	}
	d.next++
	d.open[d.next] = slot{dir: dir, id: deviceID}
	return d.next, nil
}

func (d *Driver) Close(dir contracts.Direction, h contracts.DeviceHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "close "+dir.String())
	delete(d.open, h)
	return d.CloseErr
}

func (d *Driver) Start(h contracts.DeviceHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "start")
	return d.StartErr
}

func (d *Driver) Stop(h contracts.DeviceHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "stop")
	return d.StopErr
}

func (d *Driver) Reset(h contracts.DeviceHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "reset")
	return d.ResetErr
}

func (d *Driver) SendShort(h contracts.DeviceHandle, raw uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "send")
	if d.SendErr != nil {
		return d.SendErr
	}
	if d.FailSends[h] {
		return fmt.Errorf("scripted send failure for handle %#x", uintptr(h))
	}
	d.sent = append(d.sent, Sent{Handle: h, Raw: raw})
	return nil
}

func (d *Driver) Subscribe(cb contracts.RawCallback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "subscribe")
	d.subscribes++
	d.cb = cb
}

func (d *Driver) Unsubscribe() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "unsubscribe")
	d.unsubscribes++
	d.cb = nil
}

func (d *Driver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "shutdown")
	d.shutdowns++
	return nil
}

// Emit delivers one raw message through the subscribed callback, as the OS
// would. It is a no-op when nothing is subscribed.
func (d *Driver) Emit(raw uint32, h contracts.DeviceHandle) {
	d.mu.Lock()
	cb := d.cb
	d.mu.Unlock()
	if cb != nil {
		cb(raw, h)
	}
}

// Handle returns the open handle for a device id, if any.
func (d *Driver) Handle(dir contracts.Direction, id int) (contracts.DeviceHandle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for h, s := range d.open {
		if s.dir == dir && s.id == id {
			return h, true
		}
	}
	return 0, false
}

// OpenCount returns how many handles are open in one direction.
func (d *Driver) OpenCount(dir contracts.Direction) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, s := range d.open {
		if s.dir == dir {
			n++
		}
	}
	return n
}

// Subscribed reports whether a callback is currently installed.
func (d *Driver) Subscribed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cb != nil
}

// SubscribeCalls returns how often Subscribe and Unsubscribe ran.
func (d *Driver) SubscribeCalls() (subscribes, unsubscribes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.subscribes, d.unsubscribes
}

// ShutdownCalls returns how often Shutdown ran.
func (d *Driver) ShutdownCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdowns
}

// SentMessages returns every successful send, in order.
func (d *Driver) SentMessages() []Sent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Sent(nil), d.sent...)
}

// SentTo returns the raw messages successfully sent to one handle.
func (d *Driver) SentTo(h contracts.DeviceHandle) []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	var raws []uint32
	for _, s := range d.sent {
		if s.Handle == h {
			raws = append(raws, s.Raw)
		}
	}
	return raws
}

// Ops returns the call trace.
func (d *Driver) Ops() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ops...)
}
