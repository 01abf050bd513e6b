// Package engine assembles the device manager, the dispatcher and the
// last-event cache behind the contracts.Engine surface.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hetima/midihook/internal/device"
	"github.com/hetima/midihook/internal/dispatch"
	"github.com/hetima/midihook/sdk/contracts"
)

// ErrNoDriver is returned when New is called without a configured driver.
var ErrNoDriver = errors.New("no midi driver configured")

// packet is one raw hardware message queued for the event goroutine.
type packet struct {
	raw uint32
	src contracts.DeviceHandle
	ts  uint64
}

// Engine implements contracts.Engine. One goroutine, the event pump, does
// all decoding and handler delivery; it serializes dispatch the same way
// the single-threaded OS callback model does, so no two handlers ever run
// concurrently.
type Engine struct {
	log   contracts.Logger
	mgr   *device.Manager
	disp  *dispatch.Dispatcher
	cache *dispatch.EventCache

	events chan packet
	done   chan struct{}
	wg     sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// New builds an engine from finalized options and enumerates both device
// directions up front. An enumeration failure at this point is fatal:
// there is no prior descriptor set to fall back on.
func New(opts *contracts.Options) (*Engine, error) {
	if opts.Driver == nil {
		return nil, ErrNoDriver
	}

	e := &Engine{
		log:    opts.Logger,
		cache:  dispatch.NewEventCache(),
		events: make(chan packet, opts.QueueSize),
		done:   make(chan struct{}),
	}
	e.mgr = device.NewManager(opts.Driver, opts.Logger, opts.DebugSink, e.enqueue)
	e.disp = dispatch.New(opts, e.cache, e.mgr)

	inputs, err := e.mgr.Enumerate(contracts.DirectionInput)
	if err != nil {
		return nil, err
	}
	outputs, err := e.mgr.Enumerate(contracts.DirectionOutput)
	if err != nil {
		return nil, err
	}

	e.wg.Add(1)
	go e.pump()

	e.log.Info("midi engine ready",
		e.log.Field().Int("inputs", len(inputs)),
		e.log.Field().Int("outputs", len(outputs)))
	return e, nil
}

// enqueue is the raw callback handed to the driver. It must return
// immediately, so a full queue drops the message instead of stalling the
// OS callback context.
func (e *Engine) enqueue(raw uint32, src contracts.DeviceHandle) {
	p := packet{raw: raw, src: src, ts: uint64(time.Now().UTC().UnixNano())}
	select {
	case e.events <- p:
	default:
		e.log.Warn("event queue full; message discarded",
			e.log.Field().Uint32("raw", raw))
	}
}

// pump is the single event goroutine.
func (e *Engine) pump() {
	defer e.wg.Done()
	for {
		select {
		case <-e.done:
			return
		case p := <-e.events:
			// Messages whose input was closed after they were queued
			// are dropped: delivery never fires against a handle that
			// has been torn down.
			if _, open := e.mgr.InputIDForHandle(p.src); !open {
				e.log.Debug("event for closed input dropped",
					e.log.Field().Uint32("raw", p.raw))
				continue
			}
			e.disp.Dispatch(p.raw, p.src, p.ts)
		}
	}
}

// Devices queries the OS anew for one direction. On failure the previous
// descriptor set stays in effect.
func (e *Engine) Devices(dir contracts.Direction) ([]contracts.DeviceDescriptor, error) {
	return e.mgr.Enumerate(dir)
}

// LookupInput scans the last enumerated input set for an exact name match.
func (e *Engine) LookupInput(name string) (contracts.DeviceDescriptor, bool) {
	return e.mgr.Find(contracts.DirectionInput, name)
}

// LookupOutput scans the last enumerated output set for an exact name
// match.
func (e *Engine) LookupOutput(name string) (contracts.DeviceDescriptor, bool) {
	return e.mgr.Find(contracts.DirectionOutput, name)
}

func (e *Engine) OpenInput(deviceID int) (int, error) {
	return e.mgr.OpenInput(deviceID)
}

func (e *Engine) OpenInputByName(name string) (int, error) {
	id, err := e.resolveName(contracts.DirectionInput, name)
	if err != nil {
		return 0, err
	}
	return e.mgr.OpenInput(id)
}

func (e *Engine) CloseInput(deviceID int) error {
	return e.mgr.CloseInput(deviceID)
}

func (e *Engine) CloseInputByName(name string) error {
	id, err := e.resolveName(contracts.DirectionInput, name)
	if err != nil {
		return err
	}
	return e.mgr.CloseInput(id)
}

func (e *Engine) OpenOutput(deviceID int) (int, error) {
	return e.mgr.OpenOutput(deviceID)
}

func (e *Engine) OpenOutputByName(name string) (int, error) {
	id, err := e.resolveName(contracts.DirectionOutput, name)
	if err != nil {
		return 0, err
	}
	return e.mgr.OpenOutput(id)
}

func (e *Engine) CloseOutput(deviceID int) error {
	return e.mgr.CloseOutput(deviceID)
}

func (e *Engine) CloseOutputByName(name string) error {
	id, err := e.resolveName(contracts.DirectionOutput, name)
	if err != nil {
		return err
	}
	return e.mgr.CloseOutput(id)
}

func (e *Engine) CloseAllInputs() error {
	return e.mgr.CloseAllInputs()
}

func (e *Engine) CloseAllOutputs() error {
	return e.mgr.CloseAllOutputs()
}

func (e *Engine) OpenInputIDs() []int {
	return e.mgr.OpenIDs(contracts.DirectionInput)
}

func (e *Engine) OpenOutputIDs() []int {
	return e.mgr.OpenIDs(contracts.DirectionOutput)
}

// Send writes one packed short message to the open output deviceID.
func (e *Engine) Send(deviceID int, raw uint32) error {
	return e.mgr.Send(deviceID, raw)
}

// CurrentEvent returns the most recently decoded event from any input.
func (e *Engine) CurrentEvent() (contracts.MidiEvent, bool) {
	return e.cache.Latest()
}

// CurrentEventFrom returns the most recent event from the open input
// deviceID.
func (e *Engine) CurrentEventFrom(deviceID int) (contracts.MidiEvent, bool) {
	h, ok := e.mgr.InputHandleForID(deviceID)
	if !ok {
		return contracts.MidiEvent{}, false
	}
	return e.cache.LatestFrom(h)
}

func (e *Engine) SetDispatch(enabled bool) {
	e.disp.SetDispatch(enabled)
}

func (e *Engine) SetPassThrough(enabled bool) {
	e.disp.SetPassThrough(enabled)
}

// Close closes all devices, releases the driver and stops the event
// goroutine. Queued events that have not been dispatched yet are
// discarded. Close must not be called from a handler: it waits for the
// event goroutine, and a handler runs on it.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.closeErr = e.mgr.Shutdown()
		close(e.done)
		e.wg.Wait()
		e.log.Info("midi engine closed")
	})
	return e.closeErr
}

func (e *Engine) resolveName(dir contracts.Direction, name string) (int, error) {
	desc, ok := e.mgr.Find(dir, name)
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", contracts.ErrUnknownDevice, dir, name)
	}
	return desc.ID, nil
}
