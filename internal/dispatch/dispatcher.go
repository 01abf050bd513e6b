package dispatch

import (
	"sync/atomic"

	"github.com/hetima/midihook/internal/event"
	"github.com/hetima/midihook/sdk/contracts"
)

// Forwarder sends one raw message to every currently open output.
type Forwarder interface {
	Broadcast(raw uint32) error
}

// Dispatcher runs the per-message delivery sequence. Dispatch is called
// from a single goroutine; the toggles are atomics so the host can flip
// them at runtime without touching that goroutine.
type Dispatcher struct {
	log      contracts.Logger
	sink     contracts.DebugSink
	handlers contracts.HandlerRegistry
	cache    *EventCache
	fwd      Forwarder
	prefix   string

	dispatch    atomic.Bool
	passThrough atomic.Bool
}

// New builds a dispatcher from finalized options.
func New(opts *contracts.Options, cache *EventCache, fwd Forwarder) *Dispatcher {
	d := &Dispatcher{
		log:      opts.Logger,
		sink:     opts.DebugSink,
		handlers: opts.Handlers,
		cache:    cache,
		fwd:      fwd,
		prefix:   opts.HandlerPrefix,
	}
	d.dispatch.Store(opts.Dispatch)
	d.passThrough.Store(opts.PassThrough)
	return d
}

// SetDispatch toggles handler delivery.
func (d *Dispatcher) SetDispatch(enabled bool) {
	d.dispatch.Store(enabled)
}

// SetPassThrough toggles pass-through forwarding.
func (d *Dispatcher) SetPassThrough(enabled bool) {
	d.passThrough.Store(enabled)
}

// Dispatch decodes one raw message and runs the full delivery sequence:
// cache update, debug sink, handler delivery in candidate order, and
// pass-through when no handler resolved. Undecodable messages are dropped
// without forwarding; they never halt the stream.
func (d *Dispatcher) Dispatch(raw uint32, src contracts.DeviceHandle, ts uint64) {
	ev, err := event.Decode(raw)
	if err != nil {
		d.log.Debug("message dropped",
			d.log.Field().Uint32("raw", raw),
			d.log.Field().Error("reason", err))
		return
	}
	ev.Source = src
	ev.Timestamp = ts

	// The cache is updated for every decoded event, before any handler
	// runs, so handlers polling CurrentEvent observe the event being
	// delivered.
	d.cache.Update(ev)
	if d.sink != nil {
		d.sink.EventDecoded(ev)
	}

	handled := false
	if d.dispatch.Load() && d.handlers != nil {
		for _, id := range Candidates(d.prefix, ev) {
			if h, ok := d.handlers.Resolve(id); ok {
				handled = true
				h(ev)
			}
		}
	}
	if handled || !d.passThrough.Load() {
		return
	}
	// Per-output failures are logged by the forwarder; there is nothing
	// to roll back here.
	_ = d.fwd.Broadcast(raw)
}
