// Package dispatch turns raw hardware messages into handler invocations:
// decode, cache, candidate identifier generation, delivery, pass-through.
package dispatch

import (
	"sync"

	"github.com/hetima/midihook/sdk/contracts"
)

// EventCache retains the most recently decoded event, globally and per
// source handle. It is a cache, not a queue: a poll between two events
// observes only the newer one, and consumers needing every event must
// register handlers instead.
type EventCache struct {
	mu       sync.RWMutex
	last     contracts.MidiEvent
	has      bool
	bySource map[contracts.DeviceHandle]contracts.MidiEvent
}

func NewEventCache() *EventCache {
	return &EventCache{
		bySource: make(map[contracts.DeviceHandle]contracts.MidiEvent),
	}
}

// Update replaces the global slot and the slot for the event's source.
func (c *EventCache) Update(ev contracts.MidiEvent) {
	c.mu.Lock()
	c.last = ev
	c.has = true
	c.bySource[ev.Source] = ev
	c.mu.Unlock()
}

// Latest returns the most recent event from any source.
func (c *EventCache) Latest() (contracts.MidiEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.has
}

// LatestFrom returns the most recent event from one source handle.
func (c *EventCache) LatestFrom(src contracts.DeviceHandle) (contracts.MidiEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ev, ok := c.bySource[src]
	return ev, ok
}
