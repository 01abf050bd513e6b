// Package device tracks enumerated MIDI devices and owns every open OS
// handle in the process.
package device

import (
	"sort"

	"github.com/hetima/midihook/sdk/contracts"
)

// side holds the registry state for one device direction. The two sides
// are fully independent: the same numeric id can be open as an input and
// as an output at the same time.
type side struct {
	descriptors []contracts.DeviceDescriptor
	byID        map[int]contracts.DeviceHandle
	byHandle    map[contracts.DeviceHandle]int
}

// OpenDevice pairs an open device id with its OS handle.
type OpenDevice struct {
	ID     int
	Handle contracts.DeviceHandle
}

// Registry is the single record of enumerated descriptors and open
// handles, with bidirectional id/handle lookup. It is plain data: the
// Manager holds the only reference and guards every access with its mutex,
// so the registry itself carries no lock.
type Registry struct {
	inputs  side
	outputs side
}

func NewRegistry() *Registry {
	return &Registry{
		inputs:  side{byID: make(map[int]contracts.DeviceHandle), byHandle: make(map[contracts.DeviceHandle]int)},
		outputs: side{byID: make(map[int]contracts.DeviceHandle), byHandle: make(map[contracts.DeviceHandle]int)},
	}
}

func (r *Registry) side(dir contracts.Direction) *side {
	if dir == contracts.DirectionOutput {
		return &r.outputs
	}
	return &r.inputs
}

// SetDescriptors replaces the enumerated set for one direction. Open
// handles are unaffected; ids recorded against a prior enumeration stay
// closable by id.
func (r *Registry) SetDescriptors(dir contracts.Direction, descriptors []contracts.DeviceDescriptor) {
	r.side(dir).descriptors = descriptors
}

// Descriptors returns a copy of the last enumerated set.
func (r *Registry) Descriptors(dir contracts.Direction) []contracts.DeviceDescriptor {
	return append([]contracts.DeviceDescriptor(nil), r.side(dir).descriptors...)
}

// DescriptorByID returns the descriptor enumerated for id.
func (r *Registry) DescriptorByID(dir contracts.Direction, id int) (contracts.DeviceDescriptor, bool) {
	for _, d := range r.side(dir).descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return contracts.DeviceDescriptor{}, false
}

// FindByName scans the last enumerated set for an exact name match. The
// first match wins when the OS reports duplicate names.
func (r *Registry) FindByName(dir contracts.Direction, name string) (contracts.DeviceDescriptor, bool) {
	for _, d := range r.side(dir).descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return contracts.DeviceDescriptor{}, false
}

// Record stores the handle for an opened device id.
func (r *Registry) Record(dir contracts.Direction, id int, h contracts.DeviceHandle) {
	s := r.side(dir)
	s.byID[id] = h
	s.byHandle[h] = id
}

// Drop removes the registry entry for id, returning the handle it held.
// Dropping an id with no entry is a no-op.
func (r *Registry) Drop(dir contracts.Direction, id int) (contracts.DeviceHandle, bool) {
	s := r.side(dir)
	h, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	delete(s.byID, id)
	delete(s.byHandle, h)
	return h, true
}

// HandleByID returns the open handle recorded for id.
func (r *Registry) HandleByID(dir contracts.Direction, id int) (contracts.DeviceHandle, bool) {
	h, ok := r.side(dir).byID[id]
	return h, ok
}

// IDByHandle returns the device id an open handle was recorded under.
func (r *Registry) IDByHandle(dir contracts.Direction, h contracts.DeviceHandle) (int, bool) {
	id, ok := r.side(dir).byHandle[h]
	return id, ok
}

// OpenCount returns the number of open devices in one direction.
func (r *Registry) OpenCount(dir contracts.Direction) int {
	return len(r.side(dir).byID)
}

// OpenIDs returns the open device ids in ascending order.
func (r *Registry) OpenIDs(dir contracts.Direction) []int {
	s := r.side(dir)
	ids := make([]int, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// OpenDevices returns the open id/handle pairs in ascending id order.
func (r *Registry) OpenDevices(dir contracts.Direction) []OpenDevice {
	s := r.side(dir)
	open := make([]OpenDevice, 0, len(s.byID))
	for id, h := range s.byID {
		open = append(open, OpenDevice{ID: id, Handle: h})
	}
	sort.Slice(open, func(i, j int) bool { return open[i].ID < open[j].ID })
	return open
}
