package device

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/hetima/midihook/sdk/contracts"
)

// Manager performs every device lifecycle operation. It is the only
// component that calls the driver for enumeration, open, close or send,
// and the only one that touches the registry; all of it happens under one
// mutex, so driver lifecycle calls are serialized exactly like the
// single-threaded callback model they stand in for.
//
// The raw callback passed to NewManager is installed on the 0 to 1 open
// input transition and removed on the 1 to 0 transition.
type Manager struct {
	mu   sync.Mutex
	drv  contracts.Driver
	log  contracts.Logger
	sink contracts.DebugSink
	cb   contracts.RawCallback
	reg  *Registry
}

func NewManager(drv contracts.Driver, log contracts.Logger, sink contracts.DebugSink, cb contracts.RawCallback) *Manager {
	return &Manager{
		drv:  drv,
		log:  log,
		sink: sink,
		cb:   cb,
		reg:  NewRegistry(),
	}
}

// Enumerate queries the OS anew and atomically replaces the descriptor set
// for one direction. On failure the prior set is retained and nothing is
// returned.
func (m *Manager) Enumerate(dir contracts.Direction) ([]contracts.DeviceDescriptor, error) {
	devices, err := m.drv.Enumerate(dir)
	if err != nil {
		m.log.Error("device enumeration failed",
			m.log.Field().String("direction", dir.String()),
			m.log.Field().Error("error", err))
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrEnumerationFailed, dir, err)
	}

	m.mu.Lock()
	m.reg.SetDescriptors(dir, devices)
	m.mu.Unlock()

	m.log.Debug("devices enumerated",
		m.log.Field().String("direction", dir.String()),
		m.log.Field().Int("count", len(devices)))
	return append([]contracts.DeviceDescriptor(nil), devices...), nil
}

// Devices returns the last enumerated set without querying the OS.
func (m *Manager) Devices(dir contracts.Direction) []contracts.DeviceDescriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.Descriptors(dir)
}

// Find scans the last enumerated set for an exact name match.
func (m *Manager) Find(dir contracts.Direction, name string) (contracts.DeviceDescriptor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.FindByName(dir, name)
}

// OpenInput opens the enumerated input device id and starts monitoring.
// The first open input installs the raw callback; the id is returned as
// the confirmation token.
func (m *Manager) OpenInput(id int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	desc, ok := m.reg.DescriptorByID(contracts.DirectionInput, id)
	if !ok {
		return 0, fmt.Errorf("%w: input %d", contracts.ErrUnknownDevice, id)
	}
	if _, open := m.reg.HandleByID(contracts.DirectionInput, id); open {
		return 0, fmt.Errorf("%w: input %d", contracts.ErrAlreadyOpen, id)
	}

	h, err := m.drv.Open(contracts.DirectionInput, id)
	if err != nil {
		return 0, fmt.Errorf("%w: input %d: %v", contracts.ErrOpenFailed, id, err)
	}
	if err := m.drv.Start(h); err != nil {
		if cerr := m.drv.Close(contracts.DirectionInput, h); cerr != nil {
			m.log.Warn("close after failed start",
				m.log.Field().Int("device", id),
				m.log.Field().Error("error", cerr))
		}
		return 0, fmt.Errorf("%w: input %d: %v", contracts.ErrStartFailed, id, err)
	}

	// Record before subscribing so a message arriving immediately finds
	// the handle registered.
	first := m.reg.OpenCount(contracts.DirectionInput) == 0
	m.reg.Record(contracts.DirectionInput, id, h)
	if first {
		m.drv.Subscribe(m.cb)
	}

	m.notify(contracts.DirectionInput, desc, true)
	m.log.Info("input opened",
		m.log.Field().Int("device", id),
		m.log.Field().String("name", desc.Name))
	return id, nil
}

// OpenOutput opens the enumerated output device id. Outputs are write-only
// and need no callback subscription.
func (m *Manager) OpenOutput(id int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	desc, ok := m.reg.DescriptorByID(contracts.DirectionOutput, id)
	if !ok {
		return 0, fmt.Errorf("%w: output %d", contracts.ErrUnknownDevice, id)
	}
	if _, open := m.reg.HandleByID(contracts.DirectionOutput, id); open {
		return 0, fmt.Errorf("%w: output %d", contracts.ErrAlreadyOpen, id)
	}

	h, err := m.drv.Open(contracts.DirectionOutput, id)
	if err != nil {
		return 0, fmt.Errorf("%w: output %d: %v", contracts.ErrOpenFailed, id, err)
	}
	m.reg.Record(contracts.DirectionOutput, id, h)

	m.notify(contracts.DirectionOutput, desc, true)
	m.log.Info("output opened",
		m.log.Field().Int("device", id),
		m.log.Field().String("name", desc.Name))
	return id, nil
}

// CloseInput stops monitoring and closes the input device id. The last
// open input removes the raw callback before the handle is touched, so the
// callback can never fire against a handle mid-teardown. OS stop and close
// failures are reported but never leave a dangling registry entry.
func (m *Manager) CloseInput(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeInputLocked(id)
}

func (m *Manager) closeInputLocked(id int) error {
	h, ok := m.reg.HandleByID(contracts.DirectionInput, id)
	if !ok {
		return fmt.Errorf("%w: input %d", contracts.ErrNotOpen, id)
	}

	if m.reg.OpenCount(contracts.DirectionInput) == 1 {
		m.drv.Unsubscribe()
	}

	var errs error
	if err := m.drv.Stop(h); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: input %d: %v", contracts.ErrStopFailed, id, err))
	}
	if err := m.drv.Close(contracts.DirectionInput, h); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: input %d: %v", contracts.ErrCloseFailed, id, err))
	}
	m.reg.Drop(contracts.DirectionInput, id)

	if desc, ok := m.reg.DescriptorByID(contracts.DirectionInput, id); ok {
		m.notify(contracts.DirectionInput, desc, false)
	}
	m.log.Info("input closed", m.log.Field().Int("device", id))
	return errs
}

// CloseOutput silences and closes the output device id. Reset failures are
// reported like stop failures; the handle is closed and the slot freed
// regardless.
func (m *Manager) CloseOutput(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeOutputLocked(id)
}

func (m *Manager) closeOutputLocked(id int) error {
	h, ok := m.reg.HandleByID(contracts.DirectionOutput, id)
	if !ok {
		return fmt.Errorf("%w: output %d", contracts.ErrNotOpen, id)
	}

	var errs error
	if err := m.drv.Reset(h); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: output %d reset: %v", contracts.ErrStopFailed, id, err))
	}
	if err := m.drv.Close(contracts.DirectionOutput, h); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: output %d: %v", contracts.ErrCloseFailed, id, err))
	}
	m.reg.Drop(contracts.DirectionOutput, id)

	if desc, ok := m.reg.DescriptorByID(contracts.DirectionOutput, id); ok {
		m.notify(contracts.DirectionOutput, desc, false)
	}
	m.log.Info("output closed", m.log.Field().Int("device", id))
	return errs
}

// CloseAllInputs closes every open input. The id set is snapshotted first
// because closing mutates the registry being iterated.
func (m *Manager) CloseAllInputs() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for _, id := range m.reg.OpenIDs(contracts.DirectionInput) {
		errs = multierr.Append(errs, m.closeInputLocked(id))
	}
	return errs
}

// CloseAllOutputs closes every open output.
func (m *Manager) CloseAllOutputs() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for _, id := range m.reg.OpenIDs(contracts.DirectionOutput) {
		errs = multierr.Append(errs, m.closeOutputLocked(id))
	}
	return errs
}

// Send writes one packed short message to the open output id.
func (m *Manager) Send(id int, raw uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.reg.HandleByID(contracts.DirectionOutput, id)
	if !ok {
		return fmt.Errorf("%w: output %d", contracts.ErrNotOpen, id)
	}
	if err := m.drv.SendShort(h, raw); err != nil {
		return fmt.Errorf("send to output %d: %w", id, err)
	}
	return nil
}

// Broadcast forwards one raw message verbatim to every open output,
// best effort per output: a failed send is reported and does not stop
// delivery to the rest. Zero open outputs is a no-op.
func (m *Manager) Broadcast(raw uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for _, out := range m.reg.OpenDevices(contracts.DirectionOutput) {
		if err := m.drv.SendShort(out.Handle, raw); err != nil {
			m.log.Warn("pass-through send failed",
				m.log.Field().Int("output", out.ID),
				m.log.Field().Uint32("raw", raw),
				m.log.Field().Error("error", err))
			errs = multierr.Append(errs, fmt.Errorf("output %d: %w", out.ID, err))
		}
	}
	return errs
}

// InputIDForHandle resolves an input handle back to its device id.
func (m *Manager) InputIDForHandle(h contracts.DeviceHandle) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.IDByHandle(contracts.DirectionInput, h)
}

// InputHandleForID resolves an open input id to its handle.
func (m *Manager) InputHandleForID(id int) (contracts.DeviceHandle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.HandleByID(contracts.DirectionInput, id)
}

// OpenIDs returns the open device ids for one direction, ascending.
func (m *Manager) OpenIDs(dir contracts.Direction) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.OpenIDs(dir)
}

// Shutdown closes everything and releases the driver.
func (m *Manager) Shutdown() error {
	errs := multierr.Combine(m.CloseAllInputs(), m.CloseAllOutputs())
	if err := m.drv.Shutdown(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (m *Manager) notify(dir contracts.Direction, desc contracts.DeviceDescriptor, open bool) {
	if m.sink != nil {
		m.sink.DeviceStateChanged(dir, desc, open)
	}
}
