package device

import (
	"errors"
	"testing"

	"github.com/hetima/midihook/internal/driver/drivertest"
	"github.com/hetima/midihook/internal/logger"
	"github.com/hetima/midihook/sdk/contracts"
)

func newTestManager(t *testing.T, inputs, outputs int) (*Manager, *drivertest.Driver) {
	t.Helper()
	drv := drivertest.New(inputs, outputs)
	m := NewManager(drv, logger.NewNop(), nil, func(raw uint32, src contracts.DeviceHandle) {})
	if _, err := m.Enumerate(contracts.DirectionInput); err != nil {
		t.Fatalf("enumerate inputs: %v", err)
	}
	if _, err := m.Enumerate(contracts.DirectionOutput); err != nil {
		t.Fatalf("enumerate outputs: %v", err)
	}
	return m, drv
}

func TestOpenInputUnknownDevice(t *testing.T) {
	m, _ := newTestManager(t, 1, 0)

	if _, err := m.OpenInput(7); !errors.Is(err, contracts.ErrUnknownDevice) {
		t.Errorf("OpenInput(7) error = %v, want ErrUnknownDevice", err)
	}
}

func TestOpenInputAlreadyOpen(t *testing.T) {
	m, _ := newTestManager(t, 1, 0)

	if _, err := m.OpenInput(0); err != nil {
		t.Fatalf("first OpenInput: %v", err)
	}
	if _, err := m.OpenInput(0); !errors.Is(err, contracts.ErrAlreadyOpen) {
		t.Errorf("second OpenInput error = %v, want ErrAlreadyOpen", err)
	}
}

func TestCloseInputNotOpen(t *testing.T) {
	m, _ := newTestManager(t, 1, 0)

	if err := m.CloseInput(0); !errors.Is(err, contracts.ErrNotOpen) {
		t.Errorf("CloseInput error = %v, want ErrNotOpen", err)
	}
}

func TestSubscribeLifecycle(t *testing.T) {
	m, drv := newTestManager(t, 2, 0)

	if _, err := m.OpenInput(0); err != nil {
		t.Fatalf("OpenInput(0): %v", err)
	}
	if _, err := m.OpenInput(1); err != nil {
		t.Fatalf("OpenInput(1): %v", err)
	}
	if subs, _ := drv.SubscribeCalls(); subs != 1 {
		t.Errorf("subscribes after two opens = %d, want 1", subs)
	}

	if err := m.CloseInput(1); err != nil {
		t.Fatalf("CloseInput(1): %v", err)
	}
	if _, unsubs := drv.SubscribeCalls(); unsubs != 0 {
		t.Errorf("unsubscribes with one input still open = %d, want 0", unsubs)
	}

	if err := m.CloseInput(0); err != nil {
		t.Fatalf("CloseInput(0): %v", err)
	}
	if _, unsubs := drv.SubscribeCalls(); unsubs != 1 {
		t.Errorf("unsubscribes after last close = %d, want 1", unsubs)
	}
	if drv.Subscribed() {
		t.Error("callback still installed after last close")
	}

	// Reopening must install the callback exactly once more.
	if _, err := m.OpenInput(0); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if subs, _ := drv.SubscribeCalls(); subs != 2 {
		t.Errorf("subscribes after reopen = %d, want 2", subs)
	}
}

func TestCloseAllInputs(t *testing.T) {
	m, drv := newTestManager(t, 3, 0)

	for id := 0; id < 3; id++ {
		if _, err := m.OpenInput(id); err != nil {
			t.Fatalf("OpenInput(%d): %v", id, err)
		}
	}
	if err := m.CloseAllInputs(); err != nil {
		t.Fatalf("CloseAllInputs: %v", err)
	}
	if ids := m.OpenIDs(contracts.DirectionInput); len(ids) != 0 {
		t.Errorf("open inputs after close-all = %v, want none", ids)
	}
	if _, unsubs := drv.SubscribeCalls(); unsubs != 1 {
		t.Errorf("unsubscribes = %d, want 1", unsubs)
	}
	if drv.OpenCount(contracts.DirectionInput) != 0 {
		t.Error("driver still holds open input handles")
	}
}

func TestEnumerationFailureRetainsPriorSet(t *testing.T) {
	m, drv := newTestManager(t, 2, 0)

	drv.EnumerateErr = errors.New("scripted enumeration failure")
	if _, err := m.Enumerate(contracts.DirectionInput); !errors.Is(err, contracts.ErrEnumerationFailed) {
		t.Fatalf("Enumerate error = %v, want ErrEnumerationFailed", err)
	}

	if devices := m.Devices(contracts.DirectionInput); len(devices) != 2 {
		t.Errorf("descriptor set after failed enumeration has %d entries, want 2", len(devices))
	}
	drv.EnumerateErr = nil
	if _, err := m.OpenInput(1); err != nil {
		t.Errorf("OpenInput against retained set: %v", err)
	}
}

func TestOpenInputStartFailure(t *testing.T) {
	m, drv := newTestManager(t, 1, 0)

	drv.StartErr = errors.New("scripted start failure")
	if _, err := m.OpenInput(0); !errors.Is(err, contracts.ErrStartFailed) {
		t.Fatalf("OpenInput error = %v, want ErrStartFailed", err)
	}
	if subs, _ := drv.SubscribeCalls(); subs != 0 {
		t.Errorf("subscribes after failed start = %d, want 0", subs)
	}
	if drv.OpenCount(contracts.DirectionInput) != 0 {
		t.Error("driver handle not released after failed start")
	}

	// The slot stayed free, so a later open must succeed.
	drv.StartErr = nil
	if _, err := m.OpenInput(0); err != nil {
		t.Errorf("OpenInput after recovery: %v", err)
	}
}

func TestCloseInputStopFailureFreesSlot(t *testing.T) {
	m, drv := newTestManager(t, 1, 0)

	if _, err := m.OpenInput(0); err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	drv.StopErr = errors.New("scripted stop failure")
	err := m.CloseInput(0)
	if !errors.Is(err, contracts.ErrStopFailed) {
		t.Fatalf("CloseInput error = %v, want ErrStopFailed", err)
	}
	if ids := m.OpenIDs(contracts.DirectionInput); len(ids) != 0 {
		t.Errorf("registry still holds %v after failed close", ids)
	}
	if drv.Subscribed() {
		t.Error("callback still installed after closing last input")
	}
}

func TestCloseOutputResetsBeforeClose(t *testing.T) {
	m, drv := newTestManager(t, 0, 1)

	if _, err := m.OpenOutput(0); err != nil {
		t.Fatalf("OpenOutput: %v", err)
	}
	if err := m.CloseOutput(0); err != nil {
		t.Fatalf("CloseOutput: %v", err)
	}

	resetAt, closeAt := -1, -1
	for i, op := range drv.Ops() {
		switch op {
		case "reset":
			resetAt = i
		case "close output":
			closeAt = i
		}
	}
	if resetAt == -1 || closeAt == -1 || resetAt > closeAt {
		t.Errorf("expected reset before close, got ops %v", drv.Ops())
	}
}

func TestFindByName(t *testing.T) {
	m, _ := newTestManager(t, 2, 1)

	desc, ok := m.Find(contracts.DirectionInput, "Test In 1")
	if !ok || desc.ID != 1 {
		t.Errorf("Find(input, Test In 1) = (%+v, %t), want id 1", desc, ok)
	}
	if _, ok := m.Find(contracts.DirectionInput, "No Such Device"); ok {
		t.Error("Find reported a match for an unknown name")
	}
	if _, ok := m.Find(contracts.DirectionOutput, "Test In 1"); ok {
		t.Error("Find matched an input name in the output direction")
	}
}

func TestBroadcastBestEffort(t *testing.T) {
	m, drv := newTestManager(t, 0, 2)

	if _, err := m.OpenOutput(0); err != nil {
		t.Fatalf("OpenOutput(0): %v", err)
	}
	if _, err := m.OpenOutput(1); err != nil {
		t.Fatalf("OpenOutput(1): %v", err)
	}

	bad, _ := drv.Handle(contracts.DirectionOutput, 0)
	good, _ := drv.Handle(contracts.DirectionOutput, 1)
	drv.FailSends[bad] = true

	raw := contracts.PackShort(0xB0, 7, 100)
	if err := m.Broadcast(raw); err == nil {
		t.Error("Broadcast with one failing output returned nil error")
	}
	if got := drv.SentTo(good); len(got) != 1 || got[0] != raw {
		t.Errorf("surviving output received %v, want [%#x]", got, raw)
	}
}

func TestSendNotOpen(t *testing.T) {
	m, _ := newTestManager(t, 0, 1)

	if err := m.Send(0, contracts.PackShort(0x90, 60, 1)); !errors.Is(err, contracts.ErrNotOpen) {
		t.Errorf("Send error = %v, want ErrNotOpen", err)
	}
}

func TestInputOutputIndependence(t *testing.T) {
	m, _ := newTestManager(t, 1, 1)

	if _, err := m.OpenInput(0); err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	// The output side keeps its own registry; id 0 is not "already open".
	if _, err := m.OpenOutput(0); err != nil {
		t.Fatalf("OpenOutput with same id: %v", err)
	}
	if err := m.CloseOutput(0); err != nil {
		t.Fatalf("CloseOutput: %v", err)
	}
	if ids := m.OpenIDs(contracts.DirectionInput); len(ids) != 1 {
		t.Errorf("input closed by output close, open inputs = %v", ids)
	}
}
