package midihook

import (
	"testing"
	"time"

	"github.com/hetima/midihook/internal/driver/drivertest"
	"github.com/hetima/midihook/internal/logger"
	"github.com/hetima/midihook/sdk/contracts"
)

func TestDefaultOptions(t *testing.T) {
	options, err := applyDefaultOptions(contracts.WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatalf("applyDefaultOptions: %v", err)
	}

	if options.HandlerPrefix != "Midi" {
		t.Errorf("HandlerPrefix = %q, want Midi", options.HandlerPrefix)
	}
	if !options.Dispatch || !options.PassThrough {
		t.Errorf("dispatch %v passThrough %v, want both enabled", options.Dispatch, options.PassThrough)
	}
	if options.ClientName != defaultClientName {
		t.Errorf("ClientName = %q, want %q", options.ClientName, defaultClientName)
	}
	if options.QueueSize != defaultQueueSize {
		t.Errorf("QueueSize = %d, want %d", options.QueueSize, defaultQueueSize)
	}
}

func TestOptionOverrides(t *testing.T) {
	options, err := applyDefaultOptions(
		contracts.WithLogger(logger.NewNop()),
		contracts.WithHandlerPrefix("Hook"),
		contracts.WithDispatch(false),
		contracts.WithPassThrough(false),
		contracts.WithQueueSize(-3),
		contracts.WithClientName(""),
	)
	if err != nil {
		t.Fatalf("applyDefaultOptions: %v", err)
	}

	if options.HandlerPrefix != "Hook" {
		t.Errorf("HandlerPrefix = %q, want Hook", options.HandlerPrefix)
	}
	if options.Dispatch || options.PassThrough {
		t.Error("dispatch and pass-through were not disabled")
	}
	if options.QueueSize != defaultQueueSize {
		t.Errorf("QueueSize = %d, want floor %d", options.QueueSize, defaultQueueSize)
	}
	if options.ClientName != defaultClientName {
		t.Errorf("empty ClientName kept, want %q", defaultClientName)
	}
}

func TestNewDeliversToCustomPrefix(t *testing.T) {
	drv := drivertest.New(1, 0)
	mux := NewHandlerMux()
	delivered := make(chan contracts.MidiEvent, 1)
	mux.Handle("HookNoteOn", func(ev contracts.MidiEvent) { delivered <- ev })

	eng, err := New(
		contracts.WithLogger(logger.NewNop()),
		contracts.WithDriver(drv),
		contracts.WithHandlers(mux),
		contracts.WithHandlerPrefix("Hook"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Close()

	if _, err := eng.OpenInput(0); err != nil {
		t.Fatalf("OpenInput: %v", err)
	}
	h, ok := drv.Handle(contracts.DirectionInput, 0)
	if !ok {
		t.Fatal("driver holds no handle for input 0")
	}
	drv.Emit(contracts.PackShort(0x91, 64, 80), h)

	select {
	case ev := <-delivered:
		if ev.Kind != contracts.KindNoteOn || ev.Channel != 2 || ev.Note != 64 {
			t.Errorf("delivered kind %v channel %d note %d, want NoteOn/2/64", ev.Kind, ev.Channel, ev.Note)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never fired")
	}
}

func TestNewListsDevices(t *testing.T) {
	drv := drivertest.New(2, 1)
	eng, err := New(contracts.WithLogger(logger.NewNop()), contracts.WithDriver(drv))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer eng.Close()

	ins, err := eng.Devices(contracts.DirectionInput)
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(ins) != 2 {
		t.Fatalf("inputs = %d, want 2", len(ins))
	}
	if desc, ok := eng.LookupInput("Test In 1"); !ok || desc.ID != 1 {
		t.Errorf("LookupInput = %+v ok=%v, want id 1", desc, ok)
	}
	if _, ok := eng.LookupOutput("Test In 1"); ok {
		t.Error("input name resolved as an output")
	}
}
