package midihook

import (
	"testing"

	"github.com/hetima/midihook/sdk/contracts"
)

func TestHandlerMuxRegisterResolve(t *testing.T) {
	mux := NewHandlerMux()

	if _, ok := mux.Resolve("MidiNoteOn"); ok {
		t.Fatal("empty mux resolved an identifier")
	}

	fired := 0
	mux.Handle("MidiNoteOn", func(contracts.MidiEvent) { fired++ })
	fn, ok := mux.Resolve("MidiNoteOn")
	if !ok {
		t.Fatal("registered identifier did not resolve")
	}
	fn(contracts.MidiEvent{})
	if fired != 1 {
		t.Errorf("handler fired %d times, want 1", fired)
	}
}

func TestHandlerMuxReplace(t *testing.T) {
	mux := NewHandlerMux()

	var got string
	mux.Handle("Midi", func(contracts.MidiEvent) { got = "first" })
	mux.Handle("Midi", func(contracts.MidiEvent) { got = "second" })

	fn, _ := mux.Resolve("Midi")
	fn(contracts.MidiEvent{})
	if got != "second" {
		t.Errorf("resolved handler = %q, want the replacement", got)
	}
}

func TestHandlerMuxUnhandle(t *testing.T) {
	mux := NewHandlerMux()
	mux.Handle("MidiControlChange", func(contracts.MidiEvent) {})
	mux.Unhandle("MidiControlChange")
	if _, ok := mux.Resolve("MidiControlChange"); ok {
		t.Error("removed identifier still resolves")
	}
}

func TestHandlerMuxNilHandler(t *testing.T) {
	mux := NewHandlerMux()
	mux.Handle("Midi", nil)
	if _, ok := mux.Resolve("Midi"); ok {
		t.Error("nil handler was registered")
	}
}
