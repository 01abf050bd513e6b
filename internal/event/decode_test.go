package event

import (
	"errors"
	"testing"

	"github.com/hetima/midihook/sdk/contracts"
)

func TestDecodeChannelVoice(t *testing.T) {
	tests := []struct {
		name string
		raw  uint32
		want contracts.MidiEvent
	}{
		{
			name: "note off",
			raw:  contracts.PackShort(0x80, 60, 40),
			want: contracts.MidiEvent{
				Kind: contracts.KindNoteOff, Channel: 1, Note: 60, Velocity: 40,
				PitchClass: "C", Octave: 3, NoteName: "C3",
			},
		},
		{
			name: "note on",
			raw:  contracts.PackShort(0x90, 69, 100),
			want: contracts.MidiEvent{
				Kind: contracts.KindNoteOn, Channel: 1, Note: 69, Velocity: 100,
				PitchClass: "A", Octave: 3, NoteName: "A3",
			},
		},
		{
			name: "note on velocity zero is note off",
			raw:  contracts.PackShort(0x93, 64, 0),
			want: contracts.MidiEvent{
				Kind: contracts.KindNoteOff, Channel: 4, Note: 64, Velocity: 0,
				PitchClass: "E", Octave: 3, NoteName: "E3",
			},
		},
		{
			name: "aftertouch",
			raw:  contracts.PackShort(0xA5, 61, 77),
			want: contracts.MidiEvent{
				Kind: contracts.KindAftertouch, Channel: 6, Note: 61, Velocity: 77,
				PitchClass: "C#", Octave: 3, NoteName: "C#3",
			},
		},
		{
			name: "control change",
			raw:  contracts.PackShort(0xB0, 7, 127),
			want: contracts.MidiEvent{
				Kind: contracts.KindControlChange, Channel: 1, Controller: 7, Value: 127,
			},
		},
		{
			name: "program change",
			raw:  contracts.PackShort(0xC2, 19, 0),
			want: contracts.MidiEvent{
				Kind: contracts.KindProgramChange, Channel: 3, Program: 19,
			},
		},
		{
			name: "channel pressure",
			raw:  contracts.PackShort(0xDF, 88, 0),
			want: contracts.MidiEvent{
				Kind: contracts.KindChannelPressure, Channel: 16, Pressure: 88,
			},
		},
		{
			name: "pitch wheel center",
			raw:  contracts.PackShort(0xE0, 0x00, 0x40),
			want: contracts.MidiEvent{
				Kind: contracts.KindPitchWheel, Channel: 1, Pitch: 8192,
			},
		},
		{
			name: "pitch wheel max",
			raw:  contracts.PackShort(0xE9, 0x7F, 0x7F),
			want: contracts.MidiEvent{
				Kind: contracts.KindPitchWheel, Channel: 10, Pitch: 16383,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode(%#x) returned error: %v", tt.raw, err)
			}
			tt.want.Raw = tt.raw
			if got != tt.want {
				t.Errorf("Decode(%#x)\n got %+v\nwant %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeNoteNames(t *testing.T) {
	tests := []struct {
		note byte
		want string
	}{
		{0, "C-2"},
		{11, "B-2"},
		{12, "C-1"},
		{24, "C0"},
		{60, "C3"},
		{61, "C#3"},
		{69, "A3"},
		{112, "E7"},
		{127, "G8"},
	}

	for _, tt := range tests {
		got, err := Decode(contracts.PackShort(0x90, tt.note, 1))
		if err != nil {
			t.Fatalf("Decode note %d returned error: %v", tt.note, err)
		}
		if got.NoteName != tt.want {
			t.Errorf("note %d: NoteName = %q, want %q", tt.note, got.NoteName, tt.want)
		}
	}
}

func TestDecodeSystem(t *testing.T) {
	tests := []struct {
		name   string
		raw    uint32
		system contracts.SystemKind
		check  func(t *testing.T, ev contracts.MidiEvent)
	}{
		{
			name:   "sysex data byte",
			raw:    contracts.PackShort(0xF0, 0x42, 0),
			system: contracts.SystemSysexData,
			check: func(t *testing.T, ev contracts.MidiEvent) {
				if ev.SysexByte != 0x42 {
					t.Errorf("SysexByte = %#x, want 0x42", ev.SysexByte)
				}
			},
		},
		{
			name:   "timecode",
			raw:    contracts.PackShort(0xF1, 0x35, 0),
			system: contracts.SystemTimecode,
		},
		{
			name:   "song position pointer",
			raw:    contracts.PackShort(0xF2, 0x01, 0x02),
			system: contracts.SystemSongPositionPointer,
			check: func(t *testing.T, ev contracts.MidiEvent) {
				if ev.Position != 0x02<<7|0x01 {
					t.Errorf("Position = %d, want %d", ev.Position, 0x02<<7|0x01)
				}
			},
		},
		{
			name:   "song select",
			raw:    contracts.PackShort(0xF3, 9, 0),
			system: contracts.SystemSongSelect,
			check: func(t *testing.T, ev contracts.MidiEvent) {
				if ev.Song != 9 {
					t.Errorf("Song = %d, want 9", ev.Song)
				}
			},
		},
		{name: "tune request", raw: contracts.PackShort(0xF6, 0, 0), system: contracts.SystemTuneRequest},
		{name: "clock", raw: contracts.PackShort(0xF8, 0, 0), system: contracts.SystemClock},
		{name: "tick", raw: contracts.PackShort(0xF9, 0, 0), system: contracts.SystemTick},
		{name: "start", raw: contracts.PackShort(0xFA, 0, 0), system: contracts.SystemStart},
		{name: "continue", raw: contracts.PackShort(0xFB, 0, 0), system: contracts.SystemContinue},
		{name: "stop", raw: contracts.PackShort(0xFC, 0, 0), system: contracts.SystemStop},
		{name: "active sense", raw: contracts.PackShort(0xFE, 0, 0), system: contracts.SystemActiveSense},
		{name: "reset", raw: contracts.PackShort(0xFF, 0, 0), system: contracts.SystemReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode(%#x) returned error: %v", tt.raw, err)
			}
			if got.Kind != contracts.KindSystemMessage {
				t.Fatalf("Kind = %v, want SystemMessage", got.Kind)
			}
			if got.System != tt.system {
				t.Errorf("System = %v, want %v", got.System, tt.system)
			}
			if got.Channel != 0 {
				t.Errorf("Channel = %d, want 0 for system messages", got.Channel)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestDecodeUnsupported(t *testing.T) {
	raws := []uint32{
		contracts.PackShort(0x00, 1, 2),
		contracts.PackShort(0x10, 1, 2),
		contracts.PackShort(0x7F, 1, 2),
		contracts.PackShort(0xF4, 0, 0),
		contracts.PackShort(0xF5, 0, 0),
		contracts.PackShort(0xF7, 0, 0),
		contracts.PackShort(0xFD, 0, 0),
	}

	for _, raw := range raws {
		if _, err := Decode(raw); !errors.Is(err, contracts.ErrDecodeUnsupported) {
			t.Errorf("Decode(%#x) error = %v, want ErrDecodeUnsupported", raw, err)
		}
	}
}

func TestShortLength(t *testing.T) {
	tests := []struct {
		status byte
		want   int
	}{
		{0x80, 3},
		{0x90, 3},
		{0xA0, 3},
		{0xB0, 3},
		{0xC0, 2},
		{0xD0, 2},
		{0xE0, 3},
		{0xF0, 1},
		{0xF1, 2},
		{0xF2, 3},
		{0xF3, 2},
		{0xF6, 1},
		{0xF8, 1},
		{0xFF, 1},
	}

	for _, tt := range tests {
		if got := ShortLength(tt.status); got != tt.want {
			t.Errorf("ShortLength(%#x) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
