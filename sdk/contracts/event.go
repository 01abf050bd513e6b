package contracts

// Kind classifies a decoded MIDI short message by the high nibble of its
// status byte.
type Kind uint8

const (
	// KindInvalid is the zero value; no decoded event carries it.
	KindInvalid Kind = iota
	// KindNoteOff is a Note Off message (status 0x8n), or a Note On with
	// velocity zero, which the MIDI standard defines as a Note Off.
	KindNoteOff
	// KindNoteOn is a Note On message (status 0x9n) with non-zero velocity.
	KindNoteOn
	// KindAftertouch is polyphonic key pressure (status 0xAn).
	KindAftertouch
	// KindControlChange is a controller message (status 0xBn).
	KindControlChange
	// KindProgramChange is a program select message (status 0xCn).
	KindProgramChange
	// KindChannelPressure is channel-wide pressure (status 0xDn).
	KindChannelPressure
	// KindPitchWheel is a 14-bit pitch bend message (status 0xEn).
	KindPitchWheel
	// KindSystemMessage covers status 0xFn; the subtype is in SystemKind.
	KindSystemMessage
)

var kindNames = [...]string{
	KindInvalid:         "Invalid",
	KindNoteOff:         "NoteOff",
	KindNoteOn:          "NoteOn",
	KindAftertouch:      "Aftertouch",
	KindControlChange:   "ControlChange",
	KindProgramChange:   "ProgramChange",
	KindChannelPressure: "ChannelPressure",
	KindPitchWheel:      "PitchWheel",
	KindSystemMessage:   "SystemMessage",
}

// String returns the canonical kind name used in handler identifiers.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// SystemKind refines KindSystemMessage by the low nibble of the status
// byte. Events of any other kind carry SystemNone.
type SystemKind uint8

const (
	SystemNone SystemKind = iota
	SystemSysexData
	SystemTimecode
	SystemSongPositionPointer
	SystemSongSelect
	SystemTuneRequest
	SystemClock
	SystemTick
	SystemStart
	SystemContinue
	SystemStop
	SystemActiveSense
	SystemReset
)

var systemNames = [...]string{
	SystemNone:                "None",
	SystemSysexData:           "SysexData",
	SystemTimecode:            "Timecode",
	SystemSongPositionPointer: "SongPositionPointer",
	SystemSongSelect:          "SongSelect",
	SystemTuneRequest:         "TuneRequest",
	SystemClock:               "Clock",
	SystemTick:                "Tick",
	SystemStart:               "Start",
	SystemContinue:            "Continue",
	SystemStop:                "Stop",
	SystemActiveSense:         "ActiveSense",
	SystemReset:               "Reset",
}

// String returns the canonical subtype name used in handler identifiers.
func (s SystemKind) String() string {
	if int(s) < len(systemNames) {
		return systemNames[s]
	}
	return "None"
}

// MidiEvent is one decoded MIDI short message. Which fields are meaningful
// depends on Kind:
//
//   - NoteOff, NoteOn, Aftertouch: Channel, Note, Velocity and the derived
//     PitchClass, Octave and NoteName. For Aftertouch the Velocity field
//     carries the per-key pressure amount.
//   - ControlChange: Channel, Controller, Value.
//   - ProgramChange: Channel, Program.
//   - ChannelPressure: Channel, Pressure.
//   - PitchWheel: Channel, Pitch (0..16383, 8192 is center).
//   - SystemMessage: System, plus SysexByte, Position or Song depending on
//     the subtype. Channel is zero for system messages.
//
// Raw is always the original packed message; Source and Timestamp are
// stamped by the engine when the message arrives from hardware and are zero
// for events built directly by Decode.
type MidiEvent struct {
	Kind       Kind
	Channel    uint8  // 1..16, or 0 for system messages.
	Note       uint8  // 0..127.
	Velocity   uint8  // 0..127.
	PitchClass string // "C".."B", from the chromatic name table.
	Octave     int    // -2..8, from the fixed octave table.
	NoteName   string // PitchClass plus Octave, e.g. "C3".
	Controller uint8
	Value      uint8
	Program    uint8
	Pressure   uint8
	Pitch      uint16
	System     SystemKind
	SysexByte  uint8
	Position   uint16
	Song       uint8
	Raw        uint32
	Source     DeviceHandle
	Timestamp  uint64 // Nanoseconds since the Unix epoch.
}

// PackShort packs a status byte and two data bytes into the 32-bit
// short-message layout used throughout the engine: status in the low byte,
// data1 and data2 in the next two bytes, high byte zero.
func PackShort(status, data1, data2 byte) uint32 {
	return uint32(status) | uint32(data1)<<8 | uint32(data2)<<16
}
