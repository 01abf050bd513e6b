// Package event decodes packed MIDI short messages into structured events.
package event

import (
	"fmt"

	"github.com/hetima/midihook/sdk/contracts"
)

// pitchClasses is the chromatic name table, indexed by note number mod 12.
var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// octaves is indexed by note number divided by 12. Octave -2 sits at index
// zero, so the full 0..127 note range spans C-2 through G8 and middle C
// (note 60) is named C3.
var octaves = [11]int{-2, -1, 0, 1, 2, 3, 4, 5, 6, 7, 8}

// systemKinds maps the low nibble of a 0xF status byte to its subtype.
// Nibbles absent from the table (0x4, 0x5, 0x7, 0xD) are unrecognized.
var systemKinds = map[byte]contracts.SystemKind{
	0x0: contracts.SystemSysexData,
	0x1: contracts.SystemTimecode,
	0x2: contracts.SystemSongPositionPointer,
	0x3: contracts.SystemSongSelect,
	0x6: contracts.SystemTuneRequest,
	0x8: contracts.SystemClock,
	0x9: contracts.SystemTick,
	0xA: contracts.SystemStart,
	0xB: contracts.SystemContinue,
	0xC: contracts.SystemStop,
	0xE: contracts.SystemActiveSense,
	0xF: contracts.SystemReset,
}

// Decode turns one packed short message into a structured event. The low
// byte of raw is the status byte, the next two bytes are data1 and data2,
// and the high byte is ignored. Decode is pure and never blocks; Source and
// Timestamp are left zero for the engine to stamp.
//
// A status byte outside the recognized set yields ErrDecodeUnsupported.
func Decode(raw uint32) (contracts.MidiEvent, error) {
	status := byte(raw & 0xFF)
	data1 := byte((raw >> 8) & 0xFF)
	data2 := byte((raw >> 16) & 0xFF)

	ev := contracts.MidiEvent{Raw: raw}

	switch status >> 4 {
	case 0x8:
		fillNote(&ev, contracts.KindNoteOff, status, data1, data2)
	case 0x9:
		kind := contracts.KindNoteOn
		if data2 == 0 {
			// A NoteOn with velocity zero is a NoteOff per the MIDI standard.
			kind = contracts.KindNoteOff
		}
		fillNote(&ev, kind, status, data1, data2)
	case 0xA:
		fillNote(&ev, contracts.KindAftertouch, status, data1, data2)
	case 0xB:
		ev.Kind = contracts.KindControlChange
		ev.Channel = channelOf(status)
		ev.Controller = data1
		ev.Value = data2
	case 0xC:
		ev.Kind = contracts.KindProgramChange
		ev.Channel = channelOf(status)
		ev.Program = data1
	case 0xD:
		ev.Kind = contracts.KindChannelPressure
		ev.Channel = channelOf(status)
		ev.Pressure = data1
	case 0xE:
		ev.Kind = contracts.KindPitchWheel
		ev.Channel = channelOf(status)
		ev.Pitch = uint16(data2)<<7 | uint16(data1)
	case 0xF:
		system, ok := systemKinds[status&0x0F]
		if !ok {
			return contracts.MidiEvent{}, fmt.Errorf("%w: system status 0x%02X", contracts.ErrDecodeUnsupported, status)
		}
		ev.Kind = contracts.KindSystemMessage
		ev.System = system
		switch system {
		case contracts.SystemSysexData:
			ev.SysexByte = data1
		case contracts.SystemSongPositionPointer:
			ev.Position = uint16(data2)<<7 | uint16(data1)
		case contracts.SystemSongSelect:
			ev.Song = data1
		}
	default:
		return contracts.MidiEvent{}, fmt.Errorf("%w: status 0x%02X", contracts.ErrDecodeUnsupported, status)
	}
	return ev, nil
}

// fillNote populates the fields shared by the note-family kinds. For
// Aftertouch the velocity byte carries the per-key pressure amount.
func fillNote(ev *contracts.MidiEvent, kind contracts.Kind, status, note, velocity byte) {
	note &= 0x7F
	ev.Kind = kind
	ev.Channel = channelOf(status)
	ev.Note = note
	ev.Velocity = velocity
	ev.PitchClass = pitchClasses[note%12]
	ev.Octave = octaves[note/12]
	ev.NoteName = fmt.Sprintf("%s%d", ev.PitchClass, ev.Octave)
}

// channelOf returns the 1-based channel from a channel voice status byte.
func channelOf(status byte) uint8 {
	return status&0x0F + 1
}

// ShortLength reports how many bytes of a packed short message are
// meaningful on the wire for the given status byte (1, 2 or 3). Byte-stream
// backends use it to send messages without trailing padding.
//
// A SysexData short (status 0xF0) has length 1: its payload byte exists
// only in the packed representation, so sending one over a byte-stream
// backend emits the lone status byte and drops the payload.
func ShortLength(status byte) int {
	switch status >> 4 {
	case 0xC, 0xD:
		return 2
	case 0xF:
		switch status & 0x0F {
		case 0x2:
			return 3
		case 0x1, 0x3:
			return 2
		default:
			return 1
		}
	default:
		return 3
	}
}
