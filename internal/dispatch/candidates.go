package dispatch

import (
	"strconv"

	"github.com/hetima/midihook/sdk/contracts"
)

// Candidates returns the ordered handler identifiers for one event, most
// generic first: the bare prefix, the kind identifier, then the
// kind-dependent refinements. Every identifier that resolves is invoked,
// so the order is semantic rather than first-match-wins.
//
// With the default prefix, a NoteOn for C#3 on any channel produces
// "Midi", "MidiNoteOn", "MidiNoteOnC#", "MidiNoteOnC#3", "MidiNoteOn61".
func Candidates(prefix string, ev contracts.MidiEvent) []string {
	kindID := prefix + ev.Kind.String()
	ids := make([]string, 0, 5)
	ids = append(ids, prefix, kindID)

	switch ev.Kind {
	case contracts.KindNoteOff, contracts.KindNoteOn, contracts.KindAftertouch:
		ids = append(ids,
			kindID+ev.PitchClass,
			kindID+ev.NoteName,
			kindID+strconv.Itoa(int(ev.Note)),
		)
	case contracts.KindControlChange:
		ids = append(ids, kindID+strconv.Itoa(int(ev.Controller)))
	case contracts.KindProgramChange:
		ids = append(ids, kindID+strconv.Itoa(int(ev.Program)))
	case contracts.KindSystemMessage:
		ids = append(ids, prefix+ev.System.String())
	}
	return ids
}
