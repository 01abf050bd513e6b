package midihook

import (
	"github.com/hetima/midihook/sdk/contracts"
)

type logSink struct {
	log contracts.Logger
}

// NewLogSink returns a DebugSink that writes every decoded event and
// device state change to the logger at debug level.
func NewLogSink(log contracts.Logger) contracts.DebugSink {
	return &logSink{log: log}
}

func (s *logSink) EventDecoded(ev contracts.MidiEvent) {
	fields := []contracts.Field{
		s.log.Field().String("kind", ev.Kind.String()),
		s.log.Field().Uint8("channel", ev.Channel),
		s.log.Field().Uint32("raw", ev.Raw),
	}
	if ev.NoteName != "" {
		fields = append(fields, s.log.Field().String("note", ev.NoteName))
	}
	if ev.Kind == contracts.KindSystemMessage {
		fields = append(fields, s.log.Field().String("system", ev.System.String()))
	}
	s.log.Debug("midi event", fields...)
}

func (s *logSink) DeviceStateChanged(dir contracts.Direction, device contracts.DeviceDescriptor, open bool) {
	s.log.Debug("device state changed",
		s.log.Field().String("direction", dir.String()),
		s.log.Field().Int("device", device.ID),
		s.log.Field().String("name", device.Name),
		s.log.Field().Bool("open", open))
}
