package contracts

// LogLevel represents the severity level for logging. The zero value is
// InfoLevel.
type LogLevel int8

const (
	// DebugLevel indicates messages useful while troubleshooting.
	DebugLevel LogLevel = iota - 1
	// InfoLevel indicates messages that highlight normal progress.
	InfoLevel
	// WarnLevel indicates situations that should be monitored.
	WarnLevel
	// ErrorLevel indicates failures that need attention.
	ErrorLevel
)

// Field is a structured log field builder. Each method returns a new Field
// carrying one key/value pair; obtain a fresh builder from Logger.Field for
// every pair.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	String(key string, val string) Field
	Error(key string, val error) Field
	Uint8(key string, val uint8) Field
	Uint32(key string, val uint32) Field
	Uint64(key string, val uint64) Field
}

// Logger provides leveled, structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Field() Field

	SetLevel(level LogLevel)
}
