package contracts

// DefaultHandlerPrefix is prepended to every generated handler identifier
// unless WithHandlerPrefix overrides it.
const DefaultHandlerPrefix = "Midi"

// Options defines the configuration for the MIDI engine.
type Options struct {
	Logger        Logger          // Logger for engine events and errors.
	LogLevel      LogLevel        // Minimum level the logger emits.
	HandlerPrefix string          // Prefix for generated handler identifiers.
	Handlers      HandlerRegistry // Host handler registry; nil disables handler delivery.
	Dispatch      bool            // Whether handler delivery is enabled.
	PassThrough   bool            // Whether unhandled events are forwarded to open outputs.
	DebugSink     DebugSink       // Optional observer for events and device state.
	Driver        Driver          // Platform driver; nil selects one by GOOS.
	ClientName    string          // Name registered with backends that require one.
	QueueSize     int             // Capacity of the raw event queue.
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the logger for the engine.
func WithLogger(l Logger) Option {
	return func(opts *Options) {
		opts.Logger = l
	}
}

// WithLogLevel sets the minimum logging level for the engine.
func WithLogLevel(level LogLevel) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithHandlerPrefix overrides the identifier prefix used when generating
// candidate handler identifiers.
func WithHandlerPrefix(prefix string) Option {
	return func(opts *Options) {
		opts.HandlerPrefix = prefix
	}
}

// WithHandlers sets the registry consulted for handler delivery.
func WithHandlers(registry HandlerRegistry) Option {
	return func(opts *Options) {
		opts.Handlers = registry
	}
}

// WithDispatch enables or disables handler delivery. Disabling it leaves
// the last-event cache and pass-through active.
func WithDispatch(enabled bool) Option {
	return func(opts *Options) {
		opts.Dispatch = enabled
	}
}

// WithPassThrough enables or disables forwarding of unhandled events to
// all open outputs.
func WithPassThrough(enabled bool) Option {
	return func(opts *Options) {
		opts.PassThrough = enabled
	}
}

// WithDebugSink installs an observer for decoded events and device state
// changes.
func WithDebugSink(sink DebugSink) Option {
	return func(opts *Options) {
		opts.DebugSink = sink
	}
}

// WithDriver forces a specific platform driver instead of selecting one by
// operating system. Intended for tests and embedders with custom backends.
func WithDriver(driver Driver) Option {
	return func(opts *Options) {
		opts.Driver = driver
	}
}

// WithClientName sets the client name registered with backends that require
// one (CoreMIDI).
func WithClientName(name string) Option {
	return func(opts *Options) {
		opts.ClientName = name
	}
}

// WithQueueSize sets the capacity of the raw event queue between the OS
// callback and the event goroutine.
func WithQueueSize(n int) Option {
	return func(opts *Options) {
		opts.QueueSize = n
	}
}
