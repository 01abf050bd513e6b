package midihook

import (
	"github.com/hetima/midihook/internal/logger"
	"github.com/hetima/midihook/sdk/contracts"
)

const (
	defaultClientName = "midihook"
	defaultQueueSize  = 128
)

// applyDefaultOptions sets default values for Options if not explicitly
// provided. Dispatch and pass-through start enabled; the zero LogLevel is
// already InfoLevel.
func applyDefaultOptions(opts ...contracts.Option) (contracts.Options, error) {
	options := &contracts.Options{
		HandlerPrefix: contracts.DefaultHandlerPrefix,
		Dispatch:      true,
		PassThrough:   true,
		ClientName:    defaultClientName,
		QueueSize:     defaultQueueSize,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.HandlerPrefix == "" {
		options.HandlerPrefix = contracts.DefaultHandlerPrefix
	}
	if options.ClientName == "" {
		options.ClientName = defaultClientName
	}
	if options.QueueSize <= 0 {
		options.QueueSize = defaultQueueSize
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
