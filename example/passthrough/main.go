package main

import (
	"flag"
	"fmt"

	"github.com/xlab/closer"

	"github.com/hetima/midihook/internal/logger"
	"github.com/hetima/midihook/sdk/contracts"
	"github.com/hetima/midihook/sdk/midihook"
)

// Routes everything arriving on one input verbatim to every available
// output. No handlers are registered, so pass-through forwards it all.
func main() {
	inName := flag.String("in", "", "input device name (first device when empty)")
	flag.Parse()

	defer closer.Close()

	log := logger.NewZapLogger()

	engine, err := midihook.New(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithDebugSink(midihook.NewLogSink(log)),
	)
	if err != nil {
		closer.Fatalln("cannot start midi engine:", err)
	}
	closer.Bind(func() {
		engine.Close()
	})

	if *inName != "" {
		if _, err := engine.OpenInputByName(*inName); err != nil {
			closer.Fatalln("cannot open midi input:", err)
		}
	} else {
		inputs, err := engine.Devices(contracts.DirectionInput)
		if err != nil || len(inputs) == 0 {
			closer.Fatalln("no midi inputs found:", err)
		}
		if _, err := engine.OpenInput(inputs[0].ID); err != nil {
			closer.Fatalln("cannot open midi input:", err)
		}
	}

	outputs, err := engine.Devices(contracts.DirectionOutput)
	if err != nil {
		closer.Fatalln("cannot list midi outputs:", err)
	}
	for _, dev := range outputs {
		if _, err := engine.OpenOutput(dev.ID); err != nil {
			log.Warn("cannot open midi output",
				log.Field().Int("device", dev.ID),
				log.Field().Error("error", err))
		}
	}

	fmt.Println("Routing MIDI input to all outputs... Press Ctrl+C to exit.")
	closer.Hold()
}
