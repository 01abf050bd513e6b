package main

import (
	"fmt"

	"github.com/xlab/closer"

	"github.com/hetima/midihook/internal/logger"
	"github.com/hetima/midihook/sdk/contracts"
	"github.com/hetima/midihook/sdk/midihook"
)

func main() {
	defer closer.Close()

	log := logger.NewZapLogger()

	mux := midihook.NewHandlerMux()
	mux.Handle("Midi", func(ev contracts.MidiEvent) {
		log.Info("midi event",
			log.Field().String("kind", ev.Kind.String()),
			log.Field().Uint8("channel", ev.Channel),
			log.Field().Uint32("raw", ev.Raw))
	})
	mux.Handle("MidiNoteOn", func(ev contracts.MidiEvent) {
		log.Info("note on",
			log.Field().String("note", ev.NoteName),
			log.Field().Uint8("velocity", ev.Velocity))
	})

	engine, err := midihook.New(
		contracts.WithLogger(log),
		contracts.WithHandlers(mux),
		contracts.WithPassThrough(false),
	)
	if err != nil {
		closer.Fatalln("cannot start midi engine:", err)
	}
	closer.Bind(func() {
		engine.Close()
	})

	inputs, err := engine.Devices(contracts.DirectionInput)
	if err != nil || len(inputs) == 0 {
		closer.Fatalln("no midi inputs found:", err)
	}
	fmt.Println("Available MIDI inputs:")
	for _, dev := range inputs {
		fmt.Printf("  %d: %s\n", dev.ID, dev.Name)
	}

	if _, err := engine.OpenInput(inputs[0].ID); err != nil {
		closer.Fatalln("cannot open midi input:", err)
	}

	fmt.Println("Monitoring MIDI events... Press Ctrl+C to exit.")
	closer.Hold()
}
