// Package main implements a CHIP-8 virtual machine with selectable frontends.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"chip8emu/internal/audio"
	"chip8emu/internal/chip8"
	"chip8emu/internal/config"
	"chip8emu/internal/disasm"
	"chip8emu/internal/emulator"
	"chip8emu/internal/frontend/pixelgl"
	"chip8emu/internal/frontend/sdl"
	"chip8emu/internal/frontend/term"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

const windowTitle = "CHIP-8"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// SDL and OpenGL calls have to be made from the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := config.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			printBanner(opts)
			fmt.Fprintf(os.Stderr, "%s\n\n", err)
			usageErr.ShowUsage(os.Stderr)
		} else {
			logger.Error("Parsing arguments failed", log.Err(err))
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(opts)

	machine, err := loadMachine(logger, opts)
	if err != nil {
		logger.Error("Loading ROM failed", log.Err(err))
		os.Exit(1)
	}

	if err := run(ctx, logger, opts, machine); err != nil {
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func printBanner(opts config.Options) {
	if opts.Quiet {
		return
	}
	fmt.Println("[-----------------------------]")
	fmt.Println("[ chip8emu - CHIP-8 emulator  ]")
	fmt.Printf("[-----------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func loadMachine(logger *log.Logger, opts config.Options) (*chip8.Chip8, error) {
	var options []chip8.Option
	if opts.Seed != 0 {
		options = append(options, chip8.WithSeed(opts.Seed))
	}

	machine := chip8.New(logger, options...)
	if err := machine.LoadROMFile(opts.ROM); err != nil {
		return nil, err
	}
	logger.Debug("ROM loaded", log.String("file", opts.ROM))
	return machine, nil
}

// run builds the host of the selected backend and runs the emulator until
// it stops.
func run(ctx context.Context, logger *log.Logger, opts config.Options, machine *chip8.Chip8) error {
	settings := emulator.Settings{
		StepsPerFrame: opts.InstructionsPerFrame(),
		FrameDuration: opts.FrameDuration(),
	}
	if opts.Trace {
		settings.Observer = disasm.Tracer(logger)
	}

	switch opts.Backend {
	case config.BackendSDL:
		return runSDL(ctx, logger, opts, machine, settings)
	case config.BackendTerm:
		return runTerm(ctx, logger, opts, machine, settings)
	default:
		var err error
		pixelgl.Run(func() {
			err = runPixel(ctx, logger, opts, machine, settings)
		})
		return err
	}
}

func runPixel(ctx context.Context, logger *log.Logger, opts config.Options,
	machine *chip8.Chip8, settings emulator.Settings) error {

	window, err := pixelgl.New(windowTitle, opts.Scale)
	if err != nil {
		return err
	}
	defer window.Close()

	speaker, closeSpeaker := newSpeaker(logger, opts.Mute)
	defer closeSpeaker()

	host := emulator.Host{Renderer: window, Input: window, Audio: speaker}
	return emulator.New(logger, machine, host, settings).Run(ctx)
}

func runSDL(ctx context.Context, logger *log.Logger, opts config.Options,
	machine *chip8.Chip8, settings emulator.Settings) error {

	frontend, err := sdl.New(logger, windowTitle, opts.Scale, opts.Mute)
	if err != nil {
		return err
	}
	defer frontend.Close()

	host := emulator.Host{Renderer: frontend, Input: frontend, Audio: frontend}
	return emulator.New(logger, machine, host, settings).Run(ctx)
}

func runTerm(ctx context.Context, logger *log.Logger, opts config.Options,
	machine *chip8.Chip8, settings emulator.Settings) error {

	terminal, err := term.New(logger, opts.HoldFrames)
	if err != nil {
		return err
	}
	defer terminal.Close()

	speaker, closeSpeaker := newSpeaker(logger, opts.Mute)
	defer closeSpeaker()

	host := emulator.Host{Renderer: terminal, Input: terminal, Audio: speaker}
	return emulator.New(logger, machine, host, settings).Run(ctx)
}

// newSpeaker returns the system speaker tone, or a silent sink when muted
// or when no audio device is available.
func newSpeaker(logger *log.Logger, mute bool) (emulator.Audio, func()) {
	if mute {
		return audio.Silent{}, func() {}
	}

	beeper, err := audio.NewBeeper()
	if err != nil {
		logger.Warn("Audio disabled", log.Err(err))
		return audio.Silent{}, func() {}
	}
	return beeper, beeper.Close
}
