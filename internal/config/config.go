// Package config handles application configuration and setup
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Supported frontend backends.
const (
	BackendPixel = "pixel"
	BackendSDL   = "sdl"
	BackendTerm  = "term"
)

var backends = []string{BackendPixel, BackendSDL, BackendTerm}

// Options contains the emulator settings.
type Options struct {
	ROM string

	Backend     string
	Frequency   int // instructions per second
	RefreshRate int // frames per second
	Scale       int
	Seed        uint64
	HoldFrames  int

	Mute  bool
	Trace bool
	Debug bool
	Quiet bool
}

// UsageError is returned when the command line could not be parsed. It
// carries the usage text of the flag set.
type UsageError struct {
	err   error
	usage string
}

func (e *UsageError) Error() string {
	return e.err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.err
}

// ShowUsage prints the usage text.
func (e *UsageError) ShowUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, e.usage)
}

// Default returns the default options.
func Default() Options {
	return Options{
		Backend:     BackendPixel,
		Frequency:   500,
		RefreshRate: 60,
		Scale:       10,
		HoldFrames:  6,
	}
}

// ParseFlags parses the command line arguments without the program name.
func ParseFlags(name string, args []string) (Options, error) {
	opts := Default()

	var usage bytes.Buffer
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.StringVar(&opts.Backend, "backend", opts.Backend, "frontend to use: pixel, sdl or term")
	flags.IntVar(&opts.Frequency, "freq", opts.Frequency, "instructions executed per second")
	flags.IntVar(&opts.RefreshRate, "refresh", opts.RefreshRate, "display refresh rate in Hz")
	flags.IntVar(&opts.Scale, "scale", opts.Scale, "window pixels per display pixel")
	flags.Uint64Var(&opts.Seed, "seed", opts.Seed, "random number generator seed, 0 uses the current time")
	flags.IntVar(&opts.HoldFrames, "hold", opts.HoldFrames, "frames a key stays pressed in the terminal frontend")
	flags.BoolVar(&opts.Mute, "mute", false, "disable sound")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	writeUsage := func() {
		_, _ = fmt.Fprintf(&usage, "usage: %s [options] <ROM file>\n\n", name)
		flags.SetOutput(&usage)
		flags.PrintDefaults()
		flags.SetOutput(io.Discard)
	}

	if err := flags.Parse(args); err != nil {
		writeUsage()
		return opts, &UsageError{err: err, usage: usage.String()}
	}
	if flags.NArg() != 1 {
		writeUsage()
		return opts, &UsageError{err: errors.New("expected exactly one ROM file"), usage: usage.String()}
	}
	opts.ROM = flags.Arg(0)
	if opts.Trace {
		opts.Debug = true
	}

	if err := opts.Validate(); err != nil {
		writeUsage()
		return opts, &UsageError{err: err, usage: usage.String()}
	}
	return opts, nil
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if !slices.Contains(backends, o.Backend) {
		return fmt.Errorf("unsupported backend '%s'", o.Backend)
	}
	if o.RefreshRate <= 0 {
		return fmt.Errorf("invalid refresh rate %d", o.RefreshRate)
	}
	if o.Frequency < o.RefreshRate {
		return fmt.Errorf("frequency %d is lower than the refresh rate %d", o.Frequency, o.RefreshRate)
	}
	if o.Scale <= 0 {
		return fmt.Errorf("invalid scale %d", o.Scale)
	}
	if o.HoldFrames <= 0 {
		return fmt.Errorf("invalid key hold frames %d", o.HoldFrames)
	}
	return nil
}

// InstructionsPerFrame returns the number of steps executed per frame.
func (o Options) InstructionsPerFrame() int {
	return o.Frequency / o.RefreshRate
}

// FrameDuration returns the wall clock budget of one frame.
func (o Options) FrameDuration() time.Duration {
	return time.Second / time.Duration(o.RefreshRate)
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
