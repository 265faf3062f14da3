// Package emulator implements the frame loop that drives a CHIP-8 machine
// and connects it to the host renderer, audio and input collaborators.
package emulator

import (
	"context"
	"fmt"
	"time"

	"chip8emu/internal/chip8"

	"github.com/retroenv/retrogolib/log"
)

// Renderer presents the framebuffer. Pixel value 1 is foreground.
type Renderer interface {
	Render(screen chip8.Framebuffer) error
}

// Input returns the current keypad snapshot and whether the user asked to
// quit.
type Input interface {
	Poll() (keys [chip8.KeyCount]bool, quit bool)
}

// Audio plays the tone while enabled. Implementations must not block.
type Audio interface {
	SetTone(on bool)
}

// Host bundles the collaborators of a session. It is constructed once by
// the caller and owns every window, renderer and device handle.
type Host struct {
	Renderer Renderer
	Input    Input
	Audio    Audio
}

// Observer is called before every step with the program counter and the
// instruction word about to be executed.
type Observer func(pc, word uint16)

// Settings control the frame pacing.
type Settings struct {
	StepsPerFrame int
	FrameDuration time.Duration
	Observer      Observer
}

// Stats counts the work done by a session.
type Stats struct {
	Frames       uint64
	Instructions uint64
}

// Emulator runs a machine frame by frame.
type Emulator struct {
	logger   *log.Logger
	machine  *chip8.Chip8
	host     Host
	settings Settings
	stats    Stats

	now   func() time.Time
	sleep func(time.Duration)
}

// New returns an emulator for the machine using the host collaborators.
func New(logger *log.Logger, machine *chip8.Chip8, host Host, settings Settings) *Emulator {
	return &Emulator{
		logger:   logger,
		machine:  machine,
		host:     host,
		settings: settings,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Stats returns the frame and instruction counters.
func (e *Emulator) Stats() Stats {
	return e.stats
}

// Run executes frames until the machine requests an exit, the input signals
// quit or the context is cancelled. It returns nil on a clean shutdown and
// the fatal machine error otherwise.
func (e *Emulator) Run(ctx context.Context) error {
	defer e.host.Audio.SetTone(false)

	for !e.machine.ExitRequested() {
		if ctx.Err() != nil {
			e.logger.Info("Emulation cancelled")
			e.machine.RequestExit()
			break
		}

		start := e.now()
		if err := e.RunFrame(); err != nil {
			return err
		}

		if remaining := e.settings.FrameDuration - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}

		keys, quit := e.host.Input.Poll()
		e.machine.SetKeys(keys)
		if quit {
			e.machine.RequestExit()
		}
	}

	e.logger.Debug("Emulation stopped",
		log.Int("frames", int(e.stats.Frames)),
		log.Int("instructions", int(e.stats.Instructions)))
	return nil
}

// RunFrame executes one frame's instruction batch, latches the keypad,
// presents a pending framebuffer, ticks the timers and gates the tone.
func (e *Emulator) RunFrame() error {
	m := e.machine

	for range e.settings.StepsPerFrame {
		if m.ExitRequested() {
			break
		}
		if e.settings.Observer != nil {
			if ins, err := m.Fetch(); err == nil {
				e.settings.Observer(m.PC, ins.Word)
			}
		}
		if _, err := m.Step(); err != nil {
			return fmt.Errorf("frame %d: %w", e.stats.Frames, err)
		}
		e.stats.Instructions++
	}
	m.LatchKeys()

	if m.DrawRequested() {
		if err := e.host.Renderer.Render(m.Framebuffer()); err != nil {
			m.RequestExit()
			return fmt.Errorf("rendering frame %d: %w", e.stats.Frames, err)
		}
		m.ClearDrawRequest()
	}

	m.TickTimers()
	e.host.Audio.SetTone(m.SoundActive())
	e.stats.Frames++
	return nil
}
