// Package sdl implements a window, keyboard and audio frontend based on SDL2.
package sdl

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"chip8emu/internal/chip8"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	audioFrequency = 44100
	toneHz         = 440
	// queued audio above this size is enough to cover the next frame
	audioLowWater = audioFrequency / 15 * 2
)

var keyMap = map[sdl.Keycode]byte{
	sdl.K_0: 0x0, sdl.K_1: 0x1, sdl.K_2: 0x2, sdl.K_3: 0x3,
	sdl.K_4: 0x4, sdl.K_5: 0x5, sdl.K_6: 0x6, sdl.K_7: 0x7,
	sdl.K_8: 0x8, sdl.K_9: 0x9, sdl.K_a: 0xA, sdl.K_b: 0xB,
	sdl.K_c: 0xC, sdl.K_d: 0xD, sdl.K_e: 0xE, sdl.K_f: 0xF,
}

// Frontend owns the SDL window, renderer and audio device of a session.
type Frontend struct {
	logger   *log.Logger
	window   *sdl.Window
	renderer *sdl.Renderer
	scale    int32

	keys [chip8.KeyCount]bool
	quit bool

	audio     sdl.AudioDeviceID
	toneOn    atomic.Bool
	waveform  []byte
	hasDevice bool
}

// New initializes SDL and opens a window scaled by the given factor. A
// missing audio device is logged and the session continues silently.
func New(logger *log.Logger, title string, scale int, mute bool) (*Frontend, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("initializing SDL: %w", err)
	}

	f := &Frontend{
		logger: logger,
		scale:  int32(scale),
	}

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		chip8.ScreenWidth*f.scale, chip8.ScreenHeight*f.scale,
		sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	f.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		_ = window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	f.renderer = renderer

	_ = renderer.SetDrawColor(0, 0, 0, 0xFF)
	_ = renderer.Clear()
	renderer.Present()

	if !mute {
		if err := f.openAudio(); err != nil {
			logger.Warn("Audio disabled", log.Err(err))
		}
	}
	return f, nil
}

func (f *Frontend) openAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     audioFrequency,
		Format:   sdl.AUDIO_S16SYS,
		Channels: 1,
		Samples:  2048,
	}
	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}

	f.audio = device
	f.hasDevice = true
	f.waveform = squareWave(audioFrequency, toneHz, 0.25)
	sdl.PauseAudioDevice(device, true)
	return nil
}

// squareWave returns one second of signed 16 bit samples.
func squareWave(rate, frequency int, amplitude float64) []byte {
	buf := make([]byte, 2*rate)
	level := int16(amplitude * math.MaxInt16)
	for i := range rate {
		sample := level
		if math.Sin(2*math.Pi*float64(frequency)*float64(i)/float64(rate)) <= 0 {
			sample = -level
		}
		binary.NativeEndian.PutUint16(buf[2*i:], uint16(sample))
	}
	return buf
}

// Render draws every display pixel as a filled scaled rectangle.
func (f *Frontend) Render(screen chip8.Framebuffer) error {
	for y := range chip8.ScreenHeight {
		for x := range chip8.ScreenWidth {
			var shade uint8
			if screen.Lit(x, y) {
				shade = 0xFF
			}
			if err := f.renderer.SetDrawColor(shade, shade, shade, 0xFF); err != nil {
				return fmt.Errorf("setting draw color: %w", err)
			}
			rect := sdl.Rect{X: int32(x) * f.scale, Y: int32(y) * f.scale, W: f.scale, H: f.scale}
			if err := f.renderer.FillRect(&rect); err != nil {
				return fmt.Errorf("drawing pixel: %w", err)
			}
		}
	}
	f.renderer.Present()
	return nil
}

// Poll drains the SDL event queue and returns the keypad state. Escape or
// closing the window quits.
func (f *Frontend) Poll() ([chip8.KeyCount]bool, bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			f.quit = true

		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE {
				f.quit = true
				continue
			}
			key, ok := keyMap[e.Keysym.Sym]
			if !ok {
				continue
			}
			f.keys[key] = e.Type == sdl.KEYDOWN
		}
	}
	return f.keys, f.quit
}

// SetTone feeds the audio queue while the tone is on. It never waits for
// the audio thread.
func (f *Frontend) SetTone(on bool) {
	if !f.hasDevice {
		return
	}

	if f.toneOn.Swap(on) != on {
		if !on {
			sdl.ClearQueuedAudio(f.audio)
		}
		sdl.PauseAudioDevice(f.audio, !on)
	}
	if on && sdl.GetQueuedAudioSize(f.audio) < audioLowWater {
		if err := sdl.QueueAudio(f.audio, f.waveform); err != nil {
			f.logger.Warn("Queueing audio failed", log.Err(err))
		}
	}
}

// Close releases all SDL resources.
func (f *Frontend) Close() {
	if f.hasDevice {
		sdl.CloseAudioDevice(f.audio)
	}
	_ = f.renderer.Destroy()
	_ = f.window.Destroy()
	sdl.Quit()
}
