// Package audio plays the sound timer tone through the system speaker.
package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneHz     = 440
)

// Beeper gates a square wave tone. The speaker mixes on its own goroutine,
// the pause flag is only changed while holding the speaker lock.
type Beeper struct {
	ctrl *beep.Ctrl
	on   bool

	lock   func()
	unlock func()
	close  func()
}

// NewBeeper initializes the speaker and starts a paused tone.
func NewBeeper() (*Beeper, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/30)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	tone, err := generators.SquareTone(sampleRate, toneHz)
	if err != nil {
		speaker.Close()
		return nil, fmt.Errorf("creating tone: %w", err)
	}

	b := newBeeper(&effects.Volume{
		Streamer: tone,
		Base:     2,
		Volume:   -3,
	})
	b.lock = speaker.Lock
	b.unlock = speaker.Unlock
	b.close = func() {
		speaker.Clear()
		speaker.Close()
	}

	speaker.Play(b.ctrl)
	return b, nil
}

func newBeeper(streamer beep.Streamer) *Beeper {
	return &Beeper{
		ctrl:   &beep.Ctrl{Streamer: streamer, Paused: true},
		lock:   func() {},
		unlock: func() {},
		close:  func() {},
	}
}

// SetTone starts or stops the tone. Repeated calls with the same state do
// not touch the speaker.
func (b *Beeper) SetTone(on bool) {
	if b.on == on {
		return
	}
	b.on = on

	b.lock()
	b.ctrl.Paused = !on
	b.unlock()
}

// Close stops playback and releases the audio device.
func (b *Beeper) Close() {
	b.SetTone(false)
	b.close()
}

// Silent discards the tone.
type Silent struct{}

// SetTone does nothing.
func (Silent) SetTone(bool) {}

// Close does nothing.
func (Silent) Close() {}
