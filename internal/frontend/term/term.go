// Package term implements a terminal frontend based on tcell. Two display
// rows share one character cell using the upper half block glyph.
package term

import (
	"fmt"
	"sync"

	"chip8emu/internal/chip8"

	"github.com/gdamore/tcell/v2"
	"github.com/retroenv/retrogolib/log"
)

const upperHalfBlock = '▀'

var keyMap = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

var (
	styleOn  = tcell.ColorWhite
	styleOff = tcell.ColorBlack
)

// Terminal renders into a tcell screen. Terminals report key presses but
// no releases, so every press keeps the key down for a number of frames.
type Terminal struct {
	logger *log.Logger
	screen tcell.Screen
	hold   int

	mu    sync.Mutex
	holds [chip8.KeyCount]int
	quit  bool

	done chan struct{}
}

// New opens the terminal screen.
func New(logger *log.Logger, holdFrames int) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return NewWithScreen(logger, screen, holdFrames)
}

// NewWithScreen initializes the given screen and starts the event poller.
func NewWithScreen(logger *log.Logger, screen tcell.Screen, holdFrames int) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	t := &Terminal{
		logger: logger,
		screen: screen,
		hold:   holdFrames,
		done:   make(chan struct{}),
	}
	go t.pollEvents()
	return t, nil
}

func (t *Terminal) pollEvents() {
	defer close(t.done)

	for {
		event := t.screen.PollEvent()
		switch ev := event.(type) {
		case nil:
			return

		case *tcell.EventResize:
			t.screen.Sync()

		case *tcell.EventKey:
			t.handleKey(ev)
		}
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.logger.Debug("Quit key pressed")
		t.quit = true
	case tcell.KeyRune:
		if key, ok := keyMap[ev.Rune()]; ok {
			t.holds[key] = t.hold
		}
	}
}

// Render draws the framebuffer. Cells outside the terminal are clipped.
func (t *Terminal) Render(screen chip8.Framebuffer) error {
	for row := 0; row < chip8.ScreenHeight; row += 2 {
		for x := range chip8.ScreenWidth {
			style := tcell.StyleDefault.
				Foreground(color(screen.Lit(x, row))).
				Background(color(screen.Lit(x, row+1)))
			t.screen.SetContent(x, row/2, upperHalfBlock, nil, style)
		}
	}
	t.screen.Show()
	return nil
}

func color(lit bool) tcell.Color {
	if lit {
		return styleOn
	}
	return styleOff
}

// Poll returns the keys pressed within the hold window and counts the
// window down by one frame.
func (t *Terminal) Poll() ([chip8.KeyCount]bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var keys [chip8.KeyCount]bool
	for i, frames := range t.holds {
		if frames > 0 {
			keys[i] = true
			t.holds[i] = frames - 1
		}
	}
	return keys, t.quit
}

// Close restores the terminal and waits for the event poller to finish.
func (t *Terminal) Close() {
	t.screen.Fini()
	<-t.done
}
