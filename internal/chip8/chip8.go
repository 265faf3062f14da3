// Package chip8 implements the CHIP-8 virtual machine core: machine state,
// the fetch-decode-execute engine, the sprite compositor, the timers and the
// keypad latch.
package chip8

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Memory map.
const (
	RamStart     uint16 = 0x000
	RamGameStart uint16 = 0x200
	RamEnd       uint16 = 0xFFF
	MemorySize          = int(RamEnd) + 1

	// FontBase is the address of the first hex digit glyph.
	FontBase uint16 = RamStart
	// FontStride is the size of a single glyph in bytes.
	FontStride = 5

	StackSize = 16
	KeyCount  = 16
)

var defaultSprites = [...]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Chip8 is the complete machine state of one emulation session. It is owned
// by a single goroutine; collaborators only get copies or narrow setters.
type Chip8 struct {
	logger *log.Logger
	rng    *rand.Rand

	// General Accessible Memory
	memory [MemorySize]byte

	// General Purpose 8-Bit Registers (V0-VF)
	V [16]uint8

	// Memory Address Store Register
	I uint16

	// Program Counter
	PC uint16

	// Stack Pointer, number of saved addresses
	SP    uint8
	stack [StackSize]uint16

	// Delay Timer Register
	DT uint8

	// Sound Timer Register
	ST uint8

	screen Framebuffer

	keys         [KeyCount]bool
	keysPrevious [KeyCount]bool

	drawRequested bool
	exitRequested bool
}

// Option configures a machine created by New.
type Option func(*Chip8)

// WithSeed makes the random number generator deterministic.
func WithSeed(seed uint64) Option {
	return func(c *Chip8) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

// New returns a machine with zeroed memory, the font glyphs loaded and the
// program counter at the program start. The random number generator is
// seeded once here and never again during the session.
func New(logger *log.Logger, options ...Option) *Chip8 {
	c := &Chip8{
		logger: logger,
		PC:     RamGameStart,
	}
	copy(c.memory[FontBase:], defaultSprites[:])

	for _, option := range options {
		option(c)
	}
	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return c
}

// LoadROM copies a program verbatim into memory at the program start.
func (c *Chip8) LoadROM(rom []byte) error {
	available := MemorySize - int(RamGameStart)
	if len(rom) > available {
		return fmt.Errorf("%w: %d bytes, %d available", ErrROMTooLarge, len(rom), available)
	}

	copy(c.memory[RamGameStart:], rom)
	c.PC = RamGameStart
	return nil
}

// LoadROMFile reads a ROM file and loads it into memory.
func (c *Chip8) LoadROMFile(romFile string) error {
	data, err := os.ReadFile(romFile)
	if err != nil {
		return fmt.Errorf("reading ROM file: %w", err)
	}
	if err := c.LoadROM(data); err != nil {
		return fmt.Errorf("loading ROM file '%s': %w", romFile, err)
	}
	return nil
}

// Memory returns a copy of the byte at the given address.
func (c *Chip8) Memory(address uint16) (byte, error) {
	if err := checkRange(address, 1); err != nil {
		return 0, err
	}
	return c.memory[address], nil
}

// Stack returns the saved return addresses, bottom first.
func (c *Chip8) Stack() []uint16 {
	stack := make([]uint16, c.SP)
	copy(stack, c.stack[:c.SP])
	return stack
}

// Framebuffer returns a copy of the display.
func (c *Chip8) Framebuffer() Framebuffer {
	return c.screen
}

// DrawRequested reports whether the framebuffer changed since the renderer
// last consumed it.
func (c *Chip8) DrawRequested() bool {
	return c.drawRequested
}

// ClearDrawRequest is called by the renderer after it consumed the framebuffer.
func (c *Chip8) ClearDrawRequest() {
	c.drawRequested = false
}

// ExitRequested reports whether the session should terminate.
func (c *Chip8) ExitRequested() bool {
	return c.exitRequested
}

// RequestExit terminates the session at the next frame boundary.
func (c *Chip8) RequestExit() {
	c.exitRequested = true
}

// checkRange verifies that length bytes starting at address are inside memory.
func checkRange(address uint16, length int) error {
	if int(address)+length > MemorySize {
		return fmt.Errorf("%w: %d bytes at 0x%04X", ErrOutOfBounds, length, address)
	}
	return nil
}
