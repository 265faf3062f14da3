package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestChip8(t *testing.T, program ...byte) *Chip8 {
	t.Helper()
	c := New(log.NewTestLogger(t), WithSeed(1))
	assert.NoError(t, c.LoadROM(program))
	return c
}

// runInstruction places a single instruction at the program counter and
// executes it.
func runInstruction(t *testing.T, c *Chip8, word uint16) Outcome {
	t.Helper()
	c.memory[c.PC] = byte(word >> 8)
	c.memory[c.PC+1] = byte(word)
	outcome, err := c.Step()
	assert.NoError(t, err)
	return outcome
}

func TestNew(t *testing.T) {
	c := New(log.NewTestLogger(t))

	assert.Equal(t, RamGameStart, c.PC)
	assert.Equal(t, uint8(0), c.SP)
	for i, b := range defaultSprites {
		assert.Equal(t, b, c.memory[int(FontBase)+i])
	}
	assert.False(t, c.ExitRequested())
	assert.False(t, c.DrawRequested())
}

func TestLoadROM(t *testing.T) {
	c := New(log.NewTestLogger(t))

	rom := make([]byte, MemorySize-int(RamGameStart))
	rom[len(rom)-1] = 0xAB
	assert.NoError(t, c.LoadROM(rom))
	assert.Equal(t, byte(0xAB), c.memory[RamEnd])

	err := c.LoadROM(append(rom, 0))
	assert.True(t, errors.Is(err, ErrROMTooLarge))
}

func TestLoadROMFileMissing(t *testing.T) {
	c := New(log.NewTestLogger(t))
	err := c.LoadROMFile(t.TempDir() + "/missing.ch8")
	assert.Error(t, err)
}

func TestAddFlagged(t *testing.T) {
	c := newTestChip8(t)
	for a := range 256 {
		for b := range 256 {
			c.PC = RamGameStart
			c.V[0x1] = uint8(a)
			c.V[0x2] = uint8(b)
			runInstruction(t, c, 0x8124)

			assert.Equal(t, uint8((a+b)%256), c.V[0x1])
			assert.Equal(t, flag(a+b > 255), c.V[0xF])
		}
	}
}

func TestSub(t *testing.T) {
	c := newTestChip8(t)
	for a := range 256 {
		for b := range 256 {
			c.PC = RamGameStart
			c.V[0x3] = uint8(a)
			c.V[0x4] = uint8(b)
			runInstruction(t, c, 0x8345)

			assert.Equal(t, uint8((a-b+256)%256), c.V[0x3])
			assert.Equal(t, flag(a >= b), c.V[0xF])
		}
	}
}

func TestSubN(t *testing.T) {
	c := newTestChip8(t)
	for a := range 256 {
		for b := range 256 {
			c.PC = RamGameStart
			c.V[0x3] = uint8(a)
			c.V[0x4] = uint8(b)
			runInstruction(t, c, 0x8347)

			assert.Equal(t, uint8((b-a+256)%256), c.V[0x3])
			assert.Equal(t, flag(b >= a), c.V[0xF])
		}
	}
}

func TestShifts(t *testing.T) {
	c := newTestChip8(t)
	for v := range 256 {
		c.PC = RamGameStart
		c.V[0x5] = uint8(v)
		runInstruction(t, c, 0x8506)
		assert.Equal(t, uint8(v)>>1, c.V[0x5])
		assert.Equal(t, uint8(v)&1, c.V[0xF])

		c.PC = RamGameStart
		c.V[0x5] = uint8(v)
		runInstruction(t, c, 0x850E)
		assert.Equal(t, uint8(v)<<1, c.V[0x5])
		assert.Equal(t, uint8(v)>>7, c.V[0xF])
	}
}

func TestFlagRegisterAsOperand(t *testing.T) {
	c := newTestChip8(t)
	c.V[0xF] = 0xFF
	c.V[0x1] = 0x02
	runInstruction(t, c, 0x8F14)

	// the result is written after the carry flag
	assert.Equal(t, uint8(0x01), c.V[0xF])
}

func TestRegisterOperations(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		vx, vy   uint8
		expected uint8
	}{
		{"MVI", 0x61AB, 0x00, 0x00, 0xAB},
		{"ADD immediate wraps", 0x71FF, 0x02, 0x00, 0x01},
		{"MOV", 0x8120, 0x11, 0x22, 0x22},
		{"OR", 0x8121, 0xF0, 0x0F, 0xFF},
		{"AND", 0x8122, 0xF3, 0x3F, 0x33},
		{"XOR", 0x8123, 0xFF, 0x0F, 0xF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t)
			c.V[0x1] = tt.vx
			c.V[0x2] = tt.vy
			c.V[0xF] = 0x77
			outcome := runInstruction(t, c, tt.word)

			assert.Equal(t, tt.expected, c.V[0x1])
			assert.Equal(t, uint8(0x77), c.V[0xF])
			assert.Equal(t, Advance(2), outcome)
			assert.Equal(t, RamGameStart+2, c.PC)
		})
	}
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name    string
		word    uint16
		vx, vy  uint8
		skipped bool
	}{
		{"SKIP.CMP equal", 0x3142, 0x42, 0, true},
		{"SKIP.CMP different", 0x3142, 0x41, 0, false},
		{"SKIP.NCMP equal", 0x4142, 0x42, 0, false},
		{"SKIP.NCMP different", 0x4142, 0x41, 0, true},
		{"SKIP.RCMP equal", 0x5120, 0x10, 0x10, true},
		{"SKIP.RCMP different", 0x5120, 0x10, 0x11, false},
		{"SNE equal", 0x9120, 0x10, 0x10, false},
		{"SNE different", 0x9120, 0x10, 0x11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t)
			c.V[0x1] = tt.vx
			c.V[0x2] = tt.vy
			runInstruction(t, c, tt.word)

			expected := RamGameStart + 2
			if tt.skipped {
				expected += 2
			}
			assert.Equal(t, expected, c.PC)
		})
	}
}

func TestJumps(t *testing.T) {
	c := newTestChip8(t)
	outcome := runInstruction(t, c, 0x1345)
	assert.True(t, outcome.IsJump())
	assert.Equal(t, uint16(0x345), c.PC)

	c.V[0x0] = 0x10
	runInstruction(t, c, 0xB400)
	assert.Equal(t, uint16(0x410), c.PC)
}

func TestCallReturn(t *testing.T) {
	c := newTestChip8(t)
	c.PC = 0x300
	runInstruction(t, c, 0x2500)
	assert.Equal(t, uint16(0x500), c.PC)
	stack := c.Stack()
	assert.Len(t, stack, 1)
	assert.Equal(t, uint16(0x300), stack[0])

	runInstruction(t, c, 0x00EE)
	assert.Equal(t, uint16(0x302), c.PC)
	assert.Equal(t, uint8(0), c.SP)
}

func TestStackOverflow(t *testing.T) {
	c := newTestChip8(t)
	for range StackSize {
		c.PC = 0x300
		runInstruction(t, c, 0x2300)
	}

	c.memory[0x300] = 0x23
	c.memory[0x301] = 0x00
	_, err := c.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.True(t, c.ExitRequested())
	assert.Equal(t, uint8(StackSize), c.SP)
}

func TestStackUnderflow(t *testing.T) {
	c := newTestChip8(t, 0x00, 0xEE)
	_, err := c.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.True(t, c.ExitRequested())
	assert.Equal(t, RamGameStart, c.PC)
}

func TestRunaway(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		v0      uint8
	}{
		{"jump below program area", []byte{0x11, 0x00}, 0},
		{"jump with offset past memory", []byte{0xBF, 0xFF}, 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t, tt.program...)
			c.V[0x0] = tt.v0
			_, err := c.Step()
			assert.True(t, errors.Is(err, ErrRunaway))
			assert.True(t, c.ExitRequested())
		})
	}
}

func TestFetchPastMemory(t *testing.T) {
	c := newTestChip8(t)
	c.PC = RamEnd
	_, err := c.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.True(t, c.ExitRequested())
}

func TestUnknownOpcode(t *testing.T) {
	c := newTestChip8(t, 0x01, 0x23, 0xE1, 0x00, 0xF1, 0xFF, 0x81, 0x2A)
	for range 4 {
		outcome, err := c.Step()
		assert.NoError(t, err)
		assert.Equal(t, Advance(2), outcome)
	}
	assert.Equal(t, RamGameStart+8, c.PC)
	assert.False(t, c.ExitRequested())
}

func TestIndexOperations(t *testing.T) {
	c := newTestChip8(t)
	runInstruction(t, c, 0xA123)
	assert.Equal(t, uint16(0x123), c.I)

	c.V[0x2] = 0x10
	runInstruction(t, c, 0xF21E)
	assert.Equal(t, uint16(0x133), c.I)

	c.V[0x3] = 0xA
	runInstruction(t, c, 0xF329)
	assert.Equal(t, FontBase+0xA*FontStride, c.I)
	assert.Equal(t, byte(0xF0), c.memory[c.I])
}

func TestStoreBCD(t *testing.T) {
	c := newTestChip8(t)
	c.I = 0x400
	c.V[0x7] = 157
	runInstruction(t, c, 0xF733)

	assert.Equal(t, byte(1), c.memory[0x400])
	assert.Equal(t, byte(5), c.memory[0x401])
	assert.Equal(t, byte(7), c.memory[0x402])
}

func TestRegisterDumpAndLoad(t *testing.T) {
	c := newTestChip8(t)
	c.I = 0x400
	for i := range c.V {
		c.V[i] = uint8(i + 1)
	}
	runInstruction(t, c, 0xF355)
	assert.Equal(t, [5]byte{1, 2, 3, 4, 0}, [5]byte(c.memory[0x400:0x405]))
	assert.Equal(t, uint16(0x400), c.I)

	c.V = [16]uint8{}
	runInstruction(t, c, 0xF265)
	assert.Equal(t, uint8(1), c.V[0])
	assert.Equal(t, uint8(3), c.V[2])
	assert.Equal(t, uint8(0), c.V[3])
}

func TestMemoryBounds(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		i    uint16
	}{
		{"LDB.X", 0xF033, 0xFFE},
		{"LDI.ALL", 0xF355, 0xFFD},
		{"LDX.ALL", 0xF365, 0xFFD},
		{"DRW", 0xD002, 0xFFF},
		{"index register beyond memory", 0xF065, 0x1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t)
			c.I = tt.i
			c.memory[c.PC] = byte(tt.word >> 8)
			c.memory[c.PC+1] = byte(tt.word)
			_, err := c.Step()
			assert.True(t, errors.Is(err, ErrOutOfBounds))
			assert.True(t, c.ExitRequested())
			assert.Equal(t, RamGameStart, c.PC)
		})
	}
}

func TestRandomMask(t *testing.T) {
	c := newTestChip8(t)
	for range 100 {
		c.PC = RamGameStart
		c.V[0x4] = 0xFF
		runInstruction(t, c, 0xC400)
		assert.Equal(t, uint8(0), c.V[0x4])

		c.PC = RamGameStart
		runInstruction(t, c, 0xC40F)
		assert.Equal(t, uint8(0), c.V[0x4]&0xF0)
	}
}

func TestRandomSeeded(t *testing.T) {
	a := newTestChip8(t)
	b := newTestChip8(t)
	for range 10 {
		a.PC, b.PC = RamGameStart, RamGameStart
		runInstruction(t, a, 0xC0FF)
		runInstruction(t, b, 0xC0FF)
		assert.Equal(t, a.V[0], b.V[0])
	}
}

func TestTimerRegisters(t *testing.T) {
	c := newTestChip8(t)
	c.V[0x1] = 0x20
	runInstruction(t, c, 0xF115)
	runInstruction(t, c, 0xF118)
	assert.Equal(t, uint8(0x20), c.DT)
	assert.Equal(t, uint8(0x20), c.ST)

	c.TickTimers()
	runInstruction(t, c, 0xF207)
	assert.Equal(t, uint8(0x1F), c.V[0x2])
}

func TestEndToEnd(t *testing.T) {
	c := newTestChip8(t, 0x60, 0x05, 0x61, 0x03, 0x80, 0x14)
	for range 3 {
		_, err := c.Step()
		assert.NoError(t, err)
	}

	assert.Equal(t, uint8(8), c.V[0x0])
	assert.Equal(t, uint8(0), c.V[0xF])
	assert.Equal(t, uint16(0x206), c.PC)
}
