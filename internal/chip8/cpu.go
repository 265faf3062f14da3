package chip8

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

const instructionSize = 2

var next = Advance(instructionSize)

// Fetch returns the instruction at the program counter without executing it.
func (c *Chip8) Fetch() (Instruction, error) {
	if err := checkRange(c.PC, instructionSize); err != nil {
		return Instruction{}, fmt.Errorf("fetching instruction: %w", err)
	}
	word := uint16(c.memory[c.PC])<<8 | uint16(c.memory[c.PC+1])
	return Decode(word), nil
}

// Step executes exactly one instruction and applies its outcome to the
// program counter. Unknown opcodes are logged and skipped. Any returned
// error is fatal and also sets the exit request.
func (c *Chip8) Step() (Outcome, error) {
	ins, err := c.Fetch()
	if err != nil {
		return Outcome{}, c.fail(err)
	}

	outcome, err := c.execute(ins)
	switch {
	case errors.Is(err, ErrUnknownOpcode):
		c.logger.Warn("Ignoring unknown opcode",
			log.Hex("address", c.PC),
			log.Hex("opcode", ins.Word))
		outcome = next

	case err != nil:
		return Outcome{}, c.fail(fmt.Errorf("executing %s at 0x%03X: %w", ins.Op.Name(), c.PC, err))
	}

	pc := outcome.apply(c.PC)
	if pc < RamGameStart || pc > RamEnd {
		return outcome, c.fail(fmt.Errorf("%w: 0x%04X after %s at 0x%03X", ErrRunaway, pc, ins.Op.Name(), c.PC))
	}
	c.PC = pc
	return outcome, nil
}

func (c *Chip8) fail(err error) error {
	c.exitRequested = true
	return err
}

// execute runs the semantics of a single instruction and returns its
// control flow effect without touching the program counter.
func (c *Chip8) execute(ins Instruction) (Outcome, error) {
	switch ins.Op {
	case opcode00E0:
		c.clearScreen()
	case opcode00EE:
		return c.exitSubroutine()
	case opcode1NNN:
		return SetPC(ins.NNN()), nil
	case opcode2NNN:
		return c.callSubroutine(ins)
	case opcode3XKK:
		return skipIf(c.V[ins.X()] == ins.KK()), nil
	case opcode4XKK:
		return skipIf(c.V[ins.X()] != ins.KK()), nil
	case opcode5XY0:
		return skipIf(c.V[ins.X()] == c.V[ins.Y()]), nil
	case opcode6XKK:
		c.V[ins.X()] = ins.KK()
	case opcode7XKK:
		c.V[ins.X()] += ins.KK()
	case opcode8XY0:
		c.V[ins.X()] = c.V[ins.Y()]
	case opcode8XY1:
		c.V[ins.X()] |= c.V[ins.Y()]
	case opcode8XY2:
		c.V[ins.X()] &= c.V[ins.Y()]
	case opcode8XY3:
		c.V[ins.X()] ^= c.V[ins.Y()]
	case opcode8XY4:
		c.addAssignVyToVx(ins)
	case opcode8XY5:
		c.subAssignVyToVx(ins)
	case opcode8XY6:
		c.rightShiftVx(ins)
	case opcode8XY7:
		c.setVxToVySubVx(ins)
	case opcode8XYE:
		c.leftShiftVx(ins)
	case opcode9XY0:
		return skipIf(c.V[ins.X()] != c.V[ins.Y()]), nil
	case opcodeANNN:
		c.I = ins.NNN()
	case opcodeBNNN:
		return SetPC(ins.NNN() + uint16(c.V[0])), nil
	case opcodeCXKK:
		c.V[ins.X()] = uint8(c.rng.UintN(256)) & ins.KK()
	case opcodeDXYN:
		if err := c.Draw(c.V[ins.X()], c.V[ins.Y()], ins.N()); err != nil {
			return Outcome{}, err
		}
	case opcodeEX9E:
		return skipIf(c.keys[c.V[ins.X()]&0x0F]), nil
	case opcodeEXA1:
		return skipIf(!c.keys[c.V[ins.X()]&0x0F]), nil
	case opcodeFX07:
		c.V[ins.X()] = c.DT
	case opcodeFX0A:
		return c.waitForKey(ins.X()), nil
	case opcodeFX15:
		c.DT = c.V[ins.X()]
	case opcodeFX18:
		c.ST = c.V[ins.X()]
	case opcodeFX1E:
		c.I += uint16(c.V[ins.X()])
	case opcodeFX29:
		c.I = FontBase + uint16(c.V[ins.X()])*FontStride
	case opcodeFX33:
		if err := c.storeBCDToI(ins); err != nil {
			return Outcome{}, err
		}
	case opcodeFX55:
		if err := c.regDump(ins); err != nil {
			return Outcome{}, err
		}
	case opcodeFX65:
		if err := c.regLoad(ins); err != nil {
			return Outcome{}, err
		}
	default:
		return Outcome{}, ErrUnknownOpcode
	}

	return next, nil
}

func skipIf(condition bool) Outcome {
	if condition {
		return Advance(2 * instructionSize)
	}
	return next
}

// exitSubroutine resumes after the CALL instruction whose address is on top
// of the stack.
func (c *Chip8) exitSubroutine() (Outcome, error) {
	if c.SP == 0 {
		return Outcome{}, ErrStackUnderflow
	}
	c.SP--
	return SetPC(c.stack[c.SP] + instructionSize), nil
}

// callSubroutine saves the current program counter, increments the stack
// pointer and jumps to NNN.
func (c *Chip8) callSubroutine(ins Instruction) (Outcome, error) {
	if int(c.SP) >= StackSize {
		return Outcome{}, fmt.Errorf("%w: depth %d", ErrStackOverflow, c.SP)
	}
	c.stack[c.SP] = c.PC
	c.SP++
	return SetPC(ins.NNN()), nil
}

// addAssignVyToVx sets VF on carry.
func (c *Chip8) addAssignVyToVx(ins Instruction) {
	sum := uint16(c.V[ins.X()]) + uint16(c.V[ins.Y()])
	c.V[0xF] = flag(sum > 0xFF)
	c.V[ins.X()] = uint8(sum)
}

// subAssignVyToVx sets VF when no borrow occurs.
func (c *Chip8) subAssignVyToVx(ins Instruction) {
	vx, vy := c.V[ins.X()], c.V[ins.Y()]
	c.V[0xF] = flag(vx >= vy)
	c.V[ins.X()] = vx - vy
}

func (c *Chip8) setVxToVySubVx(ins Instruction) {
	vx, vy := c.V[ins.X()], c.V[ins.Y()]
	c.V[0xF] = flag(vy >= vx)
	c.V[ins.X()] = vy - vx
}

func (c *Chip8) rightShiftVx(ins Instruction) {
	vx := c.V[ins.X()]
	c.V[0xF] = vx & 0x1
	c.V[ins.X()] = vx >> 1
}

func (c *Chip8) leftShiftVx(ins Instruction) {
	vx := c.V[ins.X()]
	c.V[0xF] = (vx >> 7) & 0x1
	c.V[ins.X()] = vx << 1
}

func (c *Chip8) storeBCDToI(ins Instruction) error {
	if err := checkRange(c.I, 3); err != nil {
		return err
	}
	val := c.V[ins.X()]
	c.memory[c.I] = val / 100
	c.memory[c.I+1] = (val / 10) % 10
	c.memory[c.I+2] = val % 10
	return nil
}

// regDump stores V0 through Vx at I. I itself is not modified.
func (c *Chip8) regDump(ins Instruction) error {
	count := int(ins.X()) + 1
	if err := checkRange(c.I, count); err != nil {
		return err
	}
	copy(c.memory[c.I:int(c.I)+count], c.V[:count])
	return nil
}

// regLoad loads V0 through Vx from I. I itself is not modified.
func (c *Chip8) regLoad(ins Instruction) error {
	count := int(ins.X()) + 1
	if err := checkRange(c.I, count); err != nil {
		return err
	}
	copy(c.V[:count], c.memory[c.I:int(c.I)+count])
	return nil
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
