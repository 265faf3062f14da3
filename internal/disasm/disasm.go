// Package disasm renders CHIP-8 instruction words as assembly text. It is
// used by the execution tracer and the standalone ROM lister.
package disasm

import (
	"fmt"
	"io"

	"chip8emu/internal/chip8"

	retro "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Format returns the mnemonic and operands of an instruction word.
func Format(word uint16) string {
	ins := chip8.Decode(word)
	if !ins.Op.Known() && word&0xF000 != 0 {
		return fmt.Sprintf("%-10s #$%04x", "DW", word)
	}
	name := ins.Op.Name()
	if params := operands(ins); params != "" {
		return fmt.Sprintf("%-10s %s", name, params)
	}
	return name
}

// Line formats the instruction at address as
// "address byte1 byte2 MNEMONIC operands".
func Line(address uint16, hi, lo byte) string {
	word := uint16(hi)<<8 | uint16(lo)
	return fmt.Sprintf("%04x %02x %02x %s", address, hi, lo, Format(word))
}

// Canonical returns the instruction name of the word in the common
// Cowgod assembly dialect, or an empty string if the word is not a known
// instruction.
func Canonical(word uint16) string {
	for _, op := range retro.Opcodes[int(word>>12)] {
		if op.Instruction == nil {
			continue
		}
		if op.Info.Mask&word == op.Info.Value {
			return op.Instruction.Name
		}
	}
	return ""
}

// Listing writes one line per instruction word of a ROM loaded at the
// program start and returns the number of words written. A trailing odd
// byte is listed on its own.
func Listing(w io.Writer, rom []byte) (int, error) {
	count := 0
	for offset := 0; offset < len(rom); offset += 2 {
		address := chip8.RamGameStart + uint16(offset)

		var line string
		if offset+1 < len(rom) {
			line = Line(address, rom[offset], rom[offset+1])
		} else {
			line = fmt.Sprintf("%04x %02x    %s", address, rom[offset], "DB")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return count, fmt.Errorf("writing listing: %w", err)
		}
		count++
	}
	return count, nil
}

func operands(ins chip8.Instruction) string {
	x, y := ins.X(), ins.Y()

	switch ins.Word & 0xF000 {
	case 0x0000:
		if ins.Op.Known() {
			return ""
		}
		return fmt.Sprintf("$%03x", ins.NNN())
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03x", ins.NNN())
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xC000:
		return fmt.Sprintf("V%X, #$%02x", x, ins.KK())
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0x8000:
		params := fmt.Sprintf("V%X, V%X", x, y)
		switch ins.Word & 0x000F {
		case 0x4, 0x5, 0x6, 0x7, 0xE:
			params += " (VF)"
		}
		return params
	case 0xA000:
		return fmt.Sprintf("I, #$%03x", ins.NNN())
	case 0xB000:
		return fmt.Sprintf("$%03x + V0", ins.NNN())
	case 0xD000:
		return fmt.Sprintf("V%X, V%X, %d", x, y, ins.N())
	case 0xE000:
		return fmt.Sprintf("V%X", x)
	case 0xF000:
		return fOperands(ins)
	}
	return ""
}

func fOperands(ins chip8.Instruction) string {
	x := ins.X()
	switch ins.KK() {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, KEY", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", x)
	case 0x29:
		return fmt.Sprintf("I, sprite V%X", x)
	case 0x33:
		return fmt.Sprintf("I, BCD V%X", x)
	case 0x55:
		return fmt.Sprintf("I, V0-V%X", x)
	case 0x65:
		return fmt.Sprintf("V0-V%X, I", x)
	}
	return ""
}
