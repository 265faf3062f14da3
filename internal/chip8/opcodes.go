package chip8

// Opcode identifies one of the semantic operations of the instruction set.
type Opcode uint8

const (
	opcodeUnknown Opcode = iota
	opcode00E0
	opcode00EE
	opcode1NNN
	opcode2NNN
	opcode3XKK
	opcode4XKK
	opcode5XY0
	opcode6XKK
	opcode7XKK
	opcode8XY0
	opcode8XY1
	opcode8XY2
	opcode8XY3
	opcode8XY4
	opcode8XY5
	opcode8XY6
	opcode8XY7
	opcode8XYE
	opcode9XY0
	opcodeANNN
	opcodeBNNN
	opcodeCXKK
	opcodeDXYN
	opcodeEX9E
	opcodeEXA1
	opcodeFX07
	opcodeFX0A
	opcodeFX15
	opcodeFX18
	opcodeFX1E
	opcodeFX29
	opcodeFX33
	opcodeFX55
	opcodeFX65
)

var opcodeNames = [...]string{
	opcodeUnknown: "SYS",
	opcode00E0:    "CLS",
	opcode00EE:    "RET",
	opcode1NNN:    "JMP",
	opcode2NNN:    "CALL",
	opcode3XKK:    "SKIP.CMP",
	opcode4XKK:    "SKIP.NCMP",
	opcode5XY0:    "SKIP.RCMP",
	opcode6XKK:    "MVI",
	opcode7XKK:    "ADD",
	opcode8XY0:    "MOV",
	opcode8XY1:    "OR",
	opcode8XY2:    "AND",
	opcode8XY3:    "XOR",
	opcode8XY4:    "ADD",
	opcode8XY5:    "SUB",
	opcode8XY6:    "SHR",
	opcode8XY7:    "SUBN",
	opcode8XYE:    "SHL",
	opcode9XY0:    "SNE",
	opcodeANNN:    "LDI",
	opcodeBNNN:    "JMP.V",
	opcodeCXKK:    "RAND",
	opcodeDXYN:    "DRW",
	opcodeEX9E:    "SKIP.KEYX",
	opcodeEXA1:    "SKIPN.KEYX",
	opcodeFX07:    "LDX.DT",
	opcodeFX0A:    "LDX.KEY",
	opcodeFX15:    "LDDT.X",
	opcodeFX18:    "LDST.X",
	opcodeFX1E:    "ADDI.X",
	opcodeFX29:    "LDI.FX",
	opcodeFX33:    "LDB.X",
	opcodeFX55:    "LDI.ALL",
	opcodeFX65:    "LDX.ALL",
}

// Name returns the mnemonic of the opcode.
func (o Opcode) Name() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return opcodeNames[opcodeUnknown]
}

// Known reports whether the opcode is part of the instruction set.
func (o Opcode) Known() bool {
	return o != opcodeUnknown && int(o) < len(opcodeNames)
}

// Instruction is a fetched instruction word split into its operand fields.
type Instruction struct {
	Word uint16
	Op   Opcode
}

// X returns the second nibble, the Vx register index.
func (i Instruction) X() uint8 { return uint8((i.Word & 0x0F00) >> 8) }

// Y returns the third nibble, the Vy register index.
func (i Instruction) Y() uint8 { return uint8((i.Word & 0x00F0) >> 4) }

// N returns the lowest nibble.
func (i Instruction) N() uint8 { return uint8(i.Word & 0x000F) }

// KK returns the low byte immediate.
func (i Instruction) KK() uint8 { return uint8(i.Word & 0x00FF) }

// NNN returns the 12-bit address operand.
func (i Instruction) NNN() uint16 { return i.Word & 0x0FFF }

// Decode maps an instruction word to its opcode. Groups 0x0, 0xE and 0xF
// are discriminated by the low byte, group 0x8 by the lowest nibble.
func Decode(word uint16) Instruction {
	return Instruction{Word: word, Op: decode(word)}
}

func decode(word uint16) Opcode {
	switch word & 0xF000 {
	case 0x0000:
		switch word & 0x00FF {
		case 0x00E0:
			return opcode00E0
		case 0x00EE:
			return opcode00EE
		}
	case 0x1000:
		return opcode1NNN
	case 0x2000:
		return opcode2NNN
	case 0x3000:
		return opcode3XKK
	case 0x4000:
		return opcode4XKK
	case 0x5000:
		return opcode5XY0
	case 0x6000:
		return opcode6XKK
	case 0x7000:
		return opcode7XKK
	case 0x8000:
		switch word & 0x000F {
		case 0x0000:
			return opcode8XY0
		case 0x0001:
			return opcode8XY1
		case 0x0002:
			return opcode8XY2
		case 0x0003:
			return opcode8XY3
		case 0x0004:
			return opcode8XY4
		case 0x0005:
			return opcode8XY5
		case 0x0006:
			return opcode8XY6
		case 0x0007:
			return opcode8XY7
		case 0x000E:
			return opcode8XYE
		}
	case 0x9000:
		return opcode9XY0
	case 0xA000:
		return opcodeANNN
	case 0xB000:
		return opcodeBNNN
	case 0xC000:
		return opcodeCXKK
	case 0xD000:
		return opcodeDXYN
	case 0xE000:
		switch word & 0x00FF {
		case 0x009E:
			return opcodeEX9E
		case 0x00A1:
			return opcodeEXA1
		}
	case 0xF000:
		switch word & 0x00FF {
		case 0x0007:
			return opcodeFX07
		case 0x000A:
			return opcodeFX0A
		case 0x0015:
			return opcodeFX15
		case 0x0018:
			return opcodeFX18
		case 0x001E:
			return opcodeFX1E
		case 0x0029:
			return opcodeFX29
		case 0x0033:
			return opcodeFX33
		case 0x0055:
			return opcodeFX55
		case 0x0065:
			return opcodeFX65
		}
	}

	return opcodeUnknown
}
