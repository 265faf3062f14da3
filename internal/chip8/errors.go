package chip8

import "errors"

var (
	// ErrRunaway is returned when the program counter leaves the program area.
	ErrRunaway = errors.New("program counter out of range")
	// ErrStackOverflow is returned by CALL with a full call stack.
	ErrStackOverflow = errors.New("call stack overflow")
	// ErrStackUnderflow is returned by RET with an empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")
	// ErrOutOfBounds is returned by memory accesses past the end of memory.
	ErrOutOfBounds = errors.New("memory access out of bounds")
	// ErrROMTooLarge is returned when a ROM does not fit into program memory.
	ErrROMTooLarge = errors.New("ROM too large")
	// ErrUnknownOpcode is returned for words outside the instruction set.
	ErrUnknownOpcode = errors.New("unknown opcode")
)
