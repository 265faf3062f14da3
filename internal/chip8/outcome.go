package chip8

import "fmt"

type outcomeKind uint8

const (
	outcomeAdvance outcomeKind = iota
	outcomeSetPC
)

// Outcome is the control flow effect of one executed instruction: either the
// program counter advances by a fixed amount or it is set to an address.
// Exactly one of the two is applied per step.
type Outcome struct {
	kind  outcomeKind
	value uint16
}

// Advance returns an outcome that moves the program counter forward by n
// bytes. Advance(0) keeps the instruction for the next step.
func Advance(n uint16) Outcome {
	return Outcome{kind: outcomeAdvance, value: n}
}

// SetPC returns an outcome that sets the program counter to address.
func SetPC(address uint16) Outcome {
	return Outcome{kind: outcomeSetPC, value: address}
}

// IsJump reports whether the outcome sets the program counter explicitly.
func (o Outcome) IsJump() bool {
	return o.kind == outcomeSetPC
}

// Value returns the advance distance or the jump target.
func (o Outcome) Value() uint16 {
	return o.value
}

// apply returns the program counter following pc.
func (o Outcome) apply(pc uint16) uint16 {
	if o.kind == outcomeSetPC {
		return o.value
	}
	return pc + o.value
}

func (o Outcome) String() string {
	if o.kind == outcomeSetPC {
		return fmt.Sprintf("SetPC(0x%03X)", o.value)
	}
	return fmt.Sprintf("Advance(%d)", o.value)
}
