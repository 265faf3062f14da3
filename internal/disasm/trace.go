package disasm

import (
	"github.com/retroenv/retrogolib/log"
)

// Tracer returns a step observer that logs every executed instruction at
// debug level.
func Tracer(logger *log.Logger) func(pc, word uint16) {
	return func(pc, word uint16) {
		logger.Debug("Executing",
			log.Hex("pc", pc),
			log.Hex("opcode", word),
			log.String("instruction", Format(word)),
			log.String("canonical", Canonical(word)))
	}
}
