package cpu

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Load errors
	ErrProgramTooLarge   = translate.Error("program too large")
	ErrSourceUnavailable = translate.Error("program source unavailable")

	// Execution errors
	ErrInvalidOpcode  = translate.Error("invalid opcode")
	ErrStackOverflow  = translate.Error("stack overflow")
	ErrStackUnderflow = translate.Error("stack underflow")
)

// ErrOpcode reports the instruction word that failed to execute.
// Execute joins it with the cause (ErrInvalidOpcode, ErrStackOverflow, ...).
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04X", uint16(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}
