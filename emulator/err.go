package emulator

import (
	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc   uint16   // Address of the failing instruction.
	Code cpu.Code // The failing instruction.
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("pc 0x%03X %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
