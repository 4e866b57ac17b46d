package config

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrSpeed      = translate.Error("speed must be at least 1")
	ErrHoldFrames = translate.Error("hold_frames must be at least 1")
)

// ErrConfigType indicates a setting of the wrong type.
type ErrConfigType string

func (err ErrConfigType) Error() string {
	return f("config %v: wrong type", string(err))
}

// ErrConfigUnknown indicates an unrecognized setting.
type ErrConfigUnknown string

func (err ErrConfigUnknown) Error() string {
	return f("config %v: unknown setting", string(err))
}
