// Package io provides the host devices of the CHIP-8 interpreter.
// It includes the device interfaces polled by the emulator each frame
// (Keypad, Display, Beeper), a raw-mode terminal implementing all three,
// a sine tone synthesizer, and a WAV recorder of the tone output.
package io

import (
	"errors"

	"github.com/ezrec/chip8/cpu"
)

// Keypad supplies the state of the sixteen keys once per frame.
type Keypad interface {
	// Poll updates keys with the current key state.
	// ErrQuit asks the host to stop.
	Poll(keys *[cpu.KEY_COUNT]bool) error
}

// Display presents the framebuffer once per frame.
type Display interface {
	// Present shows the framebuffer.
	Present(screen *cpu.Screen) error
}

// Beeper gates the tone output once per frame.
type Beeper interface {
	// Tone plays (or silences) the tone for a number of 60Hz frames.
	Tone(on bool, frames int) error
	// Close releases the beeper, flushing any output.
	Close() error
}

// Beepers fans one tone out to several beepers.
type Beepers []Beeper

// Tone gates every beeper, stopping at the first error.
func (bs Beepers) Tone(on bool, frames int) (err error) {
	for _, b := range bs {
		err = b.Tone(on, frames)
		if err != nil {
			return
		}
	}

	return
}

// Close closes every beeper, returning the joined errors.
func (bs Beepers) Close() (err error) {
	var errs []error
	for _, b := range bs {
		errs = append(errs, b.Close())
	}

	return errors.Join(errs...)
}

// Headless is a keypad with no keys pressed and a display that shows
// nothing, for batch runs.
type Headless struct {
	Frames int // Number of frames presented.
}

// Poll releases every key.
func (hl *Headless) Poll(keys *[cpu.KEY_COUNT]bool) error {
	clear(keys[:])
	return nil
}

// Present counts the frame.
func (hl *Headless) Present(screen *cpu.Screen) error {
	hl.Frames++
	return nil
}
