// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/pkg/term"

	"github.com/ezrec/chip8/cpu"
)

const (
	DEFAULT_HOLD_FRAMES = 6 // Frames a key stays held after a press.
	KEY_ESCAPE          = 0x1B
	KEY_INTERRUPT       = 0x03 // Ctrl-C, delivered as a byte in raw mode.
	KEY_BUFFER          = 64   // Pending keypresses.
	TERMINAL_POLL       = 100 * time.Millisecond
)

const (
	ansiHome       = "\x1b[H"
	ansiClear      = "\x1b[2J"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
	ansiReset      = "\x1b[0m"
	bell           = "\a"
)

// Terminal is a Keypad, Display and Beeper on a character terminal.
// Since a terminal reports only key presses, a key stays held for
// HoldFrames polls after its last press.
type Terminal struct {
	Keymap     Keymap // Host keys for the keys 0 to F.
	HoldFrames int    // Polls a key stays held after a press.

	input  io.Reader
	output io.Writer
	tty    *term.Term

	presses chan byte
	done    chan struct{}
	held    [cpu.KEY_COUNT]int
	quit    bool

	shown   cpu.Screen
	drawn   bool
	toneOn  bool
	scratch bytes.Buffer
}

// NewTerminal creates a terminal reading keys from input and drawing on
// output. A goroutine reads input until it fails or Close is called.
// If input is an io.Closer, Close closes it to end a blocked read;
// otherwise the goroutine ends only when its read returns.
func NewTerminal(input io.Reader, output io.Writer, keymap Keymap, holdFrames int) (tm *Terminal) {
	return newTerminal(input, output, nil, keymap, holdFrames)
}

func newTerminal(input io.Reader, output io.Writer, tty *term.Term, keymap Keymap, holdFrames int) (tm *Terminal) {
	if holdFrames <= 0 {
		holdFrames = DEFAULT_HOLD_FRAMES
	}

	tm = &Terminal{
		Keymap:     keymap,
		HoldFrames: holdFrames,
		input:      input,
		output:     output,
		tty:        tty,
		presses:    make(chan byte, KEY_BUFFER),
		done:       make(chan struct{}),
	}

	go tm.readKeys()

	return
}

// OpenTerminal opens a tty (usually /dev/tty) in raw mode.
func OpenTerminal(name string, keymap Keymap, holdFrames int) (tm *Terminal, err error) {
	tty, err := term.Open(name, term.RawMode, term.ReadTimeout(TERMINAL_POLL))
	if err != nil {
		return
	}

	_, err = tty.Write([]byte(ansiClear + ansiHideCursor))
	if err != nil {
		err = errors.Join(err, tty.Restore(), tty.Close())
		return
	}

	tm = newTerminal(tty, tty, tty, keymap, holdFrames)

	return
}

// readKeys forwards input bytes to the presses channel. A tty read timing
// out is reported as io.EOF, and is retried.
func (tm *Terminal) readKeys() {
	defer close(tm.presses)

	var buf [16]byte
	for {
		n, err := tm.input.Read(buf[:])
		for _, ch := range buf[:n] {
			select {
			case tm.presses <- ch:
			case <-tm.done:
				return
			default:
				// Drop keys the emulator is not keeping up with.
			}
		}

		select {
		case <-tm.done:
			return
		default:
		}

		if errors.Is(err, io.EOF) && tm.tty != nil {
			continue
		}
		if err != nil {
			return
		}
	}
}

// press handles a single input byte.
func (tm *Terminal) press(ch byte) {
	switch ch {
	case KEY_ESCAPE, KEY_INTERRUPT:
		tm.quit = true
		return
	}

	key, ok := tm.Keymap.Lookup(ch)
	if ok {
		tm.held[key] = tm.HoldFrames
	}
}

// Poll drains pending key presses without blocking and reports which keys
// are held.
func (tm *Terminal) Poll(keys *[cpu.KEY_COUNT]bool) (err error) {
	for drained := false; !drained; {
		select {
		case ch, ok := <-tm.presses:
			if !ok {
				drained = true
				break
			}
			tm.press(ch)
		default:
			drained = true
		}
	}

	if tm.quit {
		err = ErrQuit
		return
	}

	for key := range keys {
		keys[key] = tm.held[key] > 0
		if tm.held[key] > 0 {
			tm.held[key]--
		}
	}

	return
}

// Present draws the screen with half-block characters, two pixel rows per
// text row. Nothing is written when the screen is unchanged.
func (tm *Terminal) Present(screen *cpu.Screen) (err error) {
	if tm.drawn && tm.shown == *screen {
		return
	}

	tm.scratch.Reset()
	tm.scratch.WriteString(ansiHome)
	Render(&tm.scratch, screen)
	tm.scratch.WriteString(ansiReset)

	_, err = tm.output.Write(tm.scratch.Bytes())
	if err != nil {
		return
	}

	tm.shown = *screen
	tm.drawn = true

	return
}

// Render writes the screen as half-block text rows ending in CR LF.
func Render(out *bytes.Buffer, screen *cpu.Screen) {
	var top []uint32
	for y, row := range screen.Rows() {
		if y%2 == 0 {
			top = row
			continue
		}
		for x, pixel := range row {
			hi := top[x] != cpu.PIXEL_OFF
			lo := pixel != cpu.PIXEL_OFF
			switch {
			case hi && lo:
				out.WriteString("█")
			case hi:
				out.WriteString("▀")
			case lo:
				out.WriteString("▄")
			default:
				out.WriteByte(' ')
			}
		}
		out.WriteString("\r\n")
	}
}

// Tone rings the terminal bell when the tone starts.
func (tm *Terminal) Tone(on bool, frames int) (err error) {
	if on && !tm.toneOn {
		_, err = io.WriteString(tm.output, bell)
	}
	tm.toneOn = on

	return
}

// Close stops the key reader and restores the tty.
func (tm *Terminal) Close() (err error) {
	select {
	case <-tm.done:
		return
	default:
		close(tm.done)
	}

	if tm.tty == nil {
		if closer, ok := tm.input.(io.Closer); ok {
			err = closer.Close()
		}
		return
	}

	_, err = tm.tty.Write([]byte(ansiShowCursor + "\r\n"))
	err = errors.Join(err, tm.tty.Restore(), tm.tty.Close())

	return
}

var (
	_ Keypad  = (*Terminal)(nil)
	_ Display = (*Terminal)(nil)
	_ Beeper  = (*Terminal)(nil)
	_ Beeper  = (*WavRecorder)(nil)
	_ Beeper  = Beepers(nil)
)
