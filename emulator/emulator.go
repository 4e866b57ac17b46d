// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator schedules a CHIP-8 CPU against wall-clock time and the
// host devices.
package emulator

import (
	"context"
	goio "io"
	"io/fs"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/io"
)

const (
	DEFAULT_SPEED   = 9 // Instructions per frame.
	FRAME_TIME      = time.Second / cpu.FRAME_RATE
	MAX_FRAME_DELTA = 250 * time.Millisecond // Longest stretch of time caught up at once.
)

// Emulator state. CPU + host devices.
type Emulator struct {
	Verbose bool        // If set, enables verbose logging.
	Logger  *log.Logger // Destination of verbose logging.
	Cpu     *cpu.Cpu    // Reference to the CPU simulation.
	Speed   int         // Instructions per frame.

	Keypad  io.Keypad  // Key state source, may be nil.
	Display io.Display // Framebuffer sink, may be nil.
	Beeper  io.Beeper  // Tone sink, may be nil.

	Frames int // Frames run since the last reset.

	pending time.Duration
}

// NewEmulator creates a new emulator.
func NewEmulator(options ...cpu.Option) (emu *Emulator) {
	emu = &Emulator{
		Cpu:   cpu.NewCpu(options...),
		Speed: DEFAULT_SPEED,
	}

	emu.Logger = emu.Cpu.Logger

	return
}

// Reset the CPU and the frame clock.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Logger = emu.Logger
	emu.Cpu.Reset()

	emu.Frames = 0
	emu.pending = 0
}

// Load resets the emulator and loads a program.
func (emu *Emulator) Load(source goio.Reader) (err error) {
	emu.Reset()
	return emu.Cpu.Load(source)
}

// LoadFile resets the emulator and loads a program file.
func (emu *Emulator) LoadFile(path string) (err error) {
	emu.Reset()
	return emu.Cpu.LoadFile(path)
}

// LoadFS resets the emulator and loads a program from a file system.
func (emu *Emulator) LoadFS(fsys fs.FS, name string) (err error) {
	emu.Reset()
	return emu.Cpu.LoadFS(fsys, name)
}

// Tick performs a single instruction, returning true if it was a draw.
func (emu *Emulator) Tick() (drew bool, err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Logger = emu.Logger

	pc := emu.Cpu.Pc
	code, err := emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{Pc: pc, Code: code, Err: err}
		return
	}

	drew = code.Family() == cpu.FAMILY_DRW

	return
}

// run performs one frame of instructions and timer updates. A draw ends the
// frame early.
func (emu *Emulator) run() (err error) {
	for range emu.Speed {
		var drew bool
		drew, err = emu.Tick()
		if err != nil {
			return
		}
		if drew {
			break
		}
	}

	tone := emu.Cpu.Tone()

	if emu.Cpu.DelayTimer > 0 {
		emu.Cpu.DelayTimer--
	}
	if emu.Cpu.SoundTimer > 0 {
		emu.Cpu.SoundTimer--
	}

	if emu.Beeper != nil {
		err = emu.Beeper.Tone(tone, 1)
		if err != nil {
			return
		}
	}

	emu.Frames++

	return
}

// poll reads the keypad into the CPU key latches.
func (emu *Emulator) poll() (err error) {
	if emu.Keypad == nil {
		return
	}

	return emu.Keypad.Poll(&emu.Cpu.Keys)
}

// present shows the framebuffer.
func (emu *Emulator) present() (err error) {
	if emu.Display == nil {
		return
	}

	return emu.Display.Present(&emu.Cpu.Screen)
}

// Frame polls the keys, runs one frame, and presents the framebuffer.
func (emu *Emulator) Frame() (err error) {
	err = emu.poll()
	if err != nil {
		return
	}

	err = emu.run()
	if err != nil {
		return
	}

	return emu.present()
}

// Advance runs as many whole frames as fit into the time elapsed, carrying
// the remainder to the next call. The elapsed time is clamped to
// MAX_FRAME_DELTA. Keys are polled once before, and the framebuffer presented
// once after, the frames.
func (emu *Emulator) Advance(dt time.Duration) (frames int, err error) {
	dt = max(0, min(dt, MAX_FRAME_DELTA))
	emu.pending += dt

	err = emu.poll()
	if err != nil {
		return
	}

	for emu.pending >= FRAME_TIME {
		err = emu.run()
		if err != nil {
			return
		}
		emu.pending -= FRAME_TIME
		frames++
	}

	err = emu.present()

	return
}

// Run advances the emulator from a cpu.FRAME_RATE ticker until the context is
// done or a device or the program fails.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	ticker := time.NewTicker(FRAME_TIME)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			_, err = emu.Advance(now.Sub(last))
			if err != nil {
				return
			}
			last = now
		}
	}
}
