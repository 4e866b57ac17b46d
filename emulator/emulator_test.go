package emulator

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/io"
)

type testKeypad struct {
	keys  [cpu.KEY_COUNT]bool
	polls int
	err   error
}

func (tk *testKeypad) Poll(keys *[cpu.KEY_COUNT]bool) error {
	tk.polls++
	*keys = tk.keys
	return tk.err
}

type testDisplay struct {
	presents int
	last     cpu.Screen
}

func (td *testDisplay) Present(screen *cpu.Screen) error {
	td.presents++
	td.last = *screen
	return nil
}

type testBeeper struct {
	tones []bool
}

func (tb *testBeeper) Tone(on bool, frames int) error {
	for range frames {
		tb.tones = append(tb.tones, on)
	}
	return nil
}

func (tb *testBeeper) Close() error {
	return nil
}

func newTestEmulator(t *testing.T, words ...uint16) (emu *Emulator) {
	var program bytes.Buffer
	for _, word := range words {
		program.Write([]byte{byte(word >> 8), byte(word)})
	}

	emu = NewEmulator()
	emu.Logger = log.NewTestLogger(t)
	require.NoError(t, emu.Load(&program))

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(DEFAULT_SPEED, emu.Speed)
	assert.Equal(uint16(cpu.PROGRAM_START), emu.Cpu.Pc)

	// No devices attached.
	assert.NoError(emu.Load(bytes.NewReader([]byte{0x12, 0x00})))
	assert.NoError(emu.Frame())
	assert.Equal(1, emu.Frames)
}

func TestEmulator_LoadFS(t *testing.T) {
	assert := assert.New(t)

	fsys := fstest.MapFS{
		"pong.ch8": &fstest.MapFile{Data: []byte{0x60, 0x2A, 0x12, 0x02}},
	}

	emu := NewEmulator()
	assert.NoError(emu.LoadFS(fsys, "pong.ch8"))
	assert.NoError(emu.Frame())
	assert.Equal(uint8(0x2A), emu.Cpu.V[0])

	assert.ErrorIs(emu.LoadFS(fsys, "missing.ch8"), cpu.ErrSourceUnavailable)
	assert.Equal(0, emu.Frames)
}

func TestEmulator_Frame(t *testing.T) {
	assert := assert.New(t)

	words := make([]uint16, 20)
	for n := range words {
		words[n] = 0x7001 // ADD V0, 1
	}

	emu := newTestEmulator(t, words...)

	assert.NoError(emu.Frame())
	assert.Equal(uint8(DEFAULT_SPEED), emu.Cpu.V[0])
	assert.Equal(uint16(cpu.PROGRAM_START+2*DEFAULT_SPEED), emu.Cpu.Pc)

	emu.Speed = 2
	assert.NoError(emu.Frame())
	assert.Equal(uint8(DEFAULT_SPEED+2), emu.Cpu.V[0])
	assert.Equal(2, emu.Frames)
}

func TestEmulator_DrawEndsFrame(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		0x7001, // ADD V0, 1
		0xD011, // DRW V0, V1, 1
		0x7001, // ADD V0, 1
		0x7001, // ADD V0, 1
		0x1208, // JP 0x208
	)
	display := &testDisplay{}
	emu.Display = display

	assert.NoError(emu.Frame())
	assert.Equal(uint8(1), emu.Cpu.V[0])
	assert.Equal(uint16(cpu.PROGRAM_START+4), emu.Cpu.Pc)
	assert.Equal(1, display.presents)
	assert.True(display.last.Pixel(1, 0))

	assert.NoError(emu.Frame())
	assert.Equal(uint8(3), emu.Cpu.V[0])
	assert.Equal(2, display.presents)
}

func TestEmulator_Timers(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		0x6303, // LD V3, 3
		0xF315, // LD DT, V3
		0xF318, // LD ST, V3
		0x1206, // JP 0x206
	)
	beeper := &testBeeper{}
	emu.Beeper = beeper

	var delays []uint8
	for range 5 {
		assert.NoError(emu.Frame())
		delays = append(delays, emu.Cpu.DelayTimer)
	}

	assert.Equal([]uint8{2, 1, 0, 0, 0}, delays)
	assert.Equal(uint8(0), emu.Cpu.SoundTimer)
	assert.Equal([]bool{true, true, true, false, false}, beeper.tones)
}

func TestEmulator_Keypad(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		0x6505, // LD V5, 5
		0xE59E, // SKP V5
		0x6001, // LD V0, 1
		0x1206, // JP 0x206
	)
	keypad := &testKeypad{}
	keypad.keys[5] = true
	emu.Keypad = keypad

	assert.NoError(emu.Frame())
	assert.Equal(1, keypad.polls)
	assert.True(emu.Cpu.Keys[5])
	assert.Equal(uint8(0), emu.Cpu.V[0])

	keypad.err = io.ErrQuit
	assert.ErrorIs(emu.Frame(), io.ErrQuit)
	assert.Equal(1, emu.Frames)
}

func TestEmulator_RuntimeError(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		word    uint16
		err     error
		invalid bool
	}{
		{0x0000, cpu.ErrInvalidOpcode, true},
		{0x8008, cpu.ErrInvalidOpcode, true},
		{0x00EE, cpu.ErrStackUnderflow, false},
	}

	for _, entry := range table {
		emu := newTestEmulator(t, 0x6001, entry.word)

		err := emu.Frame()

		var rt *ErrRuntime
		require.True(t, errors.As(err, &rt), "%v", err)
		assert.Equal(uint16(cpu.PROGRAM_START+2), rt.Pc)
		assert.Equal(cpu.Code(entry.word), rt.Code)
		assert.ErrorIs(err, entry.err)
		assert.ErrorIs(err, cpu.ErrOpcode(0))
		assert.Equal(entry.invalid, errors.Is(err, cpu.ErrInvalidOpcode))
		assert.Contains(err.Error(), "pc 0x202")
		assert.Equal(0, emu.Frames)
	}
}

func TestEmulator_Advance(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, 0x1200) // JP 0x200
	keypad := &testKeypad{}
	display := &testDisplay{}
	emu.Keypad = keypad
	emu.Display = display

	frames, err := emu.Advance(0)
	assert.NoError(err)
	assert.Equal(0, frames)

	frames, err = emu.Advance(FRAME_TIME / 2)
	assert.NoError(err)
	assert.Equal(0, frames)

	frames, err = emu.Advance(FRAME_TIME - FRAME_TIME/2)
	assert.NoError(err)
	assert.Equal(1, frames)

	frames, err = emu.Advance(-time.Second)
	assert.NoError(err)
	assert.Equal(0, frames)

	frames, err = emu.Advance(10 * time.Second)
	assert.NoError(err)
	assert.Equal(int(MAX_FRAME_DELTA/FRAME_TIME), frames)

	assert.Equal(1+int(MAX_FRAME_DELTA/FRAME_TIME), emu.Frames)
	assert.Equal(cpu.FRAME_RATE, int(time.Second/FRAME_TIME))
	assert.Equal(5, keypad.polls)
	assert.Equal(5, display.presents)
}

func TestEmulator_Run(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, 0x1200) // JP 0x200

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := emu.Run(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)

	keypad := &testKeypad{err: io.ErrQuit}
	emu.Keypad = keypad

	err = emu.Run(context.Background())
	assert.ErrorIs(err, io.ErrQuit)
	assert.Equal(1, keypad.polls)
}

func TestEmulator_Verbose(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, 0x6001)
	emu.Verbose = true

	drew, err := emu.Tick()
	assert.NoError(err)
	assert.False(drew)
	assert.True(emu.Cpu.Verbose)
	assert.Same(emu.Logger, emu.Cpu.Logger)
}
