// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"

	"github.com/retroenv/retrogolib/log"
)

const (
	MEMORY_SIZE    = 4096                        // Addressable bytes.
	MEMORY_MASK    = MEMORY_SIZE - 1             // Address bus mask.
	PROGRAM_START  = 0x200                       // Load address of programs.
	PROGRAM_LIMIT  = MEMORY_SIZE - PROGRAM_START // Largest loadable program.
	REGISTER_COUNT = 16                          // V0 to VF.
	REG_FLAG       = 0xF                         // VF, the flag register.
	KEY_COUNT      = 16                          // Keypad keys 0 to F.
	FRAME_RATE     = 60                          // Timer decrements per second.
)

// Random is the byte source for the RND instruction.
// *math/rand/v2.Rand satisfies it.
type Random interface {
	Uint32() uint32
}

// lastKey tracks the press-then-release edge for the key wait instruction.
type lastKey struct {
	key     uint8
	pressed bool
}

// Cpu is the complete state of a CHIP-8 virtual machine.
type Cpu struct {
	Verbose bool        // Set to enable per-instruction trace logging.
	Logger  *log.Logger // Destination of trace logging.
	Rand    Random      // Byte source for the RND instruction.

	Memory     [MEMORY_SIZE]byte    // Glyphs at FONT_START, program at PROGRAM_START.
	V          [REGISTER_COUNT]byte // General purpose registers, VF is the flag.
	I          uint16               // Index register.
	Pc         uint16               // Program counter.
	Stack      Stack                // Subroutine return stack.
	DelayTimer uint8                // Delay timer, decremented by the host at 60Hz.
	SoundTimer uint8                // Sound timer, decremented by the host at 60Hz.
	Keys       [KEY_COUNT]bool      // Key latches, written by the host.
	Screen     Screen               // Framebuffer.

	lastKey lastKey
}

// Option configures a new Cpu.
type Option func(cpu *Cpu)

// WithRandom replaces the default random byte source.
func WithRandom(rnd Random) Option {
	return func(cpu *Cpu) {
		cpu.Rand = rnd
	}
}

// WithLogger sets the trace logger.
func WithLogger(logger *log.Logger) Option {
	return func(cpu *Cpu) {
		cpu.Logger = logger
	}
}

// NewCpu creates a reset CPU with the glyph table installed.
func NewCpu(options ...Option) (cpu *Cpu) {
	cpu = &Cpu{
		Rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, option := range options {
		option(cpu)
	}

	cpu.Reset()

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "i", "sp", "dt", "st"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%03X %v", cpu.Pc, cpu.FetchCode())
		case "i":
			strval = fmt.Sprintf("%03X", cpu.I)
		case "sp":
			val, ok := cpu.Stack.Peek()
			if ok {
				strval = fmt.Sprintf("%d %03X", cpu.Stack.Sp, val)
			} else {
				strval = "0 ---"
			}
		case "dt":
			strval = fmt.Sprintf("%02X", cpu.DelayTimer)
		case "st":
			strval = fmt.Sprintf("%02X", cpu.SoundTimer)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	for n, val := range cpu.V {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("v%X", n), val)
	}

	return
}

// Reset the CPU state.
// - Zeros memory, registers, stack, timers, keys and the framebuffer.
// - Installs the glyph table.
// - Sets the program counter to PROGRAM_START.
func (cpu *Cpu) Reset() {
	if cpu.Verbose && cpu.Logger != nil {
		cpu.Logger.Debug("Reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.V[:])
	cpu.I = 0
	cpu.Pc = PROGRAM_START
	cpu.Stack.Reset()
	cpu.DelayTimer = 0
	cpu.SoundTimer = 0
	clear(cpu.Keys[:])
	cpu.lastKey = lastKey{}
	cpu.Screen.Clear()

	copy(cpu.Memory[FONT_START:], font[:])
}

// Load resets the CPU and copies a program into memory at PROGRAM_START.
// A failed load leaves the CPU reset with no program installed.
func (cpu *Cpu) Load(source io.Reader) (err error) {
	cpu.Reset()

	data, err := io.ReadAll(io.LimitReader(source, PROGRAM_LIMIT+1))
	if err != nil {
		err = errors.Join(ErrSourceUnavailable, err)
		return
	}

	if len(data) > PROGRAM_LIMIT {
		err = ErrProgramTooLarge
		return
	}

	copy(cpu.Memory[PROGRAM_START:], data)

	if cpu.Verbose && cpu.Logger != nil {
		cpu.Logger.Debug("Program loaded", log.Int("size", len(data)))
	}

	return
}

// LoadFile loads a program from the named file.
func (cpu *Cpu) LoadFile(path string) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		cpu.Reset()
		err = errors.Join(ErrSourceUnavailable, err)
		return
	}
	defer inf.Close()

	return cpu.Load(inf)
}

// LoadFS loads a program from a file in a file system.
func (cpu *Cpu) LoadFS(fsys fs.FS, name string) (err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		cpu.Reset()
		err = errors.Join(ErrSourceUnavailable, err)
		return
	}
	defer inf.Close()

	return cpu.Load(inf)
}

// Tone returns true while the sound timer is running.
func (cpu *Cpu) Tone() bool {
	return cpu.SoundTimer > 0
}

// FetchCode reads the big-endian instruction word at the program counter.
func (cpu *Cpu) FetchCode() Code {
	hi := cpu.Memory[cpu.Pc&MEMORY_MASK]
	lo := cpu.Memory[(cpu.Pc+1)&MEMORY_MASK]
	return Code(uint16(hi)<<8 | uint16(lo))
}

// Step fetches, advances the program counter past, and executes one
// instruction. The fetched word is returned even when execution fails.
func (cpu *Cpu) Step() (code Code, err error) {
	code = cpu.FetchCode()

	if cpu.Verbose && cpu.Logger != nil {
		cpu.Logger.Debug("Execute", log.Hex("pc", cpu.Pc), log.Stringer("code", code))
	}

	cpu.Pc += 2

	err = cpu.Execute(code)

	return
}

// Execute executes a single decoded instruction. The program counter must
// already point past it. On error nothing but the program counter has been
// modified.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	x := code.X()
	y := code.Y()
	kk := code.KK()

	switch code.Family() {
	case FAMILY_SYS:
		switch kk {
		case SYS_CLS:
			cpu.Screen.Clear()
		case SYS_RET:
			ret, ok := cpu.Stack.Pop()
			if !ok {
				err = ErrStackUnderflow
				return
			}
			cpu.Pc = ret
		default:
			err = ErrInvalidOpcode
		}
	case FAMILY_JP:
		cpu.Pc = code.Addr()
	case FAMILY_CALL:
		if !cpu.Stack.Push(cpu.Pc) {
			err = ErrStackOverflow
			return
		}
		cpu.Pc = code.Addr()
	case FAMILY_SE:
		cpu.skipIf(cpu.V[x] == kk)
	case FAMILY_SNE:
		cpu.skipIf(cpu.V[x] != kk)
	case FAMILY_SE_V:
		cpu.skipIf(cpu.V[x] == cpu.V[y])
	case FAMILY_LD:
		cpu.V[x] = kk
	case FAMILY_ADD:
		cpu.V[x] += kk
	case FAMILY_ALU:
		err = cpu.doAlu(code.N(), x, y)
	case FAMILY_SNE_V:
		cpu.skipIf(cpu.V[x] != cpu.V[y])
	case FAMILY_LD_I:
		cpu.I = code.Addr()
	case FAMILY_JP_V0:
		cpu.Pc = code.Addr() + uint16(cpu.V[0])
	case FAMILY_RND:
		cpu.V[x] = uint8(cpu.Rand.Uint32()) & kk
	case FAMILY_DRW:
		cpu.draw(cpu.V[x], cpu.V[y], code.N())
	case FAMILY_SKP:
		pressed := cpu.Keys[cpu.V[x]&0xF]
		switch kk {
		case SKP_PRESSED:
			cpu.skipIf(pressed)
		case SKP_NOT_PRESSED:
			cpu.skipIf(!pressed)
		default:
			err = ErrInvalidOpcode
		}
	case FAMILY_MISC:
		err = cpu.doMisc(kk, x)
	default:
		err = ErrInvalidOpcode
	}

	return
}

// skipIf skips the next instruction when cond holds.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += 2
	}
}

// doAlu performs the 8xyN register operations. The flag is written after the
// result, so when x is VF the flag wins.
func (cpu *Cpu) doAlu(op uint8, x, y int) (err error) {
	vx := cpu.V[x]
	vy := cpu.V[y]

	var result uint8
	var flag uint8

	switch op {
	case ALU_OP_LD:
		cpu.V[x] = vy
		return
	case ALU_OP_OR:
		result = vx | vy
	case ALU_OP_AND:
		result = vx & vy
	case ALU_OP_XOR:
		result = vx ^ vy
	case ALU_OP_ADD:
		sum := uint16(vx) + uint16(vy)
		result = uint8(sum)
		if sum > 0xFF {
			flag = 1
		}
	case ALU_OP_SUB:
		result = vx - vy
		if vx >= vy {
			flag = 1
		}
	case ALU_OP_SHR:
		result = vy >> 1
		flag = vy & 1
	case ALU_OP_SUBN:
		result = vy - vx
		if vy >= vx {
			flag = 1
		}
	case ALU_OP_SHL:
		result = vy << 1
		flag = vy >> 7
	default:
		err = ErrInvalidOpcode
		return
	}

	cpu.V[x] = result
	cpu.V[REG_FLAG] = flag

	return
}

// draw XORs an 8 pixel wide, height row sprite from memory at I onto the
// framebuffer. Pixels past the right or bottom edge are clipped. VF is set if
// any lit pixel was turned dark.
func (cpu *Cpu) draw(vx, vy uint8, height uint8) {
	x0 := int(vx) % SCREEN_WIDTH
	y0 := int(vy) % SCREEN_HEIGHT

	var collision bool
	for row := range int(height) {
		y := y0 + row
		if y >= SCREEN_HEIGHT {
			break
		}
		sprite := cpu.Memory[(cpu.I+uint16(row))&MEMORY_MASK]
		for col := range 8 {
			x := x0 + col
			if x >= SCREEN_WIDTH {
				break
			}
			if sprite&(0x80>>col) == 0 {
				continue
			}
			if cpu.Screen.toggle(x, y) {
				collision = true
			}
		}
	}

	cpu.V[REG_FLAG] = 0
	if collision {
		cpu.V[REG_FLAG] = 1
	}
}

// doMisc performs the FxNN timer, key and memory operations.
func (cpu *Cpu) doMisc(op uint8, x int) (err error) {
	switch op {
	case MISC_GET_DELAY:
		cpu.V[x] = cpu.DelayTimer
	case MISC_WAIT_KEY:
		cpu.waitKey(x)
	case MISC_SET_DELAY:
		cpu.DelayTimer = cpu.V[x]
	case MISC_SET_SOUND:
		cpu.SoundTimer = cpu.V[x]
	case MISC_ADD_I:
		cpu.I += uint16(cpu.V[x])
	case MISC_GLYPH:
		cpu.I = GlyphAddress(cpu.V[x])
	case MISC_BCD:
		val := cpu.V[x]
		for n := range 3 {
			cpu.Memory[(cpu.I+uint16(2-n))&MEMORY_MASK] = val % 10
			val /= 10
		}
	case MISC_STORE:
		for n := 0; n <= x; n++ {
			cpu.Memory[cpu.I&MEMORY_MASK] = cpu.V[n]
			cpu.I++
		}
	case MISC_LOAD:
		for n := 0; n <= x; n++ {
			cpu.V[n] = cpu.Memory[cpu.I&MEMORY_MASK]
			cpu.I++
		}
	default:
		err = ErrInvalidOpcode
	}

	return
}

// waitKey completes when a key seen pressed by an earlier attempt is now
// released, storing it in Vx. Otherwise the program counter is rewound so the
// instruction is fetched again on the next step.
func (cpu *Cpu) waitKey(x int) {
	wait := true
	for key := range KEY_COUNT {
		if !cpu.Keys[key] {
			if cpu.lastKey.pressed && int(cpu.lastKey.key) == key {
				cpu.V[x] = uint8(key)
				cpu.lastKey.pressed = false
				wait = false
			}
			continue
		}
		cpu.lastKey = lastKey{key: uint8(key), pressed: true}
	}

	if wait {
		cpu.Pc -= 2
	}
}
