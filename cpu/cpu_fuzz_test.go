package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for family := range 0x10 {
		f.Add(uint16(family<<12), uint8(0), uint16(0x300), false)
		f.Add(uint16(family<<12|0x0FFF), uint8(0xFF), uint16(0xFFFF), true)
	}

	f.Fuzz(func(t *testing.T, opcode uint16, fill uint8, index uint16, full bool) {
		assert := assert.New(t)

		cpu := NewCpu(WithRandom(fixedRandom(0x5A)))
		for n := range cpu.V {
			cpu.V[n] = fill + uint8(n)
		}
		cpu.I = index
		cpu.Pc = 0x400
		cpu.Keys[fill&0xF] = true
		if full {
			for range STACK_LIMIT {
				cpu.Stack.Push(0x222)
			}
		}
		cpu.Memory[0x400] = byte(opcode >> 8)
		cpu.Memory[0x401] = byte(opcode)

		before := *cpu

		code, err := cpu.Step()
		assert.Equal(Code(opcode), code)

		if err != nil {
			var eo ErrOpcode
			assert.True(errors.As(err, &eo), "%v", err)
			assert.Equal(ErrOpcode(opcode), eo)

			// Only the program counter moved.
			assert.Equal(uint16(0x402), cpu.Pc)
			cpu.Pc = before.Pc
			assert.Equal(before, *cpu, "%v: %v", code, err)
			return
		}

		// The glyph table is only rewritten by stores through I.
		switch {
		case code.Family() == FAMILY_MISC && (code.KK() == MISC_STORE || code.KK() == MISC_BCD):
		default:
			assert.Equal(before.Memory, cpu.Memory, "%v", code)
		}

		for _, pixel := range cpu.Screen {
			assert.True(pixel == PIXEL_ON || pixel == PIXEL_OFF)
		}
		assert.LessOrEqual(cpu.Stack.Sp, uint8(STACK_LIMIT))
	})
}
