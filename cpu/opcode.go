package cpu

import (
	"fmt"
)

// Code is a 16-bit CHIP-8 instruction word.
type Code uint16

// CodeFamily is the instruction family, selected by the high nibble.
type CodeFamily int

//go:generate go tool stringer -linecomment -type=CodeFamily
const (
	FAMILY_SYS   = CodeFamily(0x0) // sys
	FAMILY_JP    = CodeFamily(0x1) // jp
	FAMILY_CALL  = CodeFamily(0x2) // call
	FAMILY_SE    = CodeFamily(0x3) // se
	FAMILY_SNE   = CodeFamily(0x4) // sne
	FAMILY_SE_V  = CodeFamily(0x5) // sev
	FAMILY_LD    = CodeFamily(0x6) // ld
	FAMILY_ADD   = CodeFamily(0x7) // add
	FAMILY_ALU   = CodeFamily(0x8) // alu
	FAMILY_SNE_V = CodeFamily(0x9) // snev
	FAMILY_LD_I  = CodeFamily(0xA) // ldi
	FAMILY_JP_V0 = CodeFamily(0xB) // jpv0
	FAMILY_RND   = CodeFamily(0xC) // rnd
	FAMILY_DRW   = CodeFamily(0xD) // drw
	FAMILY_SKP   = CodeFamily(0xE) // skp
	FAMILY_MISC  = CodeFamily(0xF) // misc
)

// Low byte of the FAMILY_SYS instructions.
const (
	SYS_CLS = 0xE0 // Clear the framebuffer.
	SYS_RET = 0xEE // Return from subroutine.
)

// Low nibble of the FAMILY_ALU instructions.
const (
	ALU_OP_LD   = 0x0 // Vx = Vy
	ALU_OP_OR   = 0x1 // Vx |= Vy, VF = 0
	ALU_OP_AND  = 0x2 // Vx &= Vy, VF = 0
	ALU_OP_XOR  = 0x3 // Vx ^= Vy, VF = 0
	ALU_OP_ADD  = 0x4 // Vx += Vy, VF = carry
	ALU_OP_SUB  = 0x5 // Vx -= Vy, VF = !borrow
	ALU_OP_SHR  = 0x6 // Vx = Vy >> 1, VF = lsb
	ALU_OP_SUBN = 0x7 // Vx = Vy - Vx, VF = !borrow
	ALU_OP_SHL  = 0xE // Vx = Vy << 1, VF = msb
)

// Low byte of the FAMILY_SKP instructions.
const (
	SKP_PRESSED     = 0x9E // Skip if key Vx is down.
	SKP_NOT_PRESSED = 0xA1 // Skip if key Vx is up.
)

// Low byte of the FAMILY_MISC instructions.
const (
	MISC_GET_DELAY = 0x07 // Vx = DT
	MISC_WAIT_KEY  = 0x0A // Vx = next released key
	MISC_SET_DELAY = 0x15 // DT = Vx
	MISC_SET_SOUND = 0x18 // ST = Vx
	MISC_ADD_I     = 0x1E // I += Vx
	MISC_GLYPH     = 0x29 // I = glyph address of Vx
	MISC_BCD       = 0x33 // [I..I+2] = BCD of Vx
	MISC_STORE     = 0x55 // [I..I+x] = V0..Vx
	MISC_LOAD      = 0x65 // V0..Vx = [I..I+x]
)

// Family returns the instruction family.
func (code Code) Family() CodeFamily {
	return CodeFamily(code >> 12)
}

// Addr returns the low 12 bits.
func (code Code) Addr() uint16 {
	return uint16(code) & 0x0FFF
}

// N returns the low nibble.
func (code Code) N() uint8 {
	return uint8(code) & 0x0F
}

// KK returns the low byte.
func (code Code) KK() uint8 {
	return uint8(code)
}

// X returns the register index in bits 8-11.
func (code Code) X() int {
	return int(code>>8) & 0xF
}

// Y returns the register index in bits 4-7.
func (code Code) Y() int {
	return int(code>>4) & 0xF
}

func (code Code) String() string {
	return fmt.Sprintf("%04X %v", uint16(code), code.Family())
}
