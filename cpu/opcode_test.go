package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Fields(t *testing.T) {
	assert := assert.New(t)

	code := Code(0xD12F)
	assert.Equal(FAMILY_DRW, code.Family())
	assert.Equal(uint16(0x12F), code.Addr())
	assert.Equal(uint8(0xF), code.N())
	assert.Equal(uint8(0x2F), code.KK())
	assert.Equal(1, code.X())
	assert.Equal(2, code.Y())
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		code Code
		text string
	}{
		{0x00E0, "00E0 sys"},
		{0x1234, "1234 jp"},
		{0x5AB0, "5AB0 sev"},
		{0xA22A, "A22A ldi"},
		{0xB000, "B000 jpv0"},
		{0xF165, "F165 misc"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
	}

	assert.Equal("CodeFamily(16)", CodeFamily(16).String())
}

func TestGlyphAddress(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint16(0), GlyphAddress(0))
	assert.Equal(uint16(5*0xA), GlyphAddress(0xA))
	assert.Equal(uint16(5*0xF), GlyphAddress(0xFF))
}
