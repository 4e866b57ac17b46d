package cpu

import (
	"iter"
)

const (
	SCREEN_WIDTH  = 64 // Framebuffer width in pixels.
	SCREEN_HEIGHT = 32 // Framebuffer height in pixels.

	PIXEL_OFF = uint32(0x00000000) // Dark pixel.
	PIXEL_ON  = uint32(0xFFFFFFFF) // Lit pixel.
)

// Screen is the 64x32 framebuffer, row major. Each pixel is either PIXEL_OFF
// or PIXEL_ON so that hosts can copy it straight into a 32-bit color buffer.
type Screen [SCREEN_WIDTH * SCREEN_HEIGHT]uint32

// Clear darkens every pixel.
func (s *Screen) Clear() {
	clear(s[:])
}

// Pixel returns true if the pixel at (x, y) is lit.
// Coordinates outside of the screen are never lit.
func (s *Screen) Pixel(x, y int) bool {
	if x < 0 || x >= SCREEN_WIDTH || y < 0 || y >= SCREEN_HEIGHT {
		return false
	}
	return s[y*SCREEN_WIDTH+x] != PIXEL_OFF
}

// toggle flips the pixel at (x, y), returning true if it was lit before.
func (s *Screen) toggle(x, y int) (collision bool) {
	pixel := &s[y*SCREEN_WIDTH+x]
	collision = *pixel != PIXEL_OFF
	*pixel ^= PIXEL_ON
	return
}

// Rows iterates over the framebuffer one row at a time.
func (s *Screen) Rows() iter.Seq2[int, []uint32] {
	return func(yield func(y int, row []uint32) bool) {
		for y := range SCREEN_HEIGHT {
			if !yield(y, s[y*SCREEN_WIDTH:(y+1)*SCREEN_WIDTH]) {
				return
			}
		}
	}
}
