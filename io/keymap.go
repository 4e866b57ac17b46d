package io

import (
	"github.com/ezrec/chip8/cpu"
)

// DEFAULT_KEYMAP lays keys 1234/qwer/asdf/zxcv over the 123C/456D/789E/A0BF pad.
const DEFAULT_KEYMAP = "x123qweasdzc4rfv"

// Keymap holds the host key for each of the keys 0 to F.
type Keymap [cpu.KEY_COUNT]byte

// ParseKeymap reads a keymap from a string of sixteen distinct characters,
// naming the host keys for the keys 0 to F in order.
func ParseKeymap(text string) (km Keymap, err error) {
	if len(text) != cpu.KEY_COUNT {
		err = ErrKeymapLength
		return
	}

	seen := map[byte]bool{}
	for n := range cpu.KEY_COUNT {
		ch := text[n]
		if seen[lower(ch)] {
			err = ErrKeymapRepeat
			return
		}
		seen[lower(ch)] = true
		km[n] = ch
	}

	return
}

// Lookup returns the key mapped to a host key. Letters match in either case.
func (km *Keymap) Lookup(ch byte) (key int, ok bool) {
	for n, mapped := range km {
		if mapped == ch || lower(mapped) == lower(ch) {
			return n, true
		}
	}

	return
}

// String returns the keymap in the form ParseKeymap reads.
func (km Keymap) String() string {
	return string(km[:])
}

func lower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
