package io

import (
	"github.com/ezrec/chip8/translate"
)

var (
	// Host errors
	ErrQuit         = translate.Error("quit requested")
	ErrKeymapLength = translate.Error("keymap must name 16 keys")
	ErrKeymapRepeat = translate.Error("keymap repeats a key")
	ErrSampleRate   = translate.Error("invalid sample rate")
)
