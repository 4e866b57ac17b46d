// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config holds the interpreter settings, read from an optional
// Starlark file.
//
// A configuration file assigns any of the settings below; settings it does
// not assign keep their defaults, which the file can read from the
// predeclared defaults struct:
//
//	speed = 2 * defaults.speed  # instructions per frame
//	tone = 880             # beeper pitch, in Hz
//	sample_rate = 44100    # WAV recording rate
//	hold_frames = 4        # frames a terminal key stays held
//	keymap = "x123qweasdzc4rfv"
//	seed = 1               # RND seed, 0 for a random seed
//	language = "en-US"     # message language, "" for the environment's
//
// Names starting with an underscore are private to the file.
package config

import (
	"errors"
	"os"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
	"golang.org/x/text/language"

	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
)

// Config holds the interpreter settings.
type Config struct {
	Speed      int    // Instructions per frame.
	Tone       int    // Beeper pitch, in Hz.
	SampleRate int    // WAV recording rate.
	HoldFrames int    // Frames a terminal key stays held after a press.
	Keymap     string // Host keys for the keys 0 to F.
	Seed       uint64 // RND seed, 0 for a random seed.
	Language   string // Message language tag, empty for the environment's.
}

// Default returns the default settings.
func Default() (cfg Config) {
	cfg = Config{
		Speed:      emulator.DEFAULT_SPEED,
		Tone:       io.DEFAULT_FREQUENCY,
		SampleRate: io.DEFAULT_SAMPLE_RATE,
		HoldFrames: io.DEFAULT_HOLD_FRAMES,
		Keymap:     io.DEFAULT_KEYMAP,
	}

	return
}

// Load reads settings from a Starlark file over the defaults.
// The settings are not validated, so that later overrides can correct them.
func Load(path string) (cfg Config, err error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return
	}

	return Parse(path, src)
}

// Parse reads settings from Starlark source over the defaults.
// src may be a string, []byte or io.Reader; filename names it in errors.
func Parse(filename string, src any) (cfg Config, err error) {
	cfg = Default()

	defaults := starlark.StringDict{
		"speed":       starlark.MakeInt(cfg.Speed),
		"tone":        starlark.MakeInt(cfg.Tone),
		"sample_rate": starlark.MakeInt(cfg.SampleRate),
		"hold_frames": starlark.MakeInt(cfg.HoldFrames),
		"keymap":      starlark.String(cfg.Keymap),
		"seed":        starlark.MakeUint64(cfg.Seed),
		"language":    starlark.String(cfg.Language),
	}
	defaults.Freeze()

	pred := starlark.StringDict{
		"defaults": starlarkstruct.FromStringDict(starlarkstruct.Default, defaults),
	}

	thread := starlark.Thread{Name: "config"}
	opts := syntax.FileOptions{}

	dict, err := starlark.ExecFileOptions(&opts, &thread, filename, src, pred)
	if err != nil {
		return
	}

	for _, key := range dict.Keys() {
		value := dict[key]
		switch key {
		case "speed":
			err = setInt(key, value, &cfg.Speed)
		case "tone":
			err = setInt(key, value, &cfg.Tone)
		case "sample_rate":
			err = setInt(key, value, &cfg.SampleRate)
		case "hold_frames":
			err = setInt(key, value, &cfg.HoldFrames)
		case "keymap":
			err = setString(key, value, &cfg.Keymap)
		case "language":
			err = setString(key, value, &cfg.Language)
		case "seed":
			st_int, ok := value.(starlark.Int)
			if !ok {
				err = ErrConfigType(key)
				break
			}
			cfg.Seed, ok = st_int.Uint64()
			if !ok {
				err = ErrConfigType(key)
			}
		default:
			if strings.HasPrefix(key, "_") {
				continue
			}
			if _, ok := value.(starlark.Callable); ok {
				continue
			}
			err = ErrConfigUnknown(key)
		}
		if err != nil {
			return
		}
	}

	return
}

// Override returns cfg with the named settings taken from overrides.
// Names are the configuration file setting names; unknown names are errors.
func (cfg Config) Override(overrides Config, names ...string) (merged Config, err error) {
	merged = cfg

	for _, name := range names {
		switch name {
		case "speed":
			merged.Speed = overrides.Speed
		case "tone":
			merged.Tone = overrides.Tone
		case "sample_rate":
			merged.SampleRate = overrides.SampleRate
		case "hold_frames":
			merged.HoldFrames = overrides.HoldFrames
		case "keymap":
			merged.Keymap = overrides.Keymap
		case "seed":
			merged.Seed = overrides.Seed
		case "language":
			merged.Language = overrides.Language
		default:
			err = ErrConfigUnknown(name)
			return
		}
	}

	return
}

func setInt(key string, value starlark.Value, target *int) (err error) {
	err = starlark.AsInt(value, target)
	if err != nil {
		err = errors.Join(ErrConfigType(key), err)
	}
	return
}

func setString(key string, value starlark.Value, target *string) (err error) {
	str, ok := starlark.AsString(value)
	if !ok {
		err = ErrConfigType(key)
		return
	}
	*target = str
	return
}

// Validate checks the settings.
func (cfg *Config) Validate() (err error) {
	if cfg.Speed < 1 {
		return ErrSpeed
	}

	if cfg.HoldFrames < 1 {
		return ErrHoldFrames
	}

	_, err = io.ParseKeymap(cfg.Keymap)
	if err != nil {
		return
	}

	if cfg.Tone <= 0 || cfg.SampleRate <= 0 {
		return io.ErrSampleRate
	}

	_, err = io.NewTone(cfg.Tone, cfg.SampleRate)
	if err != nil {
		return
	}

	if len(cfg.Language) != 0 {
		_, err = language.Parse(cfg.Language)
	}

	return
}
