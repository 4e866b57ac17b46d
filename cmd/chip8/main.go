// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/ezrec/chip8/config"
	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/statsview"
	"github.com/ezrec/chip8/translate"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

const (
	EXIT_OK      = 0
	EXIT_LOAD    = 1 // Program could not be loaded.
	EXIT_RUNTIME = 2 // Program failed while running.
	EXIT_HOST    = 3 // Host device or configuration failure.
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := app.Context()

	var configPath string
	var tty string
	var wavPath string
	var frames int
	var verbose bool
	var quiet bool
	var showVersion bool
	var stats bool
	var statsAddr string

	cfg := config.Default()

	flag.StringVar(&configPath, "c", "", "Starlark configuration file")
	flag.StringVar(&tty, "t", "/dev/tty", "Terminal device")
	flag.StringVar(&wavPath, "w", "", "Record the tone to a .wav file")
	flag.IntVar(&frames, "n", 0, "Run headless for a number of frames, then print the screen")
	flag.BoolVar(&verbose, "v", false, "Verbose mode, traces every instruction")
	flag.BoolVar(&quiet, "q", false, "Quiet mode, only log errors")
	flag.BoolVar(&showVersion, "version", false, "Print the version and exit")
	flag.BoolVar(&stats, "statsview", false, "Serve runtime statistics")
	flag.StringVar(&statsAddr, "statsview-addr", statsview.DEFAULT_ADDRESS, "Runtime statistics listening address")

	// Settings flags, overriding the configuration file.
	flag.IntVar(&cfg.Speed, "speed", cfg.Speed, "Instructions per frame")
	flag.IntVar(&cfg.Tone, "tone", cfg.Tone, "Tone pitch, in Hz")
	flag.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "Tone sample rate, in Hz")
	flag.IntVar(&cfg.HoldFrames, "hold", cfg.HoldFrames, "Frames a key stays held after a press")
	flag.StringVar(&cfg.Keymap, "keymap", cfg.Keymap, "Host keys for the keys 0 to F")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed, 0 for a random seed")
	flag.StringVar(&cfg.Language, "lang", cfg.Language, "Message language")

	flag.Parse()

	logger := config.CreateLogger(verbose, quiet)

	if showVersion {
		fmt.Printf("version: %s\n", buildinfo.Version(version, commit, date))
		return EXIT_OK
	}

	if flag.NArg() != 1 {
		logger.Error(fmt.Sprintf("usage: %v [options] program.ch8", os.Args[0]))
		flag.PrintDefaults()
		return EXIT_HOST
	}
	program := flag.Arg(0)

	if len(configPath) != 0 {
		overrides := cfg
		loaded, err := config.Load(configPath)
		if err != nil {
			logger.Error("Configuration failed", log.String("file", configPath), log.Err(err))
			return EXIT_HOST
		}
		cfg, err = loaded.Override(overrides, overridden()...)
		if err != nil {
			logger.Error("Configuration failed", log.Err(err))
			return EXIT_HOST
		}
	}

	err := cfg.Validate()
	if err != nil {
		logger.Error("Invalid settings", log.Err(err))
		return EXIT_HOST
	}

	if len(cfg.Language) != 0 {
		err = translate.SetLanguage(cfg.Language)
		if err != nil {
			logger.Error("Invalid language", log.String("language", cfg.Language), log.Err(err))
			return EXIT_HOST
		}
	}

	if stats {
		if statsview.Available() {
			statsview.Launch(ctx, logger, statsAddr)
		} else {
			logger.Warn("Statsview not built in, rebuild with -tags statsview")
		}
	}

	options := []cpu.Option{cpu.WithLogger(logger)}
	if cfg.Seed != 0 {
		options = append(options, cpu.WithRandom(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}

	emu := emulator.NewEmulator(options...)
	emu.Verbose = verbose
	emu.Speed = cfg.Speed

	err = emu.LoadFile(program)
	if err != nil {
		logger.Error("Loading failed", log.String("file", program), log.Err(err))
		return EXIT_LOAD
	}

	var beepers io.Beepers
	if len(wavPath) != 0 {
		tone, err := io.NewTone(cfg.Tone, cfg.SampleRate)
		if err != nil {
			logger.Error("Invalid tone", log.Err(err))
			return EXIT_HOST
		}
		beepers = append(beepers, io.NewWavRecorder(wavPath, tone))
	}

	if frames > 0 {
		err = runHeadless(emu, beepers, frames)
	} else {
		err = runTerminal(ctx, emu, beepers, tty, cfg)
	}

	switch {
	case err == nil, errors.Is(err, io.ErrQuit), errors.Is(err, context.Canceled):
		logger.Debug("Stopped", log.Int("frames", emu.Frames))
		return EXIT_OK
	case errors.As(err, new(*emulator.ErrRuntime)):
		logger.Error("Program failed", log.Err(err))
		logger.Info(emu.Cpu.String())
		return EXIT_RUNTIME
	default:
		logger.Error("Host failure", log.Err(err))
		return EXIT_HOST
	}
}

// settingFlags maps the setting flags to configuration file names.
var settingFlags = map[string]string{
	"speed":  "speed",
	"tone":   "tone",
	"rate":   "sample_rate",
	"hold":   "hold_frames",
	"keymap": "keymap",
	"seed":   "seed",
	"lang":   "language",
}

// overridden returns the settings given on the command line.
func overridden() (names []string) {
	flag.Visit(func(fl *flag.Flag) {
		name, ok := settingFlags[fl.Name]
		if ok {
			names = append(names, name)
		}
	})

	return
}

// runHeadless runs a number of frames with no keys pressed, then prints the
// screen.
func runHeadless(emu *emulator.Emulator, beepers io.Beepers, frames int) (err error) {
	headless := &io.Headless{}
	emu.Keypad = headless
	emu.Display = headless
	emu.Beeper = beepers

	for range frames {
		err = emu.Frame()
		if err != nil {
			break
		}
	}

	err = errors.Join(err, beepers.Close())

	var screen bytes.Buffer
	io.Render(&screen, &emu.Cpu.Screen)
	_, werr := os.Stdout.Write(bytes.ReplaceAll(screen.Bytes(), []byte("\r\n"), []byte("\n")))

	return errors.Join(err, werr)
}

// runTerminal runs on the terminal until the program fails, or the user
// quits or interrupts it.
func runTerminal(ctx context.Context, emu *emulator.Emulator, beepers io.Beepers, tty string, cfg config.Config) (err error) {
	keymap, err := io.ParseKeymap(cfg.Keymap)
	if err != nil {
		return errors.Join(err, beepers.Close())
	}

	term, err := io.OpenTerminal(tty, keymap, cfg.HoldFrames)
	if err != nil {
		return errors.Join(err, beepers.Close())
	}

	emu.Keypad = term
	emu.Display = term
	emu.Beeper = append(beepers, term)

	err = emu.Run(ctx)

	return errors.Join(err, emu.Beeper.Close())
}
