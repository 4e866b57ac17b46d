package io

import (
	"math"

	"github.com/ezrec/chip8/cpu"
)

const (
	DEFAULT_FREQUENCY   = 440   // Tone pitch, in Hz.
	DEFAULT_SAMPLE_RATE = 48000 // Samples per second.
	TONE_AMPLITUDE      = 0.5   // Peak of the sine wave.
)

// Tone is a sine wave synthesizer gated by the sound timer.
// The phase carries across calls, and once the gate closes the wave runs on
// until it completes its current cycle.
type Tone struct {
	Frequency  int // Tone pitch, in Hz.
	SampleRate int // Samples per second.

	playing bool
	phase   float64
	partial float64 // Fractional samples owed from earlier frames.
}

// NewTone creates a synthesizer, using the defaults for zero arguments.
func NewTone(frequency, sampleRate int) (tone *Tone, err error) {
	if frequency == 0 {
		frequency = DEFAULT_FREQUENCY
	}
	if sampleRate == 0 {
		sampleRate = DEFAULT_SAMPLE_RATE
	}

	if sampleRate < 0 || frequency < 0 || frequency*2 > sampleRate {
		err = ErrSampleRate
		return
	}

	tone = &Tone{
		Frequency:  frequency,
		SampleRate: sampleRate,
	}

	return
}

// Gate opens or closes the tone.
func (tone *Tone) Gate(on bool) {
	tone.playing = on
}

// Playing returns true while the gate is open.
func (tone *Tone) Playing() bool {
	return tone.playing
}

// Synthesize fills samples with the tone. Samples after the wave has gone
// silent are zero.
func (tone *Tone) Synthesize(samples []float64) {
	step := float64(tone.Frequency) / float64(tone.SampleRate)

	for n := range samples {
		// A closed gate stops at the first zero crossing of a new cycle.
		if !tone.playing && tone.phase < step {
			clear(samples[n:])
			return
		}

		tone.phase += step
		samples[n] = math.Sin(tone.phase*2*math.Pi) * TONE_AMPLITUDE
		tone.phase = math.Mod(tone.phase, 1)
	}
}

// FrameSamples returns the number of samples spanning a number of frames,
// carrying any remainder into the next call.
func (tone *Tone) FrameSamples(frames int) (count int) {
	exact := float64(tone.SampleRate)*float64(frames)/cpu.FRAME_RATE + tone.partial
	whole := math.Floor(exact)
	tone.partial = exact - whole

	return int(whole)
}

// Render gates the synthesizer and returns the samples for the frames.
func (tone *Tone) Render(on bool, frames int) (samples []float64) {
	tone.Gate(on)
	samples = make([]float64, tone.FrameSamples(frames))
	tone.Synthesize(samples)

	return
}
