package io

import (
	"errors"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	WAV_BIT_DEPTH    = 16 // Bits per recorded sample.
	WAV_CHANNELS     = 1  // Mono.
	WAV_FORMAT_PCM   = 1  // WAVE_FORMAT_PCM
	WAV_SAMPLE_LIMIT = math.MaxInt16
)

// WavRecorder is a Beeper that records the tone output to a WAV file.
// Audio is buffered in memory in its entirety and written on Close.
type WavRecorder struct {
	Path string // Destination file.

	tone *Tone
	data []int
}

// NewWavRecorder creates a recorder of a synthesized tone.
func NewWavRecorder(path string, tone *Tone) (wr *WavRecorder) {
	wr = &WavRecorder{
		Path: path,
		tone: tone,
	}

	return
}

// Tone renders the tone for the frames into the recording.
func (wr *WavRecorder) Tone(on bool, frames int) (err error) {
	for _, sample := range wr.tone.Render(on, frames) {
		wr.data = append(wr.data, int(math.Round(sample*WAV_SAMPLE_LIMIT)))
	}

	return
}

// Samples returns the number of samples recorded.
func (wr *WavRecorder) Samples() int {
	return len(wr.data)
}

// Close writes the recording to Path.
func (wr *WavRecorder) Close() (err error) {
	ouf, err := os.Create(wr.Path)
	if err != nil {
		return
	}
	defer func() {
		err = errors.Join(err, ouf.Close())
	}()

	enc := wav.NewEncoder(ouf, wr.tone.SampleRate, WAV_BIT_DEPTH, WAV_CHANNELS, WAV_FORMAT_PCM)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: WAV_CHANNELS,
			SampleRate:  wr.tone.SampleRate,
		},
		Data:           wr.data,
		SourceBitDepth: WAV_BIT_DEPTH,
	}

	err = enc.Write(buf)
	if err != nil {
		return
	}

	err = enc.Close()

	return
}
