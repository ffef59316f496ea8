package wavfile

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeLenient reads a mono 16-bit PCM WAV stream that may contain chunks
// besides "fmt " and "data" (LIST, fact, JUNK, ...), or a non-canonical chunk
// order, as written by recording software.
func DecodeLenient(rs io.ReadSeeker) (core.PCM16, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return core.PCM16{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return core.PCM16{}, ErrInvalidFormat
	}

	h := Header{
		AudioFormat:   dec.WavAudioFormat,
		NumChannels:   dec.NumChans,
		SampleRate:    dec.SampleRate,
		BitsPerSample: dec.BitDepth,
	}
	if err := h.Validate(); err != nil {
		return core.PCM16{}, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return core.PCM16{}, fmt.Errorf("wavfile: read PCM data: %w", err)
	}

	return fromIntBuffer(buf, int(dec.SampleRate)), nil
}

// fromIntBuffer narrows decoded 16-bit samples held as int.
func fromIntBuffer(buf *audio.IntBuffer, sampleRate int) core.PCM16 {
	if buf.Format != nil && buf.Format.SampleRate > 0 {
		sampleRate = buf.Format.SampleRate
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}

	return core.PCM16{Samples: samples, SampleRate: sampleRate}
}

// ReadFileLenient decodes the WAV file at path with DecodeLenient.
func ReadFileLenient(path string) (core.PCM16, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.PCM16{}, fmt.Errorf("wavfile: %w", err)
	}
	defer f.Close()

	pcm, err := DecodeLenient(f)
	if err != nil {
		return core.PCM16{}, fmt.Errorf("%s: %w", path, err)
	}

	return pcm, nil
}
