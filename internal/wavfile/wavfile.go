package wavfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-tsp/dsp/core"
)

// Decode reads a canonical mono 16-bit PCM WAV stream.
func Decode(r io.Reader) (core.PCM16, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return core.PCM16{}, readErr(err)
	}

	var h Header
	if err := h.UnmarshalBinary(buf); err != nil {
		return core.PCM16{}, err
	}

	if err := h.Validate(); err != nil {
		return core.PCM16{}, err
	}

	// DataSize is untrusted; the buffer grows with the bytes actually read.
	want := int64(h.NumSamples()) * bytesPerFrame
	data, err := io.ReadAll(io.LimitReader(r, want))
	if err != nil {
		return core.PCM16{}, readErr(err)
	}
	if int64(len(data)) != want {
		return core.PCM16{}, ErrTruncated
	}

	samples := make([]int16, h.NumSamples())
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}

	return core.PCM16{Samples: samples, SampleRate: int(h.SampleRate)}, nil
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}

	return fmt.Errorf("wavfile: read: %w", err)
}

// Encode writes pcm as a canonical mono 16-bit PCM WAV stream.
func Encode(w io.Writer, pcm core.PCM16) error {
	h, err := NewHeader(pcm.SampleRate, len(pcm.Samples))
	if err != nil {
		return err
	}

	head, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	if _, err := w.Write(head); err != nil {
		return fmt.Errorf("wavfile: write header: %w", err)
	}

	data := make([]byte, len(pcm.Samples)*bytesPerFrame)
	for i, s := range pcm.Samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("wavfile: write samples: %w", err)
	}

	return nil
}

// ReadFile decodes the canonical WAV file at path.
func ReadFile(path string) (core.PCM16, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.PCM16{}, fmt.Errorf("wavfile: %w", err)
	}
	defer f.Close()

	pcm, err := Decode(bufio.NewReader(f))
	if err != nil {
		return core.PCM16{}, fmt.Errorf("%s: %w", path, err)
	}

	return pcm, nil
}

// WriteFile encodes pcm to path. The data is written to a temporary file in
// the same directory and renamed into place, so path is either left
// untouched or replaced by a complete file.
func WriteFile(path string, pcm core.PCM16) error {
	return WriteAtomic(path, func(w io.Writer) error {
		return Encode(w, pcm)
	})
}

// WriteAtomic creates path from the output of write. Output goes through a
// buffered temporary file in the same directory that is renamed over path
// only after write and the flush succeed.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("wavfile: %w", err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("wavfile: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("wavfile: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("wavfile: %w", err)
	}

	return nil
}
