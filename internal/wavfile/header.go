// Package wavfile reads and writes mono 16-bit PCM WAV files.
//
// The strict codec handles the canonical 44-byte layout produced by the
// measurement tools: RIFF header, a 16-byte "fmt " chunk and the "data"
// chunk, in that order. DecodeLenient accepts files with additional chunks.
package wavfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// HeaderSize is the length of the canonical header in bytes.
const HeaderSize = 44

const (
	formatPCM     = 1
	pcmFmtSize    = 16
	bytesPerFrame = 2
	maxSamples    = (math.MaxUint32 - (HeaderSize - 8)) / bytesPerFrame
)

var (
	magicRIFF = [4]byte{'R', 'I', 'F', 'F'}
	magicWAVE = [4]byte{'W', 'A', 'V', 'E'}
	magicFmt  = [4]byte{'f', 'm', 't', ' '}
	magicData = [4]byte{'d', 'a', 't', 'a'}
)

// Errors returned by the codec.
var (
	ErrInvalidFormat     = errors.New("wavfile: not a canonical RIFF/WAVE file")
	ErrUnsupportedFormat = errors.New("wavfile: only mono 16-bit PCM is supported")
	ErrTruncated         = errors.New("wavfile: unexpected end of file")
	ErrTooLarge          = errors.New("wavfile: too many samples for a WAV file")
)

// Header is the canonical 44-byte WAV header. The four magic fields are
// implied: they are always written and always checked on read.
//
// Layout (little-endian):
//
//	 0  "RIFF"        4  ChunkSize     8  "WAVE"
//	12  "fmt "       16  FmtSize      20  AudioFormat  22  NumChannels
//	24  SampleRate   28  ByteRate     32  BlockAlign   34  BitsPerSample
//	36  "data"       40  DataSize
type Header struct {
	ChunkSize     uint32
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// NewHeader returns the header of a mono 16-bit PCM file holding
// numSamples samples at sampleRate.
func NewHeader(sampleRate, numSamples int) (Header, error) {
	if sampleRate <= 0 || sampleRate > math.MaxUint32/bytesPerFrame {
		return Header{}, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, sampleRate)
	}

	if numSamples < 0 || numSamples > maxSamples {
		return Header{}, fmt.Errorf("%w: %d", ErrTooLarge, numSamples)
	}

	dataSize := uint32(numSamples * bytesPerFrame)

	return Header{
		ChunkSize:     HeaderSize - 8 + dataSize,
		FmtSize:       pcmFmtSize,
		AudioFormat:   formatPCM,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * bytesPerFrame),
		BlockAlign:    bytesPerFrame,
		BitsPerSample: 16,
		DataSize:      dataSize,
	}, nil
}

// NumSamples returns the number of 16-bit samples announced by DataSize.
func (h Header) NumSamples() int {
	return int(h.DataSize / bytesPerFrame)
}

// Validate reports whether the header describes mono 16-bit PCM.
func (h Header) Validate() error {
	switch {
	case h.AudioFormat != formatPCM:
		return fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, h.AudioFormat)
	case h.NumChannels != 1:
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, h.NumChannels)
	case h.BitsPerSample != 16:
		return fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, h.BitsPerSample)
	case h.SampleRate == 0:
		return fmt.Errorf("%w: sample rate 0", ErrUnsupportedFormat)
	}

	return nil
}

// MarshalBinary encodes the header field by field.
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	le := binary.LittleEndian

	copy(b[0:4], magicRIFF[:])
	le.PutUint32(b[4:8], h.ChunkSize)
	copy(b[8:12], magicWAVE[:])
	copy(b[12:16], magicFmt[:])
	le.PutUint32(b[16:20], h.FmtSize)
	le.PutUint16(b[20:22], h.AudioFormat)
	le.PutUint16(b[22:24], h.NumChannels)
	le.PutUint32(b[24:28], h.SampleRate)
	le.PutUint32(b[28:32], h.ByteRate)
	le.PutUint16(b[32:34], h.BlockAlign)
	le.PutUint16(b[34:36], h.BitsPerSample)
	copy(b[36:40], magicData[:])
	le.PutUint32(b[40:44], h.DataSize)

	return b, nil
}

// UnmarshalBinary decodes a 44-byte header and checks its magic fields.
// It does not check the audio format; see Validate.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: header is %d bytes", ErrTruncated, len(b))
	}

	for _, m := range []struct {
		off  int
		want [4]byte
	}{
		{0, magicRIFF},
		{8, magicWAVE},
		{12, magicFmt},
		{36, magicData},
	} {
		if [4]byte(b[m.off:m.off+4]) != m.want {
			return fmt.Errorf("%w: expected %q at offset %d, found %q",
				ErrInvalidFormat, m.want[:], m.off, b[m.off:m.off+4])
		}
	}

	le := binary.LittleEndian
	*h = Header{
		ChunkSize:     le.Uint32(b[4:8]),
		FmtSize:       le.Uint32(b[16:20]),
		AudioFormat:   le.Uint16(b[20:22]),
		NumChannels:   le.Uint16(b[22:24]),
		SampleRate:    le.Uint32(b[24:28]),
		ByteRate:      le.Uint32(b[28:32]),
		BlockAlign:    le.Uint16(b[32:34]),
		BitsPerSample: le.Uint16(b[34:36]),
		DataSize:      le.Uint32(b[40:44]),
	}

	return nil
}
