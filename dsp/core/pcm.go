package core

import (
	"errors"
	"fmt"
	"math"
)

// Full-scale constants for signed 16-bit PCM.
const (
	// PCM16Scale is the divisor used when converting int16 samples to float64.
	PCM16Scale = 32768.0

	// PCM16Max is the multiplier used when quantizing float64 samples to int16.
	PCM16Max = 32767.0

	// DefaultPeak is the export peak relative to full scale (10% headroom).
	DefaultPeak = 0.9
)

// Errors returned by sample buffer helpers.
var (
	ErrEmptyBuffer       = errors.New("core: sample buffer is empty")
	ErrInvalidSampleRate = errors.New("core: sample rate must be positive")
	ErrInvalidPeak       = errors.New("core: peak must be in (0, 1]")
)

// PCM16 is a mono buffer of signed 16-bit samples paired with its sample rate.
type PCM16 struct {
	Samples    []int16
	SampleRate int
}

// Validate reports whether the buffer holds at least one sample and a
// positive sample rate.
func (p PCM16) Validate() error {
	if len(p.Samples) == 0 {
		return ErrEmptyBuffer
	}

	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, p.SampleRate)
	}

	return nil
}

// Len returns the number of samples.
func (p PCM16) Len() int {
	return len(p.Samples)
}

// Seconds returns the buffer duration in seconds, or 0 for an invalid rate.
func (p PCM16) Seconds() float64 {
	if p.SampleRate <= 0 {
		return 0
	}

	return float64(len(p.Samples)) / float64(p.SampleRate)
}

// Float64 converts the samples to float64 in [-1, 1) by dividing by 32768.
func (p PCM16) Float64() []float64 {
	return PCM16ToFloat(p.Samples)
}

// PCM16ToFloat converts int16 samples to float64 in [-1, 1).
func PCM16ToFloat(samples []int16) []float64 {
	out := make([]float64, len(samples))
	PCM16ToFloatInto(out, samples)

	return out
}

// PCM16ToFloatInto converts samples into dst and returns the number written.
// Elements of dst beyond len(samples) are left untouched.
func PCM16ToFloatInto(dst []float64, samples []int16) int {
	n := min(len(dst), len(samples))
	for i := range n {
		dst[i] = float64(samples[i]) / PCM16Scale
	}

	return n
}

// Quantize scales data so its absolute peak equals peak (relative to full
// scale) and converts the result to int16, truncating toward zero.
//
// A silent input yields silence. Peak must be in (0, 1].
func Quantize(data []float64, peak float64) ([]int16, error) {
	if peak <= 0 || peak > 1 || math.IsNaN(peak) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeak, peak)
	}

	out := make([]int16, len(data))

	maxAbs := MaxAbs(data)
	if maxAbs == 0 || math.IsNaN(maxAbs) || math.IsInf(maxAbs, 0) {
		return out, nil
	}

	scale := peak / maxAbs * PCM16Max
	for i, v := range data {
		out[i] = int16(Clamp(v*scale, -PCM16Scale, PCM16Max))
	}

	return out, nil
}
