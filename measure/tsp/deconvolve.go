package tsp

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/dsp/spectrum"
)

// Deconvolver recovers impulse responses from TSP recordings.
//
// A Deconvolver is safe for concurrent use only if its Transformer is;
// the default radix-2 backend is.
type Deconvolver struct {
	cfg config
}

// NewDeconvolver returns a Deconvolver with the given options applied over
// the defaults: radix-2 FFT, magnitude floor 1e-10, export peak 0.9.
func NewDeconvolver(opts ...Option) *Deconvolver {
	return &Deconvolver{cfg: applyOptions(opts)}
}

// FFTSize returns the transform length used for an excitation of excLen
// samples and a response of respLen samples: the smallest power of two
// >= max(excLen, respLen).
func FFTSize(excLen, respLen int) int {
	return spectrum.NextPowerOfTwo(max(excLen, respLen))
}

// ResponseOffset returns the index of the first response sample used. A
// response holding at least two excitation periods skips the first one.
func ResponseOffset(excLen, respLen int) int {
	if respLen >= 2*excLen {
		return excLen
	}
	return 0
}

// ImpulseResponse returns the real-valued impulse response before
// normalization, FFTSize(len(excitation), len(response)) samples long.
//
// The inverse filter is built from J = len(excitation)/2. Bins where the
// excitation spectrum magnitude does not exceed the floor are zeroed.
func (d *Deconvolver) ImpulseResponse(excitation, response core.PCM16) ([]float64, error) {
	if err := checkPair(excitation, response); err != nil {
		return nil, err
	}

	excLen := len(excitation.Samples)
	respLen := len(response.Samples)
	n := FFTSize(excLen, respLen)
	tr := d.cfg.transformer

	exc := make([]complex128, n)
	for i, s := range excitation.Samples {
		exc[i] = complex(float64(s)/core.PCM16Scale, 0)
	}
	if err := tr.Forward(exc); err != nil {
		return nil, fmt.Errorf("tsp: forward transform failed: %w", err)
	}

	start := ResponseOffset(excLen, respLen)
	count := min(respLen-start, n)
	resp := make([]complex128, n)
	for i := range count {
		resp[i] = complex(float64(response.Samples[start+i])/core.PCM16Scale, 0)
	}
	if err := tr.Forward(resp); err != nil {
		return nil, fmt.Errorf("tsp: forward transform failed: %w", err)
	}

	inv, err := InverseSpectrum(n, excLen/2)
	if err != nil {
		return nil, err
	}

	mag := spectrum.Magnitude(exc)
	for k := range resp {
		if mag[k] > d.cfg.floor {
			resp[k] *= inv[k]
		} else {
			resp[k] = 0
		}
	}

	if err := tr.Inverse(resp); err != nil {
		return nil, fmt.Errorf("tsp: inverse transform failed: %w", err)
	}

	return spectrum.RealPart(resp), nil
}

// Deconvolve returns the impulse response quantized to 16-bit PCM with its
// absolute peak at the configured level, at the excitation sample rate.
func (d *Deconvolver) Deconvolve(excitation, response core.PCM16) (core.PCM16, error) {
	ir, err := d.ImpulseResponse(excitation, response)
	if err != nil {
		return core.PCM16{}, err
	}

	samples, err := core.Quantize(ir, d.cfg.peak)
	if err != nil {
		return core.PCM16{}, fmt.Errorf("tsp: quantize impulse response: %w", err)
	}

	return core.PCM16{Samples: samples, SampleRate: excitation.SampleRate}, nil
}

func checkPair(excitation, response core.PCM16) error {
	for _, p := range []core.PCM16{excitation, response} {
		if err := p.Validate(); err != nil {
			if errors.Is(err, core.ErrEmptyBuffer) {
				return ErrEmptyInput
			}
			return err
		}
	}

	if excitation.SampleRate != response.SampleRate {
		return fmt.Errorf("%w: %d Hz vs %d Hz", ErrSampleRateMismatch,
			excitation.SampleRate, response.SampleRate)
	}

	return nil
}
