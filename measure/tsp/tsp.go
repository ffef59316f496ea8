package tsp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"github.com/cwbudde/algo-tsp/dsp/spectrum"
	"gonum.org/v1/gonum/floats"
)

// Measurement defaults.
const (
	DefaultLength     = 1 << 18 // 262144 samples, about 5.46 s at 48 kHz
	DefaultSampleRate = 48000
	MinLength         = 8
)

// Errors returned by tsp functions.
var (
	ErrInvalidLength      = errors.New("tsp: length must be a power of two >= 8")
	ErrInvalidSampleRate  = errors.New("tsp: sample rate must be positive")
	ErrInvalidPeriods     = errors.New("tsp: periods must be positive")
	ErrEmptyInput         = errors.New("tsp: empty input")
	ErrSampleRateMismatch = errors.New("tsp: excitation and response sample rates differ")
)

// Params describes a TSP excitation.
type Params struct {
	Length     int // N, samples per period
	SampleRate int // Hz
}

// DefaultParams returns N = 2^18 at 48 kHz.
func DefaultParams() Params {
	return Params{Length: DefaultLength, SampleRate: DefaultSampleRate}
}

// Validate checks that the parameters describe a usable TSP.
func (p Params) Validate() error {
	if p.Length < MinLength || !spectrum.IsPowerOfTwo(p.Length) {
		return fmt.Errorf("%w: %d", ErrInvalidLength, p.Length)
	}

	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, p.SampleRate)
	}

	return nil
}

// Half returns the effective length J = N/2.
func (p Params) Half() int { return p.Length / 2 }

// Shift returns the circular shift n0 = N/4.
func (p Params) Shift() int { return p.Length / 4 }

// Duration returns the period length in seconds.
func (p Params) Duration() float64 {
	if p.SampleRate <= 0 {
		return 0
	}
	return float64(p.Length) / float64(p.SampleRate)
}

// UpSpectrum returns the up-chirp TSP spectrum of length n:
//
//	H(k) = exp(iθ(k)), θ(k) = -2πJ(k/N)² - 2πk·n0/N,  0 <= k <= N/2
//
// mirrored as H(N-k) = conj H(k) with a real Nyquist bin, so that the time
// signal is real.
func UpSpectrum(n, j, n0 int) ([]complex128, error) {
	return hermitianChirp(n, func(k int) float64 {
		f := float64(k) / float64(n)
		return -2*math.Pi*float64(j)*f*f - 2*math.Pi*float64(k)*float64(n0)/float64(n)
	})
}

// InverseSpectrum returns the analytic inverse filter of length n:
//
//	G(k) = exp(+i·2πJ(k/N)²)
//
// with the same mirroring as UpSpectrum. G does not depend on the shift n0.
func InverseSpectrum(n, j int) ([]complex128, error) {
	return hermitianChirp(n, func(k int) float64 {
		f := float64(k) / float64(n)
		return 2 * math.Pi * float64(j) * f * f
	})
}

func hermitianChirp(n int, phase func(k int) float64) ([]complex128, error) {
	if !spectrum.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	out := make([]complex128, n)
	half := n / 2
	for k := 0; k <= half; k++ {
		out[k] = cmplx.Exp(complex(0, phase(k)))
		if k > 0 && k < half {
			out[n-k] = cmplx.Conj(out[k])
		}
	}
	out[half] = complex(real(out[half]), 0)

	return out, nil
}

// Generate synthesizes one period of the TSP in the time domain: the inverse
// transform of UpSpectrum, real part, scaled to the configured peak (0.9 by
// default).
func (p Params) Generate(opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts)

	x, err := p.synthesize(cfg.transformer)
	if err != nil {
		return nil, err
	}

	maxAbs := core.MaxAbs(x)
	if maxAbs > 0 {
		floats.Scale(cfg.peak/maxAbs, x)
	}

	return x, nil
}

// GeneratePCM synthesizes one period and quantizes it to 16-bit PCM at
// p.SampleRate.
func (p Params) GeneratePCM(opts ...Option) (core.PCM16, error) {
	cfg := applyOptions(opts)

	x, err := p.synthesize(cfg.transformer)
	if err != nil {
		return core.PCM16{}, err
	}

	samples, err := core.Quantize(x, cfg.peak)
	if err != nil {
		return core.PCM16{}, fmt.Errorf("tsp: quantize excitation: %w", err)
	}

	return core.PCM16{Samples: samples, SampleRate: p.SampleRate}, nil
}

func (p Params) synthesize(tr spectrum.Transformer) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	h, err := UpSpectrum(p.Length, p.Half(), p.Shift())
	if err != nil {
		return nil, err
	}

	if err := tr.Inverse(h); err != nil {
		return nil, fmt.Errorf("tsp: inverse transform failed: %w", err)
	}

	return spectrum.RealPart(h), nil
}

// Repeat concatenates periods copies of pcm, for playback of a multi-period
// measurement.
func Repeat(pcm core.PCM16, periods int) (core.PCM16, error) {
	if err := pcm.Validate(); err != nil {
		return core.PCM16{}, err
	}

	if periods <= 0 {
		return core.PCM16{}, fmt.Errorf("%w: %d", ErrInvalidPeriods, periods)
	}

	out := make([]int16, 0, len(pcm.Samples)*periods)
	for range periods {
		out = append(out, pcm.Samples...)
	}

	return core.PCM16{Samples: out, SampleRate: pcm.SampleRate}, nil
}

// Period returns the first of periods back-to-back copies held in pcm, the
// single-period excitation a Deconvolver expects. The length of pcm must be
// a multiple of periods.
func Period(pcm core.PCM16, periods int) (core.PCM16, error) {
	if err := pcm.Validate(); err != nil {
		return core.PCM16{}, err
	}

	if periods <= 0 || len(pcm.Samples)%periods != 0 {
		return core.PCM16{}, fmt.Errorf("%w: %d samples do not split into %d periods",
			ErrInvalidPeriods, len(pcm.Samples), periods)
	}

	n := len(pcm.Samples) / periods
	out := make([]int16, n)
	copy(out, pcm.Samples)

	return core.PCM16{Samples: out, SampleRate: pcm.SampleRate}, nil
}
