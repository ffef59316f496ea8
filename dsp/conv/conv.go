package conv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-tsp/dsp/spectrum"
	"gonum.org/v1/gonum/floats"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated destination.
// dst must have length len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	m := len(b)

	for i := range dst {
		dst[i] = 0
	}

	for i, v := range a {
		if v == 0 {
			continue
		}
		floats.AddScaled(dst[i:i+m], v, b)
	}
}

// DirectCircular performs circular convolution of a and b.
// Both inputs must have the same length N, and the result has length N.
func DirectCircular(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}
	if len(a) != len(b) {
		return nil, ErrLengthMismatch
	}

	n := len(a)
	result := make([]float64, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			result[(i+j)%n] += a[i] * b[j]
		}
	}

	return result, nil
}

// Circular returns the circular convolution of period with kernel over
// len(period) samples. The kernel is zero-padded, or wrapped around when it
// is longer than the period.
//
// Power-of-two periods use the radix-2 transform; other lengths fall back to
// DirectCircular.
func Circular(period, kernel []float64) ([]float64, error) {
	if len(period) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	n := len(period)
	folded := make([]float64, n)
	for i, v := range kernel {
		folded[i%n] += v
	}

	if !spectrum.IsPowerOfTwo(n) {
		return DirectCircular(period, folded)
	}

	return circularFFT(period, folded, spectrum.Radix2{})
}

func circularFFT(a, b []float64, tr spectrum.Transformer) ([]float64, error) {
	n := len(a)
	fa := spectrum.RealToComplex(a, n)
	fb := spectrum.RealToComplex(b, n)

	if err := tr.Forward(fa); err != nil {
		return nil, fmt.Errorf("conv: forward transform failed: %w", err)
	}
	if err := tr.Forward(fb); err != nil {
		return nil, fmt.Errorf("conv: forward transform failed: %w", err)
	}

	for i := range fa {
		fa[i] *= fb[i]
	}

	if err := tr.Inverse(fa); err != nil {
		return nil, fmt.Errorf("conv: inverse transform failed: %w", err)
	}

	return spectrum.RealPart(fa), nil
}
