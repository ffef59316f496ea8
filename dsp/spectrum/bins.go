package spectrum

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

func unpack(in []complex128, re, im []float64) {
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
}

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// Uses SIMD-optimized kernels when available. Scratch buffers are pooled, so
// in steady state this allocates only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	unpack(in, re, im)
	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	unpack(in, re, im)
	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// Phase returns arg(X[k]) for each complex spectrum bin in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// IsHermitian reports whether buf is the spectrum of a real signal:
// buf[k] == conj(buf[N-k]) for 0 < k < N/2 and zero imaginary parts at DC
// and Nyquist, all within tol.
func IsHermitian(buf []complex128, tol float64) bool {
	n := len(buf)
	if n == 0 {
		return false
	}

	if math.Abs(imag(buf[0])) > tol {
		return false
	}

	if n == 1 {
		return true
	}

	if math.Abs(imag(buf[n/2])) > tol {
		return false
	}

	for k := 1; k < n/2; k++ {
		if cmplx.Abs(buf[k]-cmplx.Conj(buf[n-k])) > tol {
			return false
		}
	}

	return true
}

// RealToComplex copies src into the first len(src) elements of a zeroed
// complex buffer of length n. Samples beyond n are dropped.
func RealToComplex(src []float64, n int) []complex128 {
	out := make([]complex128, n)
	for i := range min(len(src), n) {
		out[i] = complex(src[i], 0)
	}
	return out
}

// RealPart returns the real parts of buf.
func RealPart(buf []complex128) []float64 {
	out := make([]float64, len(buf))
	for i, c := range buf {
		out[i] = real(c)
	}
	return out
}
