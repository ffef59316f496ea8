package spectrum

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by transform functions.
var (
	ErrEmptyInput     = errors.New("spectrum: empty input")
	ErrNotPowerOfTwo  = errors.New("spectrum: length must be a power of two")
	ErrInvalidSign    = errors.New("spectrum: sign must be -1 (forward) or +1 (inverse)")
	ErrLengthMismatch = errors.New("spectrum: buffer length mismatch")
)

// Transform sign values.
const (
	SignForward = -1
	SignInverse = +1
)

// Transform performs an in-place radix-2 Cooley-Tukey transform of buf.
//
// sign == SignForward computes the unscaled forward transform with twiddle
// exp(+i·2π/len). sign == SignInverse computes the inverse with twiddle
// exp(-i·2π/len) and divides every element by N.
//
// len(buf) must be a power of two; otherwise ErrNotPowerOfTwo is returned and
// buf is left untouched.
func Transform(buf []complex128, sign int) error {
	n := len(buf)
	if n == 0 {
		return ErrEmptyInput
	}

	if !IsPowerOfTwo(n) {
		return fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}

	var dir float64

	switch sign {
	case SignForward:
		dir = 1
	case SignInverse:
		dir = -1
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSign, sign)
	}

	bitReverse(buf)

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		ang := dir * 2 * math.Pi / float64(size)

		for j := range half {
			sin, cos := math.Sincos(ang * float64(j))
			w := complex(cos, sin)

			for i := j; i < n; i += size {
				u := buf[i]
				v := buf[i+half] * w
				buf[i] = u + v
				buf[i+half] = u - v
			}
		}
	}

	if sign == SignInverse {
		scale := complex(1/float64(n), 0)
		for i := range buf {
			buf[i] *= scale
		}
	}

	return nil
}

// FFT computes the forward transform of buf in place.
func FFT(buf []complex128) error {
	return Transform(buf, SignForward)
}

// IFFT computes the normalized inverse transform of buf in place.
func IFFT(buf []complex128) error {
	return Transform(buf, SignInverse)
}

// bitReverse permutes buf into bit-reversed index order.
func bitReverse(buf []complex128) {
	n := len(buf)

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit

		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
