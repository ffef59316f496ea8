// Package adaptive provides a normalized least-mean-squares (NLMS) adaptive
// FIR filter for system identification.
//
// Driving the filter with a broadband excitation x and the recorded response
// y makes its coefficients converge toward the impulse response of the path
// between them:
//
//	h, err := adaptive.Estimate(x, y, adaptive.WithLength(48000))
//
// For sample-by-sample use, construct a filter with New and call Update.
package adaptive
