// Package conv provides the convolution routines used to simulate
// measurements and to build reference responses.
//
//   - Direct: O(N*M) linear convolution, the model y = x * h seen by an
//     adaptive estimator
//   - Circular: FFT circular convolution, the steady-state response of a
//     system driven by a periodic excitation such as a repeated TSP
//
// # Usage
//
//	y, err := conv.Direct(x, h)          // len(x)+len(h)-1 samples
//	r, err := conv.Circular(period, h)   // len(period) samples
package conv
