// Package tsp provides Time-Stretched Pulse (TSP) excitation synthesis and
// FFT-domain deconvolution for impulse response measurement.
//
// A TSP is a swept signal defined in the frequency domain with unit
// magnitude and quadratic phase. Its properties:
//
//   - Flat magnitude spectrum, so every bin is excited with equal energy
//   - The inverse filter is analytic (conjugate quadratic phase), no division
//   - A periodic excitation makes the recorded steady-state period a circular
//     convolution, which the inverse filter undoes exactly
//
// # Usage
//
// Generate a TSP, play it at least twice through the system, and deconvolve
// the recording. When the recording is at least two periods long, the first
// period is discarded as transient:
//
//	p := tsp.DefaultParams()
//	excitation, _ := p.GeneratePCM()
//	playback, _ := tsp.Repeat(excitation, 2)
//	// ... play playback through the system, record response ...
//	ir, _ := tsp.NewDeconvolver().Deconvolve(excitation, response)
//
// # Sign convention
//
// Spectra follow package spectrum: the forward transform uses exp(+i). With
// the up-chirp phase -2πJ(k/N)² - 2πk·n0/N the deconvolved impulse response
// appears circularly shifted by -n0, so a direct path at lag 0 lands at index
// N - n0.
package tsp
