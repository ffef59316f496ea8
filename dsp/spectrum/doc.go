// Package spectrum provides the radix-2 spectral transform and spectrum-domain
// helpers used by TSP synthesis and deconvolution.
//
// # Sign convention
//
// The forward transform uses the twiddle factor exp(+i·2π/len) and is not
// scaled; the inverse uses exp(-i·2π/len) and divides by N:
//
//	X[k] = Σ x[n]·exp(+i·2π·k·n/N)
//	x[n] = 1/N · Σ X[k]·exp(-i·2π·k·n/N)
//
// Every [Transformer] honors this convention, so spectra produced by one
// backend can be inverted by another.
//
// # Usage
//
//	buf := make([]complex128, 1024)
//	// ... fill buf ...
//	if err := spectrum.FFT(buf); err != nil {
//	    return err
//	}
//	mag := spectrum.Magnitude(buf)
package spectrum
