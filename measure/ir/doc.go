// Package ir provides impulse response analysis metrics for room acoustics
// and system characterization.
//
// Reverberation is estimated from the Schroeder backward integration of the
// squared impulse response. A least-squares line is fitted to the decay curve
// between two levels and extrapolated to a 60 dB decay:
//
//   - T10: fit from -5 to -15 dB, RT60 = 6·T10
//   - T20: fit from -5 to -25 dB, RT60 = 3·T20
//   - T30: fit from -5 to -35 dB, RT60 = 2·T30
//   - EDT: early decay time, fit from 0 to -10 dB
//
// Energy-ratio parameters are measured from the IR peak:
//
//   - C50, C80: Clarity (early-to-late energy ratio at 50ms and 80ms)
//   - D50, D80: Definition (early energy fraction at 50ms and 80ms)
//   - Center Time: Temporal energy centroid
//
// # Usage
//
//	analyzer := ir.NewAnalyzer(48000) // sample rate
//	curve, _ := analyzer.SchroederIntegral(impulseResponse)
//	t20, err := analyzer.DecayTime(curve, -5, -25)
//	if errors.Is(err, ir.ErrNoDecay) {
//	    // noise floor too high, or too short
//	}
//	fmt.Printf("T20 = %.3f s, RT60 = %.3f s\n", t20.Seconds, t20.RT60())
package ir
