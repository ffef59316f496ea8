package ir_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tsp/measure/ir"
)

func exponentialDecay(sampleRate, rt60, seconds float64) []float64 {
	decayRate := 6.9078 / rt60 // -60 dB at rt60

	out := make([]float64, int(sampleRate*seconds))
	for i := range out {
		out[i] = math.Exp(-decayRate * float64(i) / sampleRate)
	}

	return out
}

func ExampleAnalyzer_Analyze() {
	sampleRate := 48000.0
	analyzer := ir.NewAnalyzer(sampleRate)

	metrics, err := analyzer.Analyze(exponentialDecay(sampleRate, 1.0, 3.0))
	if err != nil {
		panic(err)
	}

	fmt.Printf("RT60 = %.2f s\n", metrics.RT60)
	fmt.Printf("EDT  = %.2f s\n", metrics.EDT.RT60())
	fmt.Printf("C80  = %.1f dB\n", metrics.C80)
	fmt.Printf("D50  = %.3f\n", metrics.D50)

	// Output:
	// RT60 = 1.00 s
	// EDT  = 1.00 s
	// C80  = 3.1 dB
	// D50  = 0.499
}

func ExampleAnalyzer_DecayTime() {
	sampleRate := 48000.0
	analyzer := ir.NewAnalyzer(sampleRate)

	curve, err := analyzer.SchroederIntegral(exponentialDecay(sampleRate, 1.0, 3.0))
	if err != nil {
		panic(err)
	}

	t10, err := analyzer.DecayTime(curve, ir.T10Start, ir.T10End)
	if err != nil {
		panic(err)
	}

	fmt.Printf("T10 = %.3f s, RT60 = %.3f s\n", t10.Seconds, t10.RT60())

	// Output:
	// T10 = 0.167 s, RT60 = 1.000 s
}

func ExampleAnalyzer_SchroederIntegral() {
	sampleRate := 48000.0
	analyzer := ir.NewAnalyzer(sampleRate)

	schroeder, err := analyzer.SchroederIntegral(exponentialDecay(sampleRate, 0.5, 1.5))
	if err != nil {
		panic(err)
	}

	// Print Schroeder curve at 0, 250, 500, 750, 1000ms
	for _, ms := range []float64{0, 250, 500, 750, 1000} {
		idx := int(ms * 0.001 * sampleRate)
		fmt.Printf("t=%4.0fms: %6.1f dB\n", ms, schroeder[idx])
	}

	// Output:
	// t=   0ms:    0.0 dB
	// t= 250ms:  -30.0 dB
	// t= 500ms:  -60.0 dB
	// t= 750ms:  -90.0 dB
	// t=1000ms: -120.0 dB
}
