package ir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Errors returned by IR analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidTime       = errors.New("ir: time must be positive")
	ErrInvalidRange      = errors.New("ir: start level must be above end level")
	ErrNoDecay           = errors.New("ir: insufficient decay for RT calculation")
)

const (
	// FloorDB is the decay curve level where the remaining energy is zero.
	FloorDB = -100.0

	// NotDetected is the Seconds value of a failed DecayFit.
	NotDetected = -1.0

	// minDenominator rejects regressions over a degenerate time axis.
	minDenominator = 1e-10

	// onsetRatio is the onset threshold relative to the peak amplitude (-20 dB).
	onsetRatio = 0.1
)

// Standard evaluation ranges in dB.
const (
	T10Start, T10End = -5.0, -15.0
	T20Start, T20End = -5.0, -25.0
	T30Start, T30End = -5.0, -35.0
	EDTStart, EDTEnd = 0.0, -10.0
)

// DecayFit is a least-squares line fitted to a decay curve between two levels.
type DecayFit struct {
	StartDB    float64 // upper level of the evaluation range
	EndDB      float64 // lower level of the evaluation range
	StartIndex int     // first sample in the range, -1 if not found
	EndIndex   int     // last sample in the range, -1 if not found
	StartTime  float64 // StartIndex in seconds
	EndTime    float64 // EndIndex in seconds
	Slope      float64 // decay rate in dB/s
	Intercept  float64 // fitted level at t = 0 in dB
	Seconds    float64 // fitted time to fall from StartDB to EndDB, or NotDetected
}

// Detected reports whether the fit succeeded.
func (f DecayFit) Detected() bool {
	return f.Seconds > 0
}

// RT60 extrapolates the fitted decay to 60 dB: Seconds · 60 / (StartDB - EndDB).
// It returns NotDetected for a failed fit.
func (f DecayFit) RT60() float64 {
	if !f.Detected() || f.StartDB <= f.EndDB {
		return NotDetected
	}

	return f.Seconds * 60 / (f.StartDB - f.EndDB)
}

// Metrics holds impulse response analysis results.
type Metrics struct {
	RT60       float64  // from T20, falling back to T10; NotDetected if neither fits
	EDT        DecayFit // 0 to -10 dB
	T10        DecayFit // -5 to -15 dB
	T20        DecayFit // -5 to -25 dB
	T30        DecayFit // -5 to -35 dB
	C50        float64  // clarity at 50ms in dB
	C80        float64  // clarity at 80ms in dB
	D50        float64  // definition at 50ms (ratio 0-1)
	D80        float64  // definition at 80ms (ratio 0-1)
	CenterTime float64  // energy centroid in seconds
	PeakIndex  int      // sample index of IR peak (absolute maximum)
	Onset      int      // first sample within -20 dB of the peak, see FindImpulseStart
}

// Analyzer computes IR metrics from impulse response data.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an IR analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Analyze computes all IR metrics from an impulse response.
//
// Decay fits use the Schroeder curve of the whole response. Clarity,
// definition and center time are measured from the peak onward. A decay
// range that cannot be fitted is reported through its DecayFit, not as an
// error.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if len(ir) == 0 {
		return Metrics{}, ErrEmptyIR
	}

	if a.SampleRate <= 0 {
		return Metrics{}, ErrInvalidSampleRate
	}

	peakIdx := core.PeakIndex(ir)
	irFromPeak := ir[peakIdx:]

	schroeder := a.schroederIntegral(ir)

	m := Metrics{
		PeakIndex:  peakIdx,
		Onset:      findImpulseStart(ir, onsetRatio),
		CenterTime: a.centerTime(irFromPeak),
		D50:        a.definition(irFromPeak, 50),
		D80:        a.definition(irFromPeak, 80),
		C50:        a.clarity(irFromPeak, 50),
		C80:        a.clarity(irFromPeak, 80),
	}

	m.EDT, _ = a.decayTime(schroeder, EDTStart, EDTEnd)
	m.T10, _ = a.decayTime(schroeder, T10Start, T10End)
	m.T20, _ = a.decayTime(schroeder, T20Start, T20End)
	m.T30, _ = a.decayTime(schroeder, T30Start, T30End)

	switch {
	case m.T20.Detected():
		m.RT60 = m.T20.RT60()
	case m.T10.Detected():
		m.RT60 = m.T10.RT60()
	default:
		m.RT60 = NotDetected
	}

	return m, nil
}

// EnergyDecay returns the backward cumulative energy of the impulse response:
//
//	E[i] = Σ_{j>=i} h[j]²
//
// The result is non-increasing in i.
func (a *Analyzer) EnergyDecay(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	return energyDecay(ir), nil
}

func energyDecay(ir []float64) []float64 {
	result := make([]float64, len(ir))

	var cumSum float64
	for i := len(ir) - 1; i >= 0; i-- {
		cumSum += ir[i] * ir[i]
		result[i] = cumSum
	}

	return result
}

// SchroederIntegral computes the Schroeder backward integration of the
// squared impulse response, returned in dB relative to the total energy.
//
// S(i) = 10*log10( E[i] / E[0] )
//
// Samples where no energy remains are set to FloorDB. An all-zero response
// yields FloorDB everywhere.
func (a *Analyzer) SchroederIntegral(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	return a.schroederIntegral(ir), nil
}

// schroederIntegral computes the Schroeder integral (unchecked).
func (a *Analyzer) schroederIntegral(ir []float64) []float64 {
	result := energyDecay(ir)

	totalEnergy := result[0]
	for i, e := range result {
		if e > 0 {
			result[i] = 10 * math.Log10(e/totalEnergy)
		} else {
			result[i] = FloorDB
		}
	}

	return result
}

// DecayTime fits a line to the decay curve between startDB and endDB.
//
// The range starts at the first sample at or below startDB (and not below
// endDB) and ends at the first sample at or below endDB. The curve level is
// regressed against time in seconds. The fit fails with ErrNoDecay if the
// range is not found, the time axis is degenerate, or the slope is not
// negative; the returned DecayFit then has Seconds == NotDetected.
func (a *Analyzer) DecayTime(curve []float64, startDB, endDB float64) (DecayFit, error) {
	if len(curve) == 0 {
		return DecayFit{}, ErrEmptyIR
	}

	if a.SampleRate <= 0 {
		return DecayFit{}, ErrInvalidSampleRate
	}

	if startDB <= endDB {
		return DecayFit{}, fmt.Errorf("%w: %.1f dB to %.1f dB", ErrInvalidRange, startDB, endDB)
	}

	return a.decayTime(curve, startDB, endDB)
}

// decayTime performs the range scan and regression (unchecked).
func (a *Analyzer) decayTime(curve []float64, startDB, endDB float64) (DecayFit, error) {
	fit := DecayFit{
		StartDB:    startDB,
		EndDB:      endDB,
		StartIndex: -1,
		EndIndex:   -1,
		Seconds:    NotDetected,
	}

	for i, v := range curve {
		if fit.StartIndex < 0 && v <= startDB && v >= endDB {
			fit.StartIndex = i
		}

		if v <= endDB {
			fit.EndIndex = i
			break
		}
	}

	if fit.StartIndex >= 0 {
		fit.StartTime = float64(fit.StartIndex) / a.SampleRate
	}
	if fit.EndIndex >= 0 {
		fit.EndTime = float64(fit.EndIndex) / a.SampleRate
	}

	if fit.StartIndex < 0 || fit.EndIndex < 0 || fit.EndIndex <= fit.StartIndex {
		return fit, fmt.Errorf("%w: %.1f dB to %.1f dB not reached", ErrNoDecay, startDB, endDB)
	}

	n := fit.EndIndex - fit.StartIndex + 1
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(fit.StartIndex+i) / a.SampleRate
	}
	y := curve[fit.StartIndex : fit.EndIndex+1]

	sumX := floats.Sum(x)
	denom := float64(n)*floats.Dot(x, x) - sumX*sumX
	if math.Abs(denom) < minDenominator {
		return fit, fmt.Errorf("%w: degenerate regression over %d samples", ErrNoDecay, n)
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	if slope >= 0 || math.IsNaN(slope) {
		return fit, fmt.Errorf("%w: slope %.3g dB/s", ErrNoDecay, slope)
	}

	fit.Slope = slope
	fit.Intercept = intercept
	fit.Seconds = (endDB - startDB) / slope

	return fit, nil
}

// Definition computes the definition D(t) at a given time boundary in ms.
//
//	D(t) = ∫₀ᵗ h²(τ)dτ / ∫₀^∞ h²(τ)dτ
//
// Returns a ratio between 0 and 1.
func (a *Analyzer) Definition(ir []float64, timeMs float64) (float64, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	if timeMs <= 0 {
		return 0, ErrInvalidTime
	}

	return a.definition(ir, timeMs), nil
}

// definition computes D(t) (unchecked).
func (a *Analyzer) definition(ir []float64, timeMs float64) float64 {
	boundarySample := int(math.Round(timeMs * 0.001 * a.SampleRate))
	if boundarySample <= 0 {
		return 0
	}

	if boundarySample >= len(ir) {
		return 1
	}

	earlyEnergy := floats.Dot(ir[:boundarySample], ir[:boundarySample])
	totalEnergy := earlyEnergy + floats.Dot(ir[boundarySample:], ir[boundarySample:])

	if totalEnergy <= 0 {
		return 0
	}

	return earlyEnergy / totalEnergy
}

// Clarity computes the clarity C(t) at a given time boundary in ms.
//
//	C(t) = 10*log10( ∫₀ᵗ h²(τ)dτ / ∫ₜ^∞ h²(τ)dτ )
//
// Returns the value in dB.
func (a *Analyzer) Clarity(ir []float64, timeMs float64) (float64, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	if timeMs <= 0 {
		return 0, ErrInvalidTime
	}

	return a.clarity(ir, timeMs), nil
}

// clarity computes C(t) (unchecked).
func (a *Analyzer) clarity(ir []float64, timeMs float64) float64 {
	boundarySample := int(math.Round(timeMs * 0.001 * a.SampleRate))
	if boundarySample <= 0 {
		return math.Inf(-1)
	}

	if boundarySample >= len(ir) {
		return math.Inf(1)
	}

	earlyEnergy := floats.Dot(ir[:boundarySample], ir[:boundarySample])
	lateEnergy := floats.Dot(ir[boundarySample:], ir[boundarySample:])

	if lateEnergy <= 0 {
		return math.Inf(1)
	}

	if earlyEnergy <= 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(earlyEnergy/lateEnergy)
}

// CenterTime computes the temporal energy centroid of the impulse response.
//
//	Ts = ∫₀^∞ τ·h²(τ)dτ / ∫₀^∞ h²(τ)dτ
//
// Returns the center time in seconds.
func (a *Analyzer) CenterTime(ir []float64) (float64, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	return a.centerTime(ir), nil
}

// centerTime computes Ts (unchecked).
func (a *Analyzer) centerTime(ir []float64) float64 {
	var numerator, denominator float64

	for i, v := range ir {
		e := v * v
		t := float64(i) / a.SampleRate
		numerator += t * e
		denominator += e
	}

	if denominator <= 0 {
		return 0
	}

	return numerator / denominator
}

// RT60 computes the reverberation time (time for -60 dB decay).
// Uses T20 extrapolation when possible, falls back to T10.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	if a.SampleRate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	schroeder := a.schroederIntegral(ir)

	if fit, err := a.decayTime(schroeder, T20Start, T20End); err == nil {
		return fit.RT60(), nil
	}

	if fit, err := a.decayTime(schroeder, T10Start, T10End); err == nil {
		return fit.RT60(), nil
	}

	return 0, ErrNoDecay
}

// FindImpulseStart finds the index of the first sample that exceeds
// a threshold relative to the peak amplitude.
//
// The default threshold is -20 dB below the peak (0.1 of peak amplitude).
// This is useful for trimming pre-delay silence from recorded IRs.
func (a *Analyzer) FindImpulseStart(ir []float64) (int, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	return findImpulseStart(ir, onsetRatio), nil
}

// findImpulseStart finds the first sample above threshold*peak.
func findImpulseStart(ir []float64, thresholdRatio float64) int {
	threshold := core.MaxAbs(ir) * thresholdRatio
	for i, v := range ir {
		if math.Abs(v) >= threshold {
			return i
		}
	}

	return 0
}
