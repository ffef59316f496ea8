// Package level summarizes the level of a recorded signal: peak and RMS in
// dB relative to full scale, crest factor, DC offset and clipping.
//
// Measurement tools use it to flag recordings that were captured too hot or
// too quiet before deconvolving them.
package level

import (
	"math"

	"github.com/cwbudde/algo-tsp/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats holds level statistics of a signal in full-scale units, where 1.0
// is digital full scale.
type Stats struct {
	Length  int
	DC      float64 // mean
	RMS     float64
	RMSDB   float64 // dBFS, -Inf for silence
	Peak    float64 // max |x|
	PeakDB  float64 // dBFS, -Inf for silence
	PeakPos int
	CrestDB float64 // peak / RMS in dB, 0 for silence
	Clipped int     // samples at either rail, PCM input only
}

// ampToDB converts an amplitude to decibels: 20 * log10(|value|).
// Returns -Inf for zero.
func ampToDB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

func emptyStats() Stats {
	return Stats{
		RMSDB:  math.Inf(-1),
		PeakDB: math.Inf(-1),
	}
}

// Calculate computes level statistics of signal.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	rms := math.Sqrt(floats.Dot(signal, signal) / float64(n))
	pos := core.PeakIndex(signal)
	peak := math.Abs(signal[pos])

	s := Stats{
		Length:  n,
		DC:      stat.Mean(signal, nil),
		RMS:     rms,
		RMSDB:   ampToDB(rms),
		Peak:    peak,
		PeakDB:  ampToDB(peak),
		PeakPos: pos,
	}

	if rms > 0 {
		s.CrestDB = ampToDB(peak / rms)
	}

	return s
}

// FromPCM computes level statistics of a 16-bit buffer. Samples are scaled
// by 1/32768, and samples equal to 32767 or -32768 are counted as clipped.
func FromPCM(pcm core.PCM16) Stats {
	s := Calculate(pcm.Float64())

	for _, v := range pcm.Samples {
		if v == math.MaxInt16 || v == math.MinInt16 {
			s.Clipped++
		}
	}

	return s
}

// Clipping reports whether any sample reached a rail.
func (s Stats) Clipping() bool {
	return s.Clipped > 0
}
