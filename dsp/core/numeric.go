package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// MaxAbs returns the largest absolute value in x, or 0 for an empty slice.
func MaxAbs(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return floats.Norm(x, math.Inf(1))
}

// PeakIndex returns the index of the largest absolute value in x.
// Ties resolve to the first occurrence; an empty slice yields -1.
func PeakIndex(x []float64) int {
	idx := -1
	peak := -1.0

	for i, v := range x {
		av := math.Abs(v)
		if av > peak {
			peak = av
			idx = i
		}
	}

	return idx
}

// DBPowerToLinear converts dB to linear power (10*log10 convention).
func DBPowerToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}
