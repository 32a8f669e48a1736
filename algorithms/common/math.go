package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Peak returns the largest absolute sample value
func Peak(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Max(math.Abs(floats.Max(data)), math.Abs(floats.Min(data)))
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Norm(data, 2) / math.Sqrt(float64(len(data)))
}

// MatrixRange returns the minimum and maximum over all rows.
// ok is false when the matrix holds no values.
func MatrixRange(matrix [][]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range matrix {
		if len(row) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(row))
		hi = math.Max(hi, floats.Max(row))
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// MinMaxNormalize maps value from [lo, hi] to [0, 1]; a degenerate range maps to 0.
func MinMaxNormalize(value, lo, hi float64) float64 {
	if math.Abs(hi-lo) < 1e-12 {
		return 0
	}
	return Clamp((value-lo)/(hi-lo), 0, 1)
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Lerp performs linear interpolation between two values
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
