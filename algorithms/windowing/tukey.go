package windowing

import "math"

// NewTukey creates a tapered cosine window. alpha is the tapered fraction:
// 0 gives a rectangular window, 1 a Hann window.
func NewTukey(size int, alpha float64, symmetric bool) *Window {
	alpha = max(0, min(1, alpha))
	if alpha == 0 {
		w := NewRectangular(size)
		w.name, w.symmetric = "tukey", symmetric
		return w
	}

	return newWindow("tukey", size, symmetric, func(n, m int) float64 {
		width := int(math.Floor(alpha * float64(m-1) / 2))
		x := 2 * float64(n) / alpha / float64(m-1)
		switch {
		case n <= width:
			return 0.5 * (1 + math.Cos(math.Pi*(-1+x)))
		case n < m-width-1:
			return 1
		default:
			return 0.5 * (1 + math.Cos(math.Pi*(-2/alpha+1+x)))
		}
	})
}
