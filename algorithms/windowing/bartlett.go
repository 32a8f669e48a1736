package windowing

import "math"

// NewBartlett creates a Bartlett (triangular, zero end points) window
func NewBartlett(size int, symmetric bool) *Window {
	return newWindow("bartlett", size, symmetric, func(n, m int) float64 {
		return 1 - math.Abs(2*float64(n)/float64(m-1)-1)
	})
}
