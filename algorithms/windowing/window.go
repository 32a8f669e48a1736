package windowing

import (
	"fmt"
	"math"
	"strings"
)

// Window holds precomputed coefficients for a tapering function.
// Periodic (non-symmetric) windows are what STFT analysis expects.
type Window struct {
	name         string
	size         int
	symmetric    bool
	coefficients []float64
}

// New builds a window by name. Names follow scipy.signal.get_window:
// hann, hamming, blackman, blackmanharris, bartlett, tukey (alpha 0.5)
// and rectangular.
func New(name string, size int, symmetric bool) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hann", "hanning", "":
		return NewHann(size, symmetric), nil
	case "hamming":
		return NewHamming(size, symmetric), nil
	case "blackman":
		return NewBlackman(size, symmetric), nil
	case "blackmanharris", "blackman-harris":
		return NewBlackmanHarris(size, symmetric), nil
	case "bartlett":
		return NewBartlett(size, symmetric), nil
	case "tukey":
		return NewTukey(size, 0.5, symmetric), nil
	case "rectangular", "boxcar", "ones":
		return NewRectangular(size), nil
	default:
		return nil, fmt.Errorf("unknown window %q", name)
	}
}

// span returns the length the formula is evaluated over. A periodic window
// of size n is the first n points of a symmetric window of size n+1.
func span(size int, symmetric bool) int {
	if symmetric {
		return size
	}
	return size + 1
}

func newWindow(name string, size int, symmetric bool, fn func(n, m int) float64) *Window {
	w := &Window{
		name:         name,
		size:         size,
		symmetric:    symmetric,
		coefficients: make([]float64, size),
	}

	if size == 1 {
		w.coefficients[0] = 1.0
		return w
	}

	m := span(size, symmetric)
	for n := range size {
		w.coefficients[n] = fn(n, m)
	}
	return w
}

// cosineSum fills a generalized cosine window sum_k (-1)^k a_k cos(k x).
func cosineSum(name string, size int, symmetric bool, a ...float64) *Window {
	return newWindow(name, size, symmetric, func(n, m int) float64 {
		x := 2 * math.Pi * float64(n) / float64(m-1)
		v, sign := 0.0, 1.0
		for k, ak := range a {
			v += sign * ak * math.Cos(float64(k)*x)
			sign = -sign
		}
		return v
	})
}

// ApplyInPlace applies the window to a signal in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	for i := range w.size {
		signal[i] *= w.coefficients[i]
	}

	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (w *Window) GetCoefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// GetSize returns the window size
func (w *Window) GetSize() int {
	return w.size
}

// GetType returns the window type
func (w *Window) GetType() string {
	return w.name
}
