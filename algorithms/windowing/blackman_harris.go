package windowing

// NewBlackmanHarris creates a 4-term Blackman-Harris window
func NewBlackmanHarris(size int, symmetric bool) *Window {
	return cosineSum("blackmanharris", size, symmetric, 0.35875, 0.48829, 0.14128, 0.01168)
}
