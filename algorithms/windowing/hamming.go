package windowing

// NewHamming creates a Hamming window
func NewHamming(size int, symmetric bool) *Window {
	return cosineSum("hamming", size, symmetric, 0.54, 0.46)
}
