package windowing

// NewBlackman creates a Blackman window
func NewBlackman(size int, symmetric bool) *Window {
	return cosineSum("blackman", size, symmetric, 0.42, 0.5, 0.08)
}
