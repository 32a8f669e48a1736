package windowing

// NewHann creates a Hann window. librosa's default "hann" STFT window is the
// periodic form (symmetric=false).
func NewHann(size int, symmetric bool) *Window {
	return cosineSum("hann", size, symmetric, 0.5, 0.5)
}
