package windowing

// NewRectangular creates a rectangular (boxcar) window
func NewRectangular(size int) *Window {
	return cosineSum("rectangular", size, false, 1)
}
